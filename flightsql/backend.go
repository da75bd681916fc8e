// Package flightsql implements the server dispatcher and prepared-statement
// lifecycle manager: the part of the engine that decodes command envelopes,
// routes them to a SqlBackend, and turns the backend's answers back into
// Arrow Flight responses (§4.3, §4.4).
//
// Nothing in this package talks SQL. It talks Flight (the generic
// transport) on one side and Backend (a small set of capability interfaces)
// on the other, the way flightsql.BaseServer's handler interfaces work in
// the teacher, except every interface and every routing decision here is
// this engine's own.
package flightsql

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/arrowlane/flightsql/resultschema"
)

// RecordStream is a pull-based sequence of record batches answering a query
// (§3 RecordBatch, §5 "result sets are pulled, not buffered"). Next returns
// io.EOF once exhausted. Close must be safe to call multiple times and must
// be called even if the stream is abandoned mid-read (§5 Cancellation).
type RecordStream interface {
	Next() (arrow.Record, error)
	Close() error
}

// SchemaRow is one row of a GetSchemas result.
type SchemaRow struct {
	Catalog *string
	Name    string
}

// TableRow is one row of a GetTables result. Schema is the table's own
// serialized Arrow schema; it is only populated (and only read) when the
// originating request had IncludeSchema set.
type TableRow struct {
	Catalog     *string
	Schema      *string
	Name        string
	Type        string
	ArrowSchema *arrow.Schema
}

// PrimaryKeyRow is one row of a GetPrimaryKeys result.
type PrimaryKeyRow struct {
	Catalog     *string
	Schema      *string
	Table       string
	Column      string
	KeySequence *int32
	KeyName     *string
}

// ForeignKeyRow is one row of a GetImportedKeys/GetExportedKeys/
// GetCrossReference result.
type ForeignKeyRow struct {
	PKCatalog   *string
	PKSchema    *string
	PKTable     string
	PKColumn    string
	FKCatalog   *string
	FKSchema    *string
	FKTable     string
	FKColumn    string
	KeySequence *int32
	FKKeyName   *string
	PKKeyName   *string
	UpdateRule  uint8
	DeleteRule  uint8
}

// StatementHandler answers ad-hoc CommandStatementQuery/CommandStatementUpdate
// requests (§4.3).
type StatementHandler interface {
	// PrepareQuerySchema returns the result schema of query without
	// executing it, used to build GetFlightInfo's response.
	PrepareQuerySchema(ctx context.Context, query string) (*arrow.Schema, error)
	// ExecuteQuery runs query and streams its results.
	ExecuteQuery(ctx context.Context, query string) (*arrow.Schema, RecordStream, error)
	// ExecuteUpdate runs a non-query statement and returns the affected
	// row count (§9 Open Question: the engine passes this through
	// unchanged, including negative backend-reported counts).
	ExecuteUpdate(ctx context.Context, query string) (int64, error)
}

// PreparedStatementHandler backs the Create→Bind→Execute→Close lifecycle
// (§4.4). The handle returned by Prepare is opaque to this package; it is
// threaded back into every later call unchanged.
type PreparedStatementHandler interface {
	// Prepare compiles query against the backend, returning a backend
	// handle plus the dataset schema (nil if unknown ahead of Bind) and
	// the parameter schema (nil if the statement takes no parameters).
	Prepare(ctx context.Context, query string) (backendHandle any, dataset, params *arrow.Schema, err error)
	// Bind consumes the client's uploaded parameter batch verbatim; it
	// must not substitute sample or hard-coded values (§9 correction of
	// the reference implementation's hard-coded bind bug).
	Bind(ctx context.Context, backendHandle any, params arrow.Record) error
	// Execute runs a bound (or parameterless) prepared query.
	Execute(ctx context.Context, backendHandle any) (*arrow.Schema, RecordStream, error)
	// ExecuteUpdate runs a bound (or parameterless) prepared update.
	ExecuteUpdate(ctx context.Context, backendHandle any) (int64, error)
	// Close releases backend resources for handle. Called at most once
	// per successfully prepared handle.
	Close(ctx context.Context, backendHandle any) error
}

// CatalogsHandler answers CommandGetCatalogs.
type CatalogsHandler interface {
	ListCatalogs(ctx context.Context) ([]string, error)
}

// SchemasHandler answers CommandGetSchemas.
type SchemasHandler interface {
	ListSchemas(ctx context.Context, catalog, schemaFilterPattern *string) ([]SchemaRow, error)
}

// TablesHandler answers CommandGetTables.
type TablesHandler interface {
	ListTables(ctx context.Context, catalog, schemaFilterPattern, tableNameFilterPattern *string, tableTypes []string, includeSchema bool) ([]TableRow, error)
}

// TableTypesHandler answers CommandGetTableTypes.
type TableTypesHandler interface {
	ListTableTypes(ctx context.Context) ([]string, error)
}

// SqlInfoHandler answers CommandGetSqlInfo.
type SqlInfoHandler interface {
	// GetSqlInfo returns values for exactly the requested codes, or for
	// every code it knows about when codes is empty.
	GetSqlInfo(ctx context.Context, codes []int32) (map[int32]resultschema.SqlInfoValue, error)
}

// PrimaryKeysHandler answers CommandGetPrimaryKeys.
type PrimaryKeysHandler interface {
	GetPrimaryKeys(ctx context.Context, catalog, schema *string, table string) ([]PrimaryKeyRow, error)
}

// ImportedKeysHandler answers CommandGetImportedKeys.
type ImportedKeysHandler interface {
	GetImportedKeys(ctx context.Context, catalog, schema *string, table string) ([]ForeignKeyRow, error)
}

// ExportedKeysHandler answers CommandGetExportedKeys.
type ExportedKeysHandler interface {
	GetExportedKeys(ctx context.Context, catalog, schema *string, table string) ([]ForeignKeyRow, error)
}

// CrossReferenceHandler answers CommandGetCrossReference.
type CrossReferenceHandler interface {
	GetCrossReference(ctx context.Context, pkCatalog, pkSchema *string, pkTable string, fkCatalog, fkSchema *string, fkTable string) ([]ForeignKeyRow, error)
}

// Backend is the full surface a SqlBackend collaborator may implement.
// Dispatcher handlers type-assert a Backend against the narrower
// capability interfaces above and answer NotImplemented for any the
// backend doesn't satisfy (§4.3 "dynamic-dispatch producer with default
// not-implemented").
type Backend interface {
	StatementHandler
	PreparedStatementHandler
}
