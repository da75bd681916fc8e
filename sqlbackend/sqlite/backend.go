// Package sqlite is the reference SqlBackend (§ sqlbackend/sqlite of
// SPEC_FULL §D): a flightsql.Backend implementation over
// modernc.org/sqlite, grounded on the original implementation's
// Derby-backed FlightSqlExample/server.cpp reference servers and on the
// teacher's database/sql-to-Arrow scan pattern in arrow_helpers.go.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	_ "modernc.org/sqlite"

	"github.com/arrowlane/flightsql/flightsql"
)

// Backend answers every flightsql capability interface over a single
// SQLite database. It is safe for concurrent use: *sql.DB already is,
// and the prepared-handle map is guarded by its own mutex.
type Backend struct {
	db    *sql.DB
	alloc memory.Allocator

	mu       sync.Mutex
	prepared map[*preparedQuery]struct{}
}

// Open opens a SQLite database at dsn (e.g. "file::memory:?cache=shared"
// for an ephemeral in-process database, or a file path) and returns a
// ready Backend.
func Open(dsn string) (*Backend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlbackend/sqlite: open %s: %w", dsn, err)
	}
	return New(db), nil
}

// New wraps an already-open *sql.DB.
func New(db *sql.DB) *Backend {
	return &Backend{
		db:       db,
		alloc:    memory.NewGoAllocator(),
		prepared: make(map[*preparedQuery]struct{}),
	}
}

// Close closes the underlying database connection.
func (b *Backend) Close() error {
	return b.db.Close()
}

// preparedQuery is the backend handle threaded through
// flightsql.PreparedStatementHandler; it owns a real *sql.Stmt so Close
// releases the SQLite-side resource promptly rather than waiting for the
// connection to be reused (§ cancel-on-disconnect cleanup).
type preparedQuery struct {
	query      string
	stmt       *sql.Stmt
	paramCount int
	args       []any
}

func countPlaceholders(query string) int {
	return strings.Count(query, "?")
}

// PrepareQuerySchema discovers query's result schema without running it,
// by wrapping it in a zero-row SELECT (§4.3 StatementHandler).
func (b *Backend) PrepareQuerySchema(ctx context.Context, query string) (*arrow.Schema, error) {
	if countPlaceholders(query) > 0 {
		return nil, nil
	}
	return querySchema(ctx, b.db, query)
}

// ExecuteQuery runs an ad-hoc query and streams its results.
func (b *Backend) ExecuteQuery(ctx context.Context, query string) (*arrow.Schema, flightsql.RecordStream, error) {
	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	schema, err := schemaFromColumnTypes(rows)
	if err != nil {
		rows.Close()
		return nil, nil, err
	}
	return schema, newRowStream(b.alloc, rows, schema), nil
}

// ExecuteUpdate runs an ad-hoc non-query statement.
func (b *Backend) ExecuteUpdate(ctx context.Context, query string) (int64, error) {
	res, err := b.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Prepare compiles query into a real SQLite prepared statement (§4.4
// Create transition). The parameter schema is a generic, all-Utf8 schema
// sized to the query's placeholder count — SQLite's driver does not
// expose parameter types, so this backend cannot report anything more
// specific; a nil parameter schema means the query takes none.
func (b *Backend) Prepare(ctx context.Context, query string) (any, *arrow.Schema, *arrow.Schema, error) {
	stmt, err := b.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, nil, nil, err
	}
	pq := &preparedQuery{query: query, stmt: stmt, paramCount: countPlaceholders(query)}

	b.mu.Lock()
	b.prepared[pq] = struct{}{}
	b.mu.Unlock()

	var dataset, params *arrow.Schema
	if pq.paramCount == 0 {
		dataset, _ = querySchema(ctx, b.db, query)
	} else {
		fields := make([]arrow.Field, pq.paramCount)
		for i := range fields {
			fields[i] = arrow.Field{Name: fmt.Sprintf("parameter_%d", i+1), Type: arrow.BinaryTypes.String, Nullable: true}
		}
		params = arrow.NewSchema(fields, nil)
	}
	return pq, dataset, params, nil
}

// Bind consumes the client's first uploaded parameter row verbatim as
// this prepared statement's positional arguments (§9: no substitution of
// sample values). Only the first row of a multi-row batch is kept; this
// backend does not implement SQL batch execution across bind rows.
func (b *Backend) Bind(ctx context.Context, backendHandle any, params arrow.Record) error {
	pq, ok := backendHandle.(*preparedQuery)
	if !ok {
		return fmt.Errorf("sqlbackend/sqlite: invalid prepared handle %T", backendHandle)
	}
	if params.NumRows() == 0 {
		pq.args = nil
		return nil
	}
	args := make([]any, params.NumCols())
	for i := 0; i < int(params.NumCols()); i++ {
		args[i] = scalarAt(params.Column(i), 0)
	}
	pq.args = args
	return nil
}

// Execute runs the bound (or parameterless) prepared query.
func (b *Backend) Execute(ctx context.Context, backendHandle any) (*arrow.Schema, flightsql.RecordStream, error) {
	pq, ok := backendHandle.(*preparedQuery)
	if !ok {
		return nil, nil, fmt.Errorf("sqlbackend/sqlite: invalid prepared handle %T", backendHandle)
	}
	rows, err := pq.stmt.QueryContext(ctx, pq.args...)
	if err != nil {
		return nil, nil, err
	}
	schema, err := schemaFromColumnTypes(rows)
	if err != nil {
		rows.Close()
		return nil, nil, err
	}
	return schema, newRowStream(b.alloc, rows, schema), nil
}

// ExecuteUpdate runs the bound (or parameterless) prepared update.
func (b *Backend) ExecuteUpdate(ctx context.Context, backendHandle any) (int64, error) {
	pq, ok := backendHandle.(*preparedQuery)
	if !ok {
		return 0, fmt.Errorf("sqlbackend/sqlite: invalid prepared handle %T", backendHandle)
	}
	res, err := pq.stmt.ExecContext(ctx, pq.args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close releases the prepared statement's SQLite resources.
func (b *Backend) Close(ctx context.Context, backendHandle any) error {
	pq, ok := backendHandle.(*preparedQuery)
	if !ok {
		return fmt.Errorf("sqlbackend/sqlite: invalid prepared handle %T", backendHandle)
	}
	b.mu.Lock()
	delete(b.prepared, pq)
	b.mu.Unlock()
	return pq.stmt.Close()
}

var _ flightsql.Backend = (*Backend)(nil)
