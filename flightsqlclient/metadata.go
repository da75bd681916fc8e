package flightsqlclient

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/flight"

	"github.com/arrowlane/flightsql/command"
)

// metadataQuery issues v as a FlightDescriptor, opens a DoGet stream on
// the first endpoint of the answer, and returns a Reader over it; the
// caller reads the single record batch every metadata query answers with
// by calling Next. It returns a nil Reader when the answer names no
// endpoint. Metadata queries never produce more than one endpoint in this
// engine, so there is no fan-out to do.
func (c *Client) metadataQuery(ctx context.Context, v command.Variant) (*flight.Reader, error) {
	desc := &flight.FlightDescriptor{Type: flight.DescriptorCMD, Cmd: command.Pack(v)}
	info, err := c.home.GetFlightInfo(ctx, desc)
	if err != nil {
		return nil, fmt.Errorf("flightsqlclient: GetFlightInfo: %w", err)
	}
	if len(info.Endpoint) == 0 {
		return nil, nil
	}
	cl, err := c.clientFor(ctx, info.Endpoint[0])
	if err != nil {
		return nil, err
	}
	stream, err := cl.DoGet(ctx, info.Endpoint[0].Ticket)
	if err != nil {
		return nil, fmt.Errorf("flightsqlclient: DoGet: %w", err)
	}
	return flight.NewRecordReader(stream)
}

// GetCatalogs lists every catalog the server knows about (§6).
func (c *Client) GetCatalogs(ctx context.Context) (*flight.Reader, error) {
	return c.metadataQuery(ctx, command.GetCatalogs{})
}

// GetSchemas lists database schemas, optionally filtered by catalog
// and/or a schema-name pattern (§6, three-valued filter semantics).
func (c *Client) GetSchemas(ctx context.Context, catalog, schemaFilterPattern *string) (*flight.Reader, error) {
	return c.metadataQuery(ctx, command.GetSchemas{Catalog: catalog, SchemaFilterPattern: schemaFilterPattern})
}

// GetTables lists tables, optionally filtered by catalog, schema pattern,
// table-name pattern, and/or table types; includeSchema also returns each
// table's own serialized Arrow schema (§6).
func (c *Client) GetTables(ctx context.Context, catalog, schemaFilterPattern, tableNameFilterPattern *string, tableTypes []string, includeSchema bool) (*flight.Reader, error) {
	return c.metadataQuery(ctx, command.GetTables{
		Catalog:                catalog,
		SchemaFilterPattern:    schemaFilterPattern,
		TableNameFilterPattern: tableNameFilterPattern,
		TableTypes:             tableTypes,
		IncludeSchema:          includeSchema,
	})
}

// GetTableTypes lists the distinct table types the server reports (§6).
func (c *Client) GetTableTypes(ctx context.Context) (*flight.Reader, error) {
	return c.metadataQuery(ctx, command.GetTableTypes{})
}

// GetSqlInfo requests server capability/metadata info. An empty codes
// slice requests every code the server knows about (§6).
func (c *Client) GetSqlInfo(ctx context.Context, codes []int32) (*flight.Reader, error) {
	return c.metadataQuery(ctx, command.GetSqlInfo{Info: codes})
}

// GetPrimaryKeys lists the primary-key columns of one table (§6).
func (c *Client) GetPrimaryKeys(ctx context.Context, catalog, schema *string, table string) (*flight.Reader, error) {
	return c.metadataQuery(ctx, command.GetPrimaryKeys{Catalog: catalog, Schema: schema, Table: table})
}

// GetImportedKeys lists the foreign keys table declares against other
// tables' primary keys (§6).
func (c *Client) GetImportedKeys(ctx context.Context, catalog, schema *string, table string) (*flight.Reader, error) {
	return c.metadataQuery(ctx, command.GetImportedKeys{Catalog: catalog, Schema: schema, Table: table})
}

// GetExportedKeys lists the foreign keys other tables declare against
// table's primary key (§6).
func (c *Client) GetExportedKeys(ctx context.Context, catalog, schema *string, table string) (*flight.Reader, error) {
	return c.metadataQuery(ctx, command.GetExportedKeys{Catalog: catalog, Schema: schema, Table: table})
}

// GetCrossReference lists the foreign keys in fkTable that reference
// pkTable's primary key (§6).
func (c *Client) GetCrossReference(ctx context.Context, pkCatalog, pkSchema *string, pkTable string, fkCatalog, fkSchema *string, fkTable string) (*flight.Reader, error) {
	return c.metadataQuery(ctx, command.GetCrossReference{
		PKCatalog: pkCatalog, PKSchema: pkSchema, PKTable: pkTable,
		FKCatalog: fkCatalog, FKSchema: fkSchema, FKTable: fkTable,
	})
}
