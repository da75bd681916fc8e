// Package resultschema is the catalog of fixed Arrow result schemas every
// metadata query (GetCatalogs, GetSchemas, GetTables, ...) must conform
// to (§4.2, §3 RecordBatch
// fidelity invariant). Each variable is the one true layout for its
// query — the dispatcher in package flightsql never builds an ad-hoc
// schema for these, it always serializes one of these.
package resultschema

import "github.com/apache/arrow-go/v18/arrow"

func strField(name string, nullable bool) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: nullable}
}

func int32Field(name string, nullable bool) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int32, Nullable: nullable}
}

func uint8Field(name string, nullable bool) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Uint8, Nullable: nullable}
}

// Catalogs is the result schema of CommandGetCatalogs.
var Catalogs = arrow.NewSchema([]arrow.Field{
	strField("catalog_name", true),
}, nil)

// DBSchemas is the result schema of CommandGetSchemas.
var DBSchemas = arrow.NewSchema([]arrow.Field{
	strField("catalog_name", true),
	strField("db_schema_name", false),
}, nil)

// Tables is the result schema of CommandGetTables with IncludeSchema unset.
var Tables = arrow.NewSchema([]arrow.Field{
	strField("catalog_name", true),
	strField("db_schema_name", true),
	strField("table_name", false),
	strField("table_type", false),
}, nil)

// TablesWithIncludedSchema is the result schema of CommandGetTables with
// IncludeSchema set: it adds the table's own serialized Arrow schema as an
// opaque binary column.
var TablesWithIncludedSchema = arrow.NewSchema([]arrow.Field{
	strField("catalog_name", true),
	strField("db_schema_name", true),
	strField("table_name", false),
	strField("table_type", false),
	{Name: "table_schema", Type: arrow.BinaryTypes.Binary, Nullable: false},
}, nil)

// TableTypes is the result schema of CommandGetTableTypes.
var TableTypes = arrow.NewSchema([]arrow.Field{
	strField("table_type", false),
}, nil)

// PrimaryKeys is the result schema of CommandGetPrimaryKeys.
var PrimaryKeys = arrow.NewSchema([]arrow.Field{
	strField("catalog_name", true),
	strField("db_schema_name", true),
	strField("table_name", false),
	strField("column_name", false),
	int32Field("key_sequence", true),
	strField("key_name", true),
}, nil)

func foreignKeyFields() []arrow.Field {
	return []arrow.Field{
		strField("pk_catalog_name", true),
		strField("pk_db_schema_name", true),
		strField("pk_table_name", false),
		strField("pk_column_name", false),
		strField("fk_catalog_name", true),
		strField("fk_db_schema_name", true),
		strField("fk_table_name", false),
		strField("fk_column_name", false),
		int32Field("key_sequence", true),
		strField("fk_key_name", true),
		strField("pk_key_name", true),
		uint8Field("update_rule", false),
		uint8Field("delete_rule", false),
	}
}

// ImportedKeys is the result schema of CommandGetImportedKeys.
var ImportedKeys = arrow.NewSchema(foreignKeyFields(), nil)

// ExportedKeys is the result schema of CommandGetExportedKeys.
var ExportedKeys = arrow.NewSchema(foreignKeyFields(), nil)

// CrossReference is the result schema of CommandGetCrossReference.
var CrossReference = arrow.NewSchema(foreignKeyFields(), nil)
