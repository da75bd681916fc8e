package flightsql

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/arrowlane/flightsql/resultschema"
)

func strPtr(s string) *string { return &s }

func TestCatalogsRecordShape(t *testing.T) {
	mem := memory.NewGoAllocator()
	rec := catalogsRecord(mem, []string{"main", "temp"})
	defer rec.Release()

	if !rec.Schema().Equal(resultschema.Catalogs) {
		t.Fatal("catalogsRecord schema mismatch")
	}
	if rec.NumRows() != 2 {
		t.Fatalf("got %d rows, want 2", rec.NumRows())
	}
}

func TestTablesRecordIncludesSchemaColumnOnlyWhenRequested(t *testing.T) {
	mem := memory.NewGoAllocator()
	rows := []TableRow{
		{Catalog: strPtr("main"), Schema: nil, Name: "t1", Type: "TABLE"},
	}

	without := tablesRecord(mem, rows, false)
	defer without.Release()
	if !without.Schema().Equal(resultschema.Tables) {
		t.Fatal("expected plain Tables schema when includeSchema is false")
	}
	if without.NumCols() != 4 {
		t.Fatalf("got %d cols, want 4", without.NumCols())
	}

	with := tablesRecord(mem, rows, true)
	defer with.Release()
	if !with.Schema().Equal(resultschema.TablesWithIncludedSchema) {
		t.Fatal("expected TablesWithIncludedSchema when includeSchema is true")
	}
	if with.NumCols() != 5 {
		t.Fatalf("got %d cols, want 5", with.NumCols())
	}
}

func TestPrimaryKeysRecordNullHandling(t *testing.T) {
	mem := memory.NewGoAllocator()
	rows := []PrimaryKeyRow{
		{Catalog: nil, Schema: strPtr("public"), Table: "t", Column: "id", KeySequence: nil, KeyName: nil},
	}
	rec := primaryKeysRecord(mem, rows)
	defer rec.Release()

	if rec.NumRows() != 1 {
		t.Fatalf("got %d rows, want 1", rec.NumRows())
	}
	if rec.Column(0).IsValid(0) {
		t.Error("expected catalog_name to be null")
	}
	if !rec.Column(1).IsValid(0) {
		t.Error("expected db_schema_name to be non-null")
	}
	if rec.Column(4).IsValid(0) {
		t.Error("expected key_sequence to be null")
	}
}

func TestSqlInfoRecordSkipsMissingCodesAndEncodesUnion(t *testing.T) {
	mem := memory.NewGoAllocator()
	values := map[int32]resultschema.SqlInfoValue{
		resultschema.SqlInfoServerName:     resultschema.StringValue("arrowlane"),
		resultschema.SqlInfoServerReadOnly: resultschema.Int32Value(0),
	}
	requested := []int32{resultschema.SqlInfoServerName, resultschema.SqlInfoServerVersion, resultschema.SqlInfoServerReadOnly}

	rec := sqlInfoRecord(mem, requested, values)
	defer rec.Release()

	if rec.NumRows() != 2 {
		t.Fatalf("got %d rows, want 2 (SqlInfoServerVersion has no value and should be skipped)", rec.NumRows())
	}
}

func TestForeignKeysRecordSharesLayoutAcrossQueries(t *testing.T) {
	mem := memory.NewGoAllocator()
	rows := []ForeignKeyRow{
		{
			PKCatalog: nil, PKSchema: strPtr("public"), PKTable: "parent", PKColumn: "id",
			FKCatalog: nil, FKSchema: strPtr("public"), FKTable: "child", FKColumn: "parent_id",
			KeySequence: nil, FKKeyName: nil, PKKeyName: nil, UpdateRule: 0, DeleteRule: 0,
		},
	}

	imported := foreignKeysRecord(mem, resultschema.ImportedKeys, rows)
	defer imported.Release()
	exported := foreignKeysRecord(mem, resultschema.ExportedKeys, rows)
	defer exported.Release()

	if !imported.Schema().Equal(exported.Schema()) {
		t.Fatal("ImportedKeys and ExportedKeys should share the same row layout")
	}
	if imported.NumRows() != 1 {
		t.Fatalf("got %d rows, want 1", imported.NumRows())
	}
}
