package sqlite

import (
	"context"
	"testing"
)

func TestLikeMatchWildcards(t *testing.T) {
	cases := []struct {
		name, pattern string
		want          bool
	}{
		{"inttable", "int%", true},
		{"foreigntable", "int%", false},
		{"inttable", "in_table", true},
		{"inttable", "int", false},
		{"anything", "%", true},
	}
	for _, c := range cases {
		if got := likeMatch(c.name, c.pattern); got != c.want {
			t.Errorf("likeMatch(%q, %q) = %v, want %v", c.name, c.pattern, got, c.want)
		}
	}
}

func TestListCatalogsAndSchemas(t *testing.T) {
	b := newSeededBackend(t)
	ctx := context.Background()

	catalogs, err := b.ListCatalogs(ctx)
	if err != nil || len(catalogs) != 1 {
		t.Fatalf("ListCatalogs() = %v, %v", catalogs, err)
	}

	schemas, err := b.ListSchemas(ctx, nil, nil)
	if err != nil || len(schemas) != 1 || schemas[0].Name != "main" {
		t.Fatalf("ListSchemas() = %v, %v", schemas, err)
	}
}

func TestListTablesFindsSeededTables(t *testing.T) {
	b := newSeededBackend(t)
	ctx := context.Background()

	tables, err := b.ListTables(ctx, nil, nil, nil, nil, false)
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	names := map[string]bool{}
	for _, tbl := range tables {
		names[tbl.Name] = true
		if tbl.Type != "TABLE" {
			t.Errorf("table %s has type %s, want TABLE", tbl.Name, tbl.Type)
		}
	}
	if !names["intTable"] || !names["foreignTable"] {
		t.Fatalf("expected intTable and foreignTable, got %v", tables)
	}
}

func TestListTablesIncludesSchemaWhenRequested(t *testing.T) {
	b := newSeededBackend(t)
	ctx := context.Background()

	pattern := "intTable"
	tables, err := b.ListTables(ctx, nil, nil, &pattern, nil, true)
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	if tables[0].ArrowSchema == nil {
		t.Fatal("expected ArrowSchema to be populated")
	}
	if tables[0].ArrowSchema.NumFields() != 4 {
		t.Fatalf("got %d fields, want 4", tables[0].ArrowSchema.NumFields())
	}
}

func TestGetPrimaryKeysOnIntTable(t *testing.T) {
	b := newSeededBackend(t)
	ctx := context.Background()

	keys, err := b.GetPrimaryKeys(ctx, nil, nil, "intTable")
	if err != nil {
		t.Fatalf("GetPrimaryKeys: %v", err)
	}
	if len(keys) != 1 || keys[0].Column != "id" {
		t.Fatalf("got %v, want single pk column id", keys)
	}
	if keys[0].KeyName == nil || *keys[0].KeyName == "" {
		t.Fatalf("got %v, want a non-null key_name", keys[0].KeyName)
	}
}

func TestGetImportedAndExportedKeys(t *testing.T) {
	b := newSeededBackend(t)
	ctx := context.Background()

	imported, err := b.GetImportedKeys(ctx, nil, nil, "intTable")
	if err != nil {
		t.Fatalf("GetImportedKeys: %v", err)
	}
	if len(imported) != 1 || imported[0].PKTable != "foreignTable" || imported[0].FKColumn != "foreignId" {
		t.Fatalf("unexpected imported keys: %v", imported)
	}

	exported, err := b.GetExportedKeys(ctx, nil, nil, "foreignTable")
	if err != nil {
		t.Fatalf("GetExportedKeys: %v", err)
	}
	if len(exported) != 1 || exported[0].FKTable != "intTable" {
		t.Fatalf("unexpected exported keys: %v", exported)
	}
}

func TestGetCrossReference(t *testing.T) {
	b := newSeededBackend(t)
	ctx := context.Background()

	refs, err := b.GetCrossReference(ctx, nil, nil, "foreignTable", nil, nil, "intTable")
	if err != nil {
		t.Fatalf("GetCrossReference: %v", err)
	}
	if len(refs) != 1 || refs[0].FKColumn != "foreignId" || refs[0].PKColumn != "id" {
		t.Fatalf("unexpected cross reference: %v", refs)
	}

	none, err := b.GetCrossReference(ctx, nil, nil, "intTable", nil, nil, "foreignTable")
	if err != nil {
		t.Fatalf("GetCrossReference: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no cross reference in reverse direction, got %v", none)
	}
}
