package resultschema

import "testing"

func TestFixedLayoutsHaveExpectedFieldCounts(t *testing.T) {
	cases := []struct {
		name   string
		schema interface{ NumFields() int }
		want   int
	}{
		{"Catalogs", Catalogs, 1},
		{"DBSchemas", DBSchemas, 2},
		{"Tables", Tables, 4},
		{"TablesWithIncludedSchema", TablesWithIncludedSchema, 5},
		{"TableTypes", TableTypes, 1},
		{"PrimaryKeys", PrimaryKeys, 6},
		{"ImportedKeys", ImportedKeys, 13},
		{"ExportedKeys", ExportedKeys, 13},
		{"CrossReference", CrossReference, 13},
		{"SqlInfo", SqlInfo, 2},
	}
	for _, c := range cases {
		if got := c.schema.NumFields(); got != c.want {
			t.Errorf("%s.NumFields() = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestForeignKeySchemasShareLayout(t *testing.T) {
	if !ImportedKeys.Equal(ExportedKeys) {
		t.Error("ImportedKeys and ExportedKeys should share the pk_/fk_ column layout")
	}
	if !ImportedKeys.Equal(CrossReference) {
		t.Error("ImportedKeys and CrossReference should share the pk_/fk_ column layout")
	}
}

func TestAllSqlInfoCodesAreUnique(t *testing.T) {
	seen := make(map[int32]bool)
	for _, code := range AllSqlInfoCodes {
		if seen[code] {
			t.Errorf("duplicate SqlInfo code %d", code)
		}
		seen[code] = true
	}
}
