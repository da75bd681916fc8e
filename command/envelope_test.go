package command

import (
	"reflect"
	"testing"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	catalog := "main"
	pattern := "public%"

	cases := []Variant{
		StatementQuery{Query: "SELECT 1", ClientExecutionHandle: []byte("exec-1")},
		StatementQuery{Query: "SELECT 1"},
		StatementUpdate{Query: "DELETE FROM t"},
		PreparedStatementQuery{PreparedStatementHandle: []byte("handle-1")},
		PreparedStatementUpdate{PreparedStatementHandle: []byte("handle-2")},
		TicketStatementQuery{StatementHandle: []byte("stmt-1")},
		ActionCreatePreparedStatementRequest{Query: "SELECT * FROM t WHERE a = ?"},
		ActionCreatePreparedStatementResult{
			PreparedStatementHandle: []byte("handle-3"),
			DatasetSchema:           []byte{0x01, 0x02},
			ParameterSchema:         []byte{0x03},
		},
		ActionClosePreparedStatementRequest{PreparedStatementHandle: []byte("handle-4")},
		DoPutUpdateResult{RecordCount: 42},
		DoPutUpdateResult{RecordCount: -1},
		GetCatalogs{},
		GetSchemas{Catalog: &catalog, SchemaFilterPattern: &pattern},
		GetSchemas{},
		GetTables{
			Catalog:                &catalog,
			TableNameFilterPattern: &pattern,
			TableTypes:             []string{"TABLE", "VIEW"},
			IncludeSchema:          true,
		},
		GetTableTypes{},
		GetSqlInfo{Info: []int32{0, 1, 2}},
		GetSqlInfo{},
		GetPrimaryKeys{Catalog: &catalog, Table: "orders"},
		GetImportedKeys{Table: "orders"},
		GetExportedKeys{Table: "customers"},
		GetCrossReference{PKTable: "customers", FKTable: "orders"},
	}

	for _, want := range cases {
		data := Pack(want)
		got, err := UnpackVariant(data)
		if err != nil {
			t.Fatalf("UnpackVariant(%#v): %v", want, err)
		}
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("round trip mismatch: want %#v, got %#v", want, got)
		}

		// Packing the same variant twice must produce identical bytes.
		if again := Pack(want); !reflect.DeepEqual(data, again) {
			t.Fatalf("Pack(%#v) not deterministic", want)
		}

		if !Is(data, want) {
			t.Fatalf("Is(Pack(%#v), ...) = false", want)
		}
	}
}

func TestUnpackVariantUnknownTag(t *testing.T) {
	env := Pack(unknownVariant{tag: "type.googleapis.com/arrow.flight.protocol.sql.NotARealCommand"})
	if _, err := UnpackVariant(env); err == nil {
		t.Fatal("expected error for unknown command tag")
	}
}

func TestUnpackMissingTypeURL(t *testing.T) {
	if _, _, err := Unpack(nil); err == nil {
		t.Fatal("expected error for envelope with no type_url")
	}
}

type unknownVariant struct{ tag string }

func (u unknownVariant) TypeURL() string { return u.tag }
func (u unknownVariant) Marshal() []byte { return nil }
