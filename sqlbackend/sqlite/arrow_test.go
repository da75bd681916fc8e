package sqlite

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

func buildInt64ParamRecord(t *testing.T, v int64) arrow.Record {
	t.Helper()
	schema := arrow.NewSchema([]arrow.Field{{Name: "parameter_1", Type: arrow.PrimitiveTypes.Int64}}, nil)
	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()
	builder.Field(0).(*array.Int64Builder).Append(v)
	return builder.NewRecord()
}

func TestSqliteTypeToArrowMapping(t *testing.T) {
	cases := []struct {
		declared string
		want     arrow.DataType
	}{
		{"INTEGER", arrow.PrimitiveTypes.Int64},
		{"VARCHAR(100)", arrow.BinaryTypes.String},
		{"REAL", arrow.PrimitiveTypes.Float64},
		{"BLOB", arrow.BinaryTypes.Binary},
		{"BOOLEAN", arrow.FixedWidthTypes.Boolean},
		{"", arrow.BinaryTypes.String},
		{"NONSENSE", arrow.BinaryTypes.String},
	}
	for _, c := range cases {
		got := sqliteTypeToArrow(c.declared)
		if got.ID() != c.want.ID() {
			t.Errorf("sqliteTypeToArrow(%q) = %v, want %v", c.declared, got, c.want)
		}
	}
}

func TestAppendValueCoercesMismatchedNumericTypes(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{{Name: "n", Type: arrow.PrimitiveTypes.Int64}}, nil)
	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()

	appendValue(builder.Field(0), float64(5))
	appendValue(builder.Field(0), nil)

	rec := builder.NewRecord()
	defer rec.Release()

	col := rec.Column(0).(*array.Int64)
	if col.Value(0) != 5 {
		t.Errorf("got %d, want 5", col.Value(0))
	}
	if !col.IsNull(1) {
		t.Error("expected second row to be null")
	}
}
