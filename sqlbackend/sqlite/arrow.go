package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// sqliteTypeToArrow maps a SQLite column-declared type name to an Arrow
// DataType. SQLite's type affinity rules mean this is a best-effort
// mapping, not an exact one; unrecognized declared types fall back to
// Utf8, matching the "untyped" nature of SQLite storage classes.
func sqliteTypeToArrow(declared string) arrow.DataType {
	upper := strings.ToUpper(strings.TrimSpace(declared))
	switch {
	case upper == "":
		return arrow.BinaryTypes.String
	case strings.Contains(upper, "INT"):
		return arrow.PrimitiveTypes.Int64
	case strings.Contains(upper, "REAL"), strings.Contains(upper, "FLOA"), strings.Contains(upper, "DOUB"):
		return arrow.PrimitiveTypes.Float64
	case strings.Contains(upper, "BOOL"):
		return arrow.FixedWidthTypes.Boolean
	case strings.Contains(upper, "BLOB"):
		return arrow.BinaryTypes.Binary
	case strings.Contains(upper, "DATETIME"), strings.Contains(upper, "TIMESTAMP"):
		return &arrow.TimestampType{Unit: arrow.Microsecond}
	case strings.Contains(upper, "CHAR"), strings.Contains(upper, "TEXT"), strings.Contains(upper, "CLOB"):
		return arrow.BinaryTypes.String
	case strings.Contains(upper, "NUMERIC"), strings.Contains(upper, "DECIMAL"):
		return arrow.PrimitiveTypes.Float64
	default:
		return arrow.BinaryTypes.String
	}
}

// querySchema runs query with no rows returned (via a WHERE 0 wrapper) to
// discover its result schema without executing its side effects, the
// same trick the teacher's DuckDB backend uses for schema discovery.
func querySchema(ctx context.Context, db *sql.DB, query string) (*arrow.Schema, error) {
	rows, err := db.QueryContext(ctx, "SELECT * FROM ("+query+") WHERE 0")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return schemaFromColumnTypes(rows)
}

func schemaFromColumnTypes(rows *sql.Rows) (*arrow.Schema, error) {
	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	fields := make([]arrow.Field, len(cols))
	for i, ct := range cols {
		fields[i] = arrow.Field{Name: ct.Name(), Type: sqliteTypeToArrow(ct.DatabaseTypeName()), Nullable: true}
	}
	return arrow.NewSchema(fields, nil), nil
}

// rowsToRecord converts up to batchSize rows of rows into one Arrow
// record batch. It returns nil, nil once rows is exhausted.
func rowsToRecord(alloc memory.Allocator, rows *sql.Rows, schema *arrow.Schema, batchSize int) (arrow.Record, error) {
	builder := array.NewRecordBuilder(alloc, schema)
	defer builder.Release()

	numFields := schema.NumFields()
	count := 0
	for count < batchSize && rows.Next() {
		values := make([]any, numFields)
		ptrs := make([]any, numFields)
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			appendValue(builder.Field(i), v)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	return builder.NewRecord(), nil
}

// appendValue appends a database/sql scanned value to builder, coercing
// it to whatever type the builder expects.
func appendValue(builder array.Builder, val any) {
	if val == nil {
		builder.AppendNull()
		return
	}
	switch b := builder.(type) {
	case *array.Int64Builder:
		switch v := val.(type) {
		case int64:
			b.Append(v)
		case int:
			b.Append(int64(v))
		case float64:
			b.Append(int64(v))
		default:
			b.AppendNull()
		}
	case *array.Float64Builder:
		switch v := val.(type) {
		case float64:
			b.Append(v)
		case int64:
			b.Append(float64(v))
		default:
			b.AppendNull()
		}
	case *array.BooleanBuilder:
		switch v := val.(type) {
		case bool:
			b.Append(v)
		case int64:
			b.Append(v != 0)
		default:
			b.AppendNull()
		}
	case *array.TimestampBuilder:
		switch v := val.(type) {
		case time.Time:
			b.AppendTime(v)
		case string:
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				b.AppendTime(t)
			} else {
				b.AppendNull()
			}
		default:
			b.AppendNull()
		}
	case *array.BinaryBuilder:
		switch v := val.(type) {
		case []byte:
			b.Append(v)
		case string:
			b.Append([]byte(v))
		default:
			b.AppendNull()
		}
	case *array.StringBuilder:
		switch v := val.(type) {
		case string:
			b.Append(v)
		case []byte:
			b.Append(string(v))
		default:
			b.Append(fmt.Sprintf("%v", v))
		}
	default:
		builder.AppendNull()
	}
}

// scalarAt extracts a Go value suitable for database/sql argument binding
// from col at row, adapted from the teacher's extractArrowValue for the
// narrower set of types a bind parameter batch carries.
func scalarAt(col arrow.Array, row int) any {
	if col.IsNull(row) {
		return nil
	}
	switch arr := col.(type) {
	case *array.Boolean:
		return arr.Value(row)
	case *array.Int8:
		return int64(arr.Value(row))
	case *array.Int16:
		return int64(arr.Value(row))
	case *array.Int32:
		return int64(arr.Value(row))
	case *array.Int64:
		return arr.Value(row)
	case *array.Float32:
		return float64(arr.Value(row))
	case *array.Float64:
		return arr.Value(row)
	case *array.String:
		return arr.Value(row)
	case *array.Binary:
		return arr.Value(row)
	case *array.Timestamp:
		ts := arr.DataType().(*arrow.TimestampType)
		return timestampToTime(arr.Value(row), ts.Unit)
	default:
		return arr.ValueStr(row)
	}
}

func timestampToTime(val arrow.Timestamp, unit arrow.TimeUnit) time.Time {
	v := int64(val)
	switch unit {
	case arrow.Second:
		return time.Unix(v, 0).UTC()
	case arrow.Millisecond:
		return time.Unix(v/1000, (v%1000)*1e6).UTC()
	case arrow.Microsecond:
		return time.Unix(v/1e6, (v%1e6)*1000).UTC()
	case arrow.Nanosecond:
		return time.Unix(v/1e9, v%1e9).UTC()
	default:
		return time.Unix(v/1e6, (v%1e6)*1000).UTC()
	}
}
