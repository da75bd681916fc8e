package resultschema

import "github.com/apache/arrow-go/v18/arrow"

// SqlInfo codes answered by CommandGetSqlInfo (§4.3, SPEC_FULL §C.3). Values
// follow the same bucketing style as the reference producer: server
// identity in the 0-9 range, SQL-support flags in the 500s, identifier
// quoting/case rules in the 600s, DDL-per-object-type support in the 700s.
const (
	SqlInfoServerName         int32 = 0
	SqlInfoServerVersion      int32 = 1
	SqlInfoServerArrowVersion int32 = 2
	SqlInfoServerReadOnly     int32 = 3

	SqlInfoSupportsTransactions int32 = 500
	SqlInfoSupportsBatchUpdates int32 = 501
	SqlInfoMaxBatchSize         int32 = 502

	SqlInfoIdentifierCase       int32 = 600
	SqlInfoIdentifierQuoteChar  int32 = 601
	SqlInfoQuotedIdentifierCase int32 = 602

	SqlInfoDDLCatalog int32 = 700
	SqlInfoDDLSchema  int32 = 701
	SqlInfoDDLTable   int32 = 702
)

// AllSqlInfoCodes lists every code this engine can answer, in the order
// CommandGetSqlInfo returns them when its Info filter is empty.
var AllSqlInfoCodes = []int32{
	SqlInfoServerName,
	SqlInfoServerVersion,
	SqlInfoServerArrowVersion,
	SqlInfoServerReadOnly,
	SqlInfoSupportsTransactions,
	SqlInfoSupportsBatchUpdates,
	SqlInfoMaxBatchSize,
	SqlInfoIdentifierCase,
	SqlInfoIdentifierQuoteChar,
	SqlInfoQuotedIdentifierCase,
	SqlInfoDDLCatalog,
	SqlInfoDDLSchema,
	SqlInfoDDLTable,
}

// Dense-union child ordinals for the SqlInfo value column, per §4.2
// {0=string, 1=int32, 2=int64, 3=int32-bitmask}.
const (
	SqlInfoValueStringChild  int8 = 0
	SqlInfoValueInt32Child   int8 = 1
	SqlInfoValueInt64Child   int8 = 2
	SqlInfoValueBitmaskChild int8 = 3
)

// sqlInfoValueUnion is the dense_union<string_value, int32_value,
// bigint_value, int32_bitmask> type backing SqlInfo.value. A dense union
// keeps the result batch compact when most rows carry one kind of value.
var sqlInfoValueUnion = arrow.DenseUnionOf(
	[]arrow.Field{
		{Name: "string_value", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "int32_value", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		{Name: "bigint_value", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "int32_bitmask", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
	},
	[]arrow.UnionTypeCode{
		arrow.UnionTypeCode(SqlInfoValueStringChild),
		arrow.UnionTypeCode(SqlInfoValueInt32Child),
		arrow.UnionTypeCode(SqlInfoValueInt64Child),
		arrow.UnionTypeCode(SqlInfoValueBitmaskChild),
	},
)

// SqlInfo is the result schema of CommandGetSqlInfo.
var SqlInfo = arrow.NewSchema([]arrow.Field{
	int32Field("info_name", false),
	{Name: "value", Type: sqlInfoValueUnion, Nullable: false},
}, nil)

// SqlInfoValue is a tagged value for one SqlInfo row, built by the backend
// and encoded into the dense union by the dispatcher.
type SqlInfoValue struct {
	Child int8
	Str   string
	Int64 int64
	Int32 int32
}

// StringValue wraps s as a string_value SqlInfo entry.
func StringValue(s string) SqlInfoValue { return SqlInfoValue{Child: SqlInfoValueStringChild, Str: s} }

// Int32Value wraps n as an int32_value SqlInfo entry.
func Int32Value(n int32) SqlInfoValue { return SqlInfoValue{Child: SqlInfoValueInt32Child, Int32: n} }

// Int64Value wraps n as a bigint_value SqlInfo entry.
func Int64Value(n int64) SqlInfoValue { return SqlInfoValue{Child: SqlInfoValueInt64Child, Int64: n} }

// BitmaskValue wraps a bitmask as an int32_bitmask SqlInfo entry.
func BitmaskValue(bits int32) SqlInfoValue {
	return SqlInfoValue{Child: SqlInfoValueBitmaskChild, Int32: bits}
}
