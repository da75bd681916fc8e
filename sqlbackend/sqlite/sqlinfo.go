package sqlite

import (
	"context"

	"github.com/arrowlane/flightsql/resultschema"
)

const (
	serverName         = "flightsql-sqlite"
	serverVersion      = "0.1.0"
	serverArrowVersion = "18"

	maxBatchSize = 1024

	// JDBC-style identifier-case codes, reused here since resultschema
	// does not define its own enum for this (§C.3 Open Question).
	identifierCaseMixedStoredAsIs int32 = 2
)

// sqlInfoValues is this backend's full SqlInfo answer set. None of it
// varies per request; the map is rebuilt on each call.
func (b *Backend) sqlInfoValues() map[int32]resultschema.SqlInfoValue {
	return map[int32]resultschema.SqlInfoValue{
		resultschema.SqlInfoServerName:         resultschema.StringValue(serverName),
		resultschema.SqlInfoServerVersion:      resultschema.StringValue(serverVersion),
		resultschema.SqlInfoServerArrowVersion: resultschema.StringValue(serverArrowVersion),
		resultschema.SqlInfoServerReadOnly: resultschema.Int32Value(0),

		resultschema.SqlInfoSupportsTransactions: resultschema.Int32Value(0),
		resultschema.SqlInfoSupportsBatchUpdates: resultschema.Int32Value(0),
		resultschema.SqlInfoMaxBatchSize:         resultschema.Int64Value(maxBatchSize),

		resultschema.SqlInfoIdentifierCase:       resultschema.Int64Value(int64(identifierCaseMixedStoredAsIs)),
		resultschema.SqlInfoIdentifierQuoteChar:  resultschema.StringValue(`"`),
		resultschema.SqlInfoQuotedIdentifierCase: resultschema.Int64Value(int64(identifierCaseMixedStoredAsIs)),

		resultschema.SqlInfoDDLCatalog: resultschema.Int32Value(0),
		resultschema.SqlInfoDDLSchema:  resultschema.Int32Value(0),
		resultschema.SqlInfoDDLTable:   resultschema.Int32Value(1),
	}
}

// GetSqlInfo answers exactly the requested codes, or every code this
// backend knows about when codes is empty (§4.3).
func (b *Backend) GetSqlInfo(ctx context.Context, codes []int32) (map[int32]resultschema.SqlInfoValue, error) {
	all := b.sqlInfoValues()
	if len(codes) == 0 {
		return all, nil
	}
	out := make(map[int32]resultschema.SqlInfoValue, len(codes))
	for _, code := range codes {
		if v, ok := all[code]; ok {
			out[code] = v
		}
	}
	return out, nil
}
