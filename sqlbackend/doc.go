// Package sqlbackend is the collaborator boundary the dispatcher in
// package flightsql calls into (§4.3, §4.4). It adds nothing of its own
// on top of flightsql.Backend and flightsql's optional capability
// interfaces — those already name the full contract a SQL engine must
// satisfy — and exists only as the conventional home for concrete
// implementations. The reference implementation lives in sqlbackend/sqlite.
package sqlbackend
