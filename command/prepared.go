package command

// PreparedStatementQuery carries a prepared-statement handle into a
// GetFlightInfo/GetSchema/DoPut-bind call (§4.4 Bind/Execute transitions).
type PreparedStatementQuery struct {
	PreparedStatementHandle []byte
}

func (PreparedStatementQuery) TypeURL() string {
	return typeURLPrefix + "CommandPreparedStatementQuery"
}

func (c PreparedStatementQuery) Marshal() []byte { return appendBytes(nil, 1, c.PreparedStatementHandle) }

func unmarshalPreparedStatementQuery(payload []byte) (Variant, error) {
	pf, err := parseFields(payload)
	if err != nil {
		return nil, err
	}
	return PreparedStatementQuery{PreparedStatementHandle: pf.bytes(1)}, nil
}

func init() {
	registerDecoder(PreparedStatementQuery{}.TypeURL(), unmarshalPreparedStatementQuery)
}

// PreparedStatementUpdate carries a prepared-statement handle into a
// DoPut-executeUpdate call (§4.4).
type PreparedStatementUpdate struct {
	PreparedStatementHandle []byte
}

func (PreparedStatementUpdate) TypeURL() string {
	return typeURLPrefix + "CommandPreparedStatementUpdate"
}

func (c PreparedStatementUpdate) Marshal() []byte { return appendBytes(nil, 1, c.PreparedStatementHandle) }

func unmarshalPreparedStatementUpdate(payload []byte) (Variant, error) {
	pf, err := parseFields(payload)
	if err != nil {
		return nil, err
	}
	return PreparedStatementUpdate{PreparedStatementHandle: pf.bytes(1)}, nil
}

func init() {
	registerDecoder(PreparedStatementUpdate{}.TypeURL(), unmarshalPreparedStatementUpdate)
}

// TicketStatementQuery is the server-issued replacement ticket used to
// stream an ad-hoc query's results from DoGet (§6).
type TicketStatementQuery struct {
	StatementHandle []byte
}

func (TicketStatementQuery) TypeURL() string { return typeURLPrefix + "TicketStatementQuery" }

func (c TicketStatementQuery) Marshal() []byte { return appendBytes(nil, 1, c.StatementHandle) }

func unmarshalTicketStatementQuery(payload []byte) (Variant, error) {
	pf, err := parseFields(payload)
	if err != nil {
		return nil, err
	}
	return TicketStatementQuery{StatementHandle: pf.bytes(1)}, nil
}

func init() {
	registerDecoder(TicketStatementQuery{}.TypeURL(), unmarshalTicketStatementQuery)
}

// ActionCreatePreparedStatementRequest is the InvokeAction body that
// creates a prepared statement (§4.4 Create transition).
type ActionCreatePreparedStatementRequest struct {
	Query string
}

func (ActionCreatePreparedStatementRequest) TypeURL() string {
	return typeURLPrefix + "ActionCreatePreparedStatementRequest"
}

func (c ActionCreatePreparedStatementRequest) Marshal() []byte { return appendString(nil, 1, c.Query) }

func unmarshalActionCreatePreparedStatementRequest(payload []byte) (Variant, error) {
	pf, err := parseFields(payload)
	if err != nil {
		return nil, err
	}
	q, _ := pf.string(1)
	return ActionCreatePreparedStatementRequest{Query: q}, nil
}

func init() {
	registerDecoder(ActionCreatePreparedStatementRequest{}.TypeURL(), unmarshalActionCreatePreparedStatementRequest)
}

// ActionCreatePreparedStatementResult is the Result body returned by
// CreatePreparedStatement: the new handle plus the dataset and parameter
// schemas (serialized Arrow IPC schema messages; empty when a statement has
// no bind parameters or yields no dataset schema up front).
type ActionCreatePreparedStatementResult struct {
	PreparedStatementHandle []byte
	DatasetSchema           []byte
	ParameterSchema         []byte
}

func (ActionCreatePreparedStatementResult) TypeURL() string {
	return typeURLPrefix + "ActionCreatePreparedStatementResult"
}

func (c ActionCreatePreparedStatementResult) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, c.PreparedStatementHandle)
	b = appendBytes(b, 2, c.DatasetSchema)
	b = appendBytes(b, 3, c.ParameterSchema)
	return b
}

func unmarshalActionCreatePreparedStatementResult(payload []byte) (Variant, error) {
	pf, err := parseFields(payload)
	if err != nil {
		return nil, err
	}
	return ActionCreatePreparedStatementResult{
		PreparedStatementHandle: pf.bytes(1),
		DatasetSchema:           pf.bytes(2),
		ParameterSchema:         pf.bytes(3),
	}, nil
}

func init() {
	registerDecoder(ActionCreatePreparedStatementResult{}.TypeURL(), unmarshalActionCreatePreparedStatementResult)
}

// ActionClosePreparedStatementRequest is the InvokeAction body that closes
// a prepared statement (§4.4 Close transition).
type ActionClosePreparedStatementRequest struct {
	PreparedStatementHandle []byte
}

func (ActionClosePreparedStatementRequest) TypeURL() string {
	return typeURLPrefix + "ActionClosePreparedStatementRequest"
}

func (c ActionClosePreparedStatementRequest) Marshal() []byte {
	return appendBytes(nil, 1, c.PreparedStatementHandle)
}

func unmarshalActionClosePreparedStatementRequest(payload []byte) (Variant, error) {
	pf, err := parseFields(payload)
	if err != nil {
		return nil, err
	}
	return ActionClosePreparedStatementRequest{PreparedStatementHandle: pf.bytes(1)}, nil
}

func init() {
	registerDecoder(ActionClosePreparedStatementRequest{}.TypeURL(), unmarshalActionClosePreparedStatementRequest)
}

// DoPutUpdateResult is the app-metadata payload of the single PutResult
// that answers a CommandStatementUpdate or CommandPreparedStatementUpdate
// DoPut (§4.4 ExecuteUpdate, §9 Open Question on negative counts: this
// engine passes backend record counts through unchanged rather than
// normalizing negative "unknown" counts to -1).
type DoPutUpdateResult struct {
	RecordCount int64
}

func (DoPutUpdateResult) TypeURL() string { return typeURLPrefix + "DoPutUpdateResult" }

func (c DoPutUpdateResult) Marshal() []byte { return appendInt64(nil, 1, c.RecordCount) }

func unmarshalDoPutUpdateResult(payload []byte) (Variant, error) {
	pf, err := parseFields(payload)
	if err != nil {
		return nil, err
	}
	return DoPutUpdateResult{RecordCount: pf.int64(1)}, nil
}

func init() { registerDecoder(DoPutUpdateResult{}.TypeURL(), unmarshalDoPutUpdateResult) }
