package command

// StatementQuery is an ad-hoc SELECT statement descriptor (§3, §6).
type StatementQuery struct {
	Query                 string
	ClientExecutionHandle []byte
}

func (StatementQuery) TypeURL() string { return typeURLPrefix + "CommandStatementQuery" }

func (c StatementQuery) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, c.Query)
	b = appendBytes(b, 2, c.ClientExecutionHandle)
	return b
}

func unmarshalStatementQuery(payload []byte) (Variant, error) {
	pf, err := parseFields(payload)
	if err != nil {
		return nil, err
	}
	q, _ := pf.string(1)
	return StatementQuery{Query: q, ClientExecutionHandle: pf.bytes(2)}, nil
}

func init() { registerDecoder(StatementQuery{}.TypeURL(), unmarshalStatementQuery) }

// StatementUpdate is an ad-hoc INSERT/UPDATE/DELETE statement (§3, §6).
type StatementUpdate struct {
	Query string
}

func (StatementUpdate) TypeURL() string { return typeURLPrefix + "CommandStatementUpdate" }

func (c StatementUpdate) Marshal() []byte {
	return appendString(nil, 1, c.Query)
}

func unmarshalStatementUpdate(payload []byte) (Variant, error) {
	pf, err := parseFields(payload)
	if err != nil {
		return nil, err
	}
	q, _ := pf.string(1)
	return StatementUpdate{Query: q}, nil
}

func init() { registerDecoder(StatementUpdate{}.TypeURL(), unmarshalStatementUpdate) }
