package command

import "google.golang.org/protobuf/encoding/protowire"

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendOptionalString(b []byte, num protowire.Number, s *string) []byte {
	if s == nil {
		return b
	}
	return appendString(b, num, *s)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(uint32(v)))
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

func appendRepeatedString(b []byte, num protowire.Number, vs []string) []byte {
	for _, s := range vs {
		b = appendString(b, num, s)
	}
	return b
}

func appendRepeatedInt32(b []byte, num protowire.Number, vs []int32) []byte {
	for _, v := range vs {
		b = appendInt32(b, num, v)
	}
	return b
}

// parsedFields is the result of one flat pass over an envelope payload's
// wire-format fields, grouped by field number in encounter order. Variant
// Unmarshal functions pull out the fields they expect by number rather than
// each hand-rolling the same tag-consuming loop.
type parsedFields struct {
	bytesFields  map[protowire.Number][][]byte
	varintFields map[protowire.Number][]uint64
}

func parseFields(data []byte) (*parsedFields, error) {
	pf := &parsedFields{
		bytesFields:  make(map[protowire.Number][][]byte),
		varintFields: make(map[protowire.Number][]uint64),
	}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, &InvalidEnvelopeError{Reason: "malformed field tag"}
		}
		data = data[n:]
		switch typ {
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, &InvalidEnvelopeError{Reason: "malformed bytes field"}
			}
			pf.bytesFields[num] = append(pf.bytesFields[num], append([]byte(nil), v...))
			data = data[n:]
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, &InvalidEnvelopeError{Reason: "malformed varint field"}
			}
			pf.varintFields[num] = append(pf.varintFields[num], v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, &InvalidEnvelopeError{Reason: "malformed field"}
			}
			data = data[n:]
		}
	}
	return pf, nil
}

func (pf *parsedFields) string(num protowire.Number) (string, bool) {
	vs := pf.bytesFields[num]
	if len(vs) == 0 {
		return "", false
	}
	return string(vs[len(vs)-1]), true
}

func (pf *parsedFields) optionalString(num protowire.Number) *string {
	s, ok := pf.string(num)
	if !ok {
		return nil
	}
	return &s
}

func (pf *parsedFields) bytes(num protowire.Number) []byte {
	vs := pf.bytesFields[num]
	if len(vs) == 0 {
		return nil
	}
	return vs[len(vs)-1]
}

func (pf *parsedFields) repeatedStrings(num protowire.Number) []string {
	vs := pf.bytesFields[num]
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}

func (pf *parsedFields) int32(num protowire.Number) int32 {
	vs := pf.varintFields[num]
	if len(vs) == 0 {
		return 0
	}
	return int32(vs[len(vs)-1])
}

func (pf *parsedFields) int64(num protowire.Number) int64 {
	vs := pf.varintFields[num]
	if len(vs) == 0 {
		return 0
	}
	return int64(vs[len(vs)-1])
}

func (pf *parsedFields) bool(num protowire.Number) bool {
	return pf.int32(num) != 0
}

func (pf *parsedFields) repeatedInt32(num protowire.Number) []int32 {
	vs := pf.varintFields[num]
	if len(vs) == 0 {
		return nil
	}
	out := make([]int32, len(vs))
	for i, v := range vs {
		out[i] = int32(v)
	}
	return out
}
