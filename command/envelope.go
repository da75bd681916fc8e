// Package command implements the Flight SQL command envelope: the tagged
// binary union carried in every descriptor, ticket, and action body (§4.1,
// §6 of the protocol spec this engine implements).
//
// Each envelope is shaped like a google.protobuf.Any: a type URL (field 1)
// naming the variant, and a length-delimited payload (field 2) holding that
// variant's own fields, encoded with the standard protobuf wire format via
// protowire. The codec never interprets a payload beyond its own tag; each
// variant owns its own Marshal/Unmarshal.
package command

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

const typeURLPrefix = "type.googleapis.com/arrow.flight.protocol.sql."

// Variant is implemented by every command, ticket, and action payload type
// in this package.
type Variant interface {
	// TypeURL reports the envelope tag this variant decodes from/encodes to.
	TypeURL() string
	// Marshal returns the canonical wire encoding of the payload alone
	// (without the envelope wrapper).
	Marshal() []byte
}

// InvalidEnvelopeError reports that bytes were not a well-formed envelope,
// or a payload did not match the shape its tag promised.
type InvalidEnvelopeError struct {
	Reason string
}

func (e *InvalidEnvelopeError) Error() string {
	return fmt.Sprintf("invalid command envelope: %s", e.Reason)
}

var decoders = make(map[string]func([]byte) (Variant, error))

// registerDecoder wires a variant's type URL to its Unmarshal function.
// Called from each variant file's init().
func registerDecoder(typeURL string, fn func([]byte) (Variant, error)) {
	if _, exists := decoders[typeURL]; exists {
		panic("command: duplicate decoder registered for " + typeURL)
	}
	decoders[typeURL] = fn
}

// Pack encodes v as a tagged envelope. Two calls on equal variants produce
// byte-identical output (the round-trip law of §8 depends on this).
func Pack(v Variant) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, v.TypeURL())
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, v.Marshal())
	return b
}

// Unpack decodes an envelope's tag and raw payload without interpreting the
// payload. It returns an *InvalidEnvelopeError if data is not a well-formed
// tagged container or carries no type URL.
func Unpack(data []byte) (tag string, payload []byte, err error) {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return "", nil, &InvalidEnvelopeError{Reason: "malformed field tag"}
		}
		data = data[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(data)
			if n < 0 {
				return "", nil, &InvalidEnvelopeError{Reason: "malformed type_url field"}
			}
			tag = s
			data = data[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return "", nil, &InvalidEnvelopeError{Reason: "malformed value field"}
			}
			payload = append([]byte(nil), v...)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return "", nil, &InvalidEnvelopeError{Reason: "malformed field"}
			}
			data = data[n:]
		}
	}
	if tag == "" {
		return "", nil, &InvalidEnvelopeError{Reason: "envelope carries no type_url"}
	}
	return tag, payload, nil
}

// Is reports whether data's envelope tag matches variant's type URL,
// without decoding the payload.
func Is(data []byte, variant Variant) bool {
	tag, _, err := Unpack(data)
	if err != nil {
		return false
	}
	return tag == variant.TypeURL()
}

// UnpackVariant decodes data into its concrete Variant. An unknown tag is a
// hard error, per the CommandEnvelope invariant that a single envelope
// decodes to exactly one variant.
func UnpackVariant(data []byte) (Variant, error) {
	tag, payload, err := Unpack(data)
	if err != nil {
		return nil, err
	}
	dec, ok := decoders[tag]
	if !ok {
		return nil, &InvalidEnvelopeError{Reason: "unknown command tag: " + tag}
	}
	return dec(payload)
}
