package proteus

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// RawField is one tag/value pair found by Scan.
type RawField struct {
	Number protowire.Number
	Type   protowire.Type
	Offset int    // offset of the tag
	Value  []byte // raw payload; length-delimited values exclude the length prefix
}

// Scan walks the top-level tag/value pairs of b without a schema. It is the
// basis for inspecting files of unknown or newer record versions.
func Scan(b []byte) ([]RawField, error) {
	var fields []RawField
	total := len(b)
	for len(b) > 0 {
		pos := total - len(b)
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fields, newDecodeError("", pos, protowire.ParseError(n))
		}
		m := protowire.ConsumeFieldValue(num, typ, b[n:])
		if m < 0 {
			return fields, newDecodeError("", pos, protowire.ParseError(m))
		}

		value := b[n : n+m]
		if typ == protowire.BytesType {
			value, _ = protowire.ConsumeBytes(value)
		}
		fields = append(fields, RawField{Number: num, Type: typ, Offset: pos, Value: value})
		b = b[n+m:]
	}
	return fields, nil
}
