package proteus

import "reflect"

// Override interfaces allow records to bypass reflection-based encoding.
// When a record implements one of these interfaces, the codec calls the
// interface method instead of walking the schema. The hooks apply both at
// the top level and when the record is nested inside another record.
//
// These interfaces are designed for codegen: a generator can emit them
// from the same wire tags the schema is built from.

// WireSizer bypasses reflection for size computation.
type WireSizer interface {
	// WireSize returns the exact encoded length of the receiver, excluding
	// any length prefix added by an enclosing record.
	WireSize() int
}

// WireMarshaler bypasses reflection for encoding.
type WireMarshaler interface {
	// AppendWire appends the encoded fields of the receiver to b,
	// including its unknown fields.
	AppendWire(b []byte) ([]byte, error)
}

// WireUnmarshaler bypasses reflection for decoding.
type WireUnmarshaler interface {
	// UnmarshalWire merges the encoded fields in b into the receiver.
	// Unrecognized fields should be kept with AddUnknown.
	UnmarshalWire(b []byte) error
}

// hookSet records which override interfaces a record type implements.
type hookSet struct {
	size      bool
	marshal   bool
	unmarshal bool
}

var (
	wireSizerType       = reflect.TypeOf((*WireSizer)(nil)).Elem()
	wireMarshalerType   = reflect.TypeOf((*WireMarshaler)(nil)).Elem()
	wireUnmarshalerType = reflect.TypeOf((*WireUnmarshaler)(nil)).Elem()
)

func hooksFor(rt reflect.Type) hookSet {
	pt := reflect.PointerTo(rt)
	return hookSet{
		size:      pt.Implements(wireSizerType),
		marshal:   pt.Implements(wireMarshalerType),
		unmarshal: pt.Implements(wireUnmarshalerType),
	}
}

// AddUnknown appends raw tag/value bytes to the unknown-field bucket of r.
func AddUnknown(r Record, raw []byte) {
	st := r.protoState()
	st.unknown = append(st.unknown, raw...)
}
