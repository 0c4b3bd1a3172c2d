package proteus

import "reflect"

// State is embedded by every record. It carries the unknown-field bucket and
// the owning arena. The zero value is a heap-owned record with no unknown
// fields.
//
// Embed it untagged for the wire and excluded from text renderings:
//
//	proteus.State `json:"-" yaml:"-" msgpack:"-" bson:"-" xml:"-" cbor:"-"`
type State struct {
	unknown []byte
	arena   *Arena
	gen     uint64
}

func (s *State) protoState() *State { return s }

// Record is implemented by pointers to structs that embed State.
type Record interface {
	protoState() *State
}

// Unknown returns the raw bytes of fields that were not recognized while
// decoding r. The slice must not be modified.
func Unknown(r Record) []byte {
	return r.protoState().unknown
}

// SetUnknown replaces the unknown-field bucket of r. The bytes must be a
// valid sequence of tag/value pairs; they are re-emitted verbatim after the
// known fields on every encode.
func SetUnknown(r Record, raw []byte) {
	r.protoState().unknown = append([]byte(nil), raw...)
}

// DiscardUnknown drops unknown fields from r and all nested records.
func DiscardUnknown(r Record) {
	rv := reflect.ValueOf(r)
	if rv.IsNil() {
		return
	}
	s := mustSchema(rv.Type().Elem())
	discardUnknown(rv.Elem(), s)
}

func discardUnknown(rv reflect.Value, s *Schema) {
	stateOf(rv).unknown = nil
	for _, f := range s.Fields {
		if f.Kind != KindMessage {
			continue
		}
		fv := rv.FieldByIndex(f.index)
		if f.Cardinality == Repeated {
			for i := 0; i < fv.Len(); i++ {
				if e := fv.Index(i); !e.IsNil() {
					discardUnknown(e.Elem(), f.elem)
				}
			}
			continue
		}
		if !fv.IsNil() {
			discardUnknown(fv.Elem(), f.elem)
		}
	}
}

var stateType = reflect.TypeOf(State{})

// stateOf returns the embedded State of an addressable record struct value.
func stateOf(rv reflect.Value) *State {
	return rv.Addr().Interface().(Record).protoState()
}
