package proteus

import (
	"reflect"

	"google.golang.org/protobuf/encoding/protowire"
)

// Kind represents the wire encoding of a field value.
// Use these constants in struct tags: `wire:"3,sint32"`
type Kind string

const (
	KindBool     Kind = "bool"
	KindInt32    Kind = "int32"
	KindInt64    Kind = "int64"
	KindUint32   Kind = "uint32"
	KindUint64   Kind = "uint64"
	KindSint32   Kind = "sint32" // zigzag varint
	KindSint64   Kind = "sint64" // zigzag varint
	KindFixed32  Kind = "fixed32"
	KindFixed64  Kind = "fixed64"
	KindSfixed32 Kind = "sfixed32"
	KindSfixed64 Kind = "sfixed64"
	KindFloat    Kind = "float"
	KindDouble   Kind = "double"
	KindString   Kind = "string"
	KindBytes    Kind = "bytes"
	KindMessage  Kind = "message"
)

// Cardinality describes how many values a field holds and whether its
// presence is tracked.
type Cardinality uint8

const (
	// Singular fields have no presence; the zero value is omitted on the wire.
	Singular Cardinality = iota
	// Optional fields track presence through a nil pointer.
	Optional
	// Repeated fields hold a slice of values.
	Repeated
)

func (c Cardinality) String() string {
	switch c {
	case Singular:
		return "singular"
	case Optional:
		return "optional"
	case Repeated:
		return "repeated"
	}
	return "invalid"
}

// validKinds maps each kind to its wire type.
var validKinds = map[Kind]protowire.Type{
	KindBool:     protowire.VarintType,
	KindInt32:    protowire.VarintType,
	KindInt64:    protowire.VarintType,
	KindUint32:   protowire.VarintType,
	KindUint64:   protowire.VarintType,
	KindSint32:   protowire.VarintType,
	KindSint64:   protowire.VarintType,
	KindFixed32:  protowire.Fixed32Type,
	KindFixed64:  protowire.Fixed64Type,
	KindSfixed32: protowire.Fixed32Type,
	KindSfixed64: protowire.Fixed64Type,
	KindFloat:    protowire.Fixed32Type,
	KindDouble:   protowire.Fixed64Type,
	KindString:   protowire.BytesType,
	KindBytes:    protowire.BytesType,
	KindMessage:  protowire.BytesType,
}

// goKinds lists the kinds each Go scalar kind may be encoded as. The first
// entry is the inferred default.
var goKinds = map[reflect.Kind][]Kind{
	reflect.Bool:    {KindBool},
	reflect.Int32:   {KindInt32, KindSint32, KindSfixed32},
	reflect.Int64:   {KindInt64, KindSint64, KindSfixed64},
	reflect.Uint32:  {KindUint32, KindFixed32},
	reflect.Uint64:  {KindUint64, KindFixed64},
	reflect.Float32: {KindFloat},
	reflect.Float64: {KindDouble},
	reflect.String:  {KindString},
}

// IsValidKind returns true if the kind is a known wire kind.
func IsValidKind(k Kind) bool {
	_, ok := validKinds[k]
	return ok
}

// WireType returns the wire type used to encode a single value of kind k.
func (k Kind) WireType() protowire.Type {
	return validKinds[k]
}

// packable reports whether repeated values of kind k are written packed.
func (k Kind) packable() bool {
	switch k {
	case KindString, KindBytes, KindMessage:
		return false
	}
	return true
}

// kindsFor returns the kinds a Go scalar type may be encoded as.
func kindsFor(t reflect.Type) []Kind {
	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
		return []Kind{KindBytes}
	}
	return goKinds[t.Kind()]
}
