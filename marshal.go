package proteus

import (
	"context"
	"fmt"
	"io"
	"math"
	"reflect"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// MarshalOptions configures the encoder.
type MarshalOptions struct {
	// AllowPartial skips the required-field check.
	AllowPartial bool
}

// Marshal returns the wire encoding of r.
func Marshal(r Record) ([]byte, error) {
	return MarshalOptions{}.Marshal(r)
}

// MarshalAppend appends the wire encoding of r to b.
func MarshalAppend(b []byte, r Record) ([]byte, error) {
	return MarshalOptions{}.MarshalAppend(b, r)
}

// Marshal returns the wire encoding of r.
func (o MarshalOptions) Marshal(r Record) ([]byte, error) {
	if isNilRecord(r) {
		return nil, nil
	}
	return o.MarshalAppend(make([]byte, 0, Size(r)), r)
}

// MarshalAppend appends the wire encoding of r to b. A nil record appends
// nothing.
func (o MarshalOptions) MarshalAppend(b []byte, r Record) ([]byte, error) {
	if isNilRecord(r) {
		return b, nil
	}
	rv := reflect.ValueOf(r).Elem()
	s, err := schemaOf(rv.Type())
	if err != nil {
		return b, err
	}
	if !o.AllowPartial {
		if err := checkRequired(rv, s); err != nil {
			return b, err
		}
	}
	return appendRecord(b, rv, s, s.TypeName)
}

// Encode writes the wire encoding of r to w. A failing writer is reported as
// a *SinkError.
func Encode(w io.Writer, r Record) error {
	start := time.Now()
	data, err := Marshal(r)
	if err == nil {
		if _, werr := w.Write(data); werr != nil {
			err = &SinkError{Op: "write", Cause: werr}
		}
	}
	emitMarshalComplete(context.Background(), recordName(r), len(data), time.Since(start), err)
	return err
}

// Size returns the number of bytes Marshal would produce for r.
func Size(r Record) int {
	if isNilRecord(r) {
		return 0
	}
	rv := reflect.ValueOf(r).Elem()
	return sizeRecord(rv, mustSchema(rv.Type()))
}

func sizeRecord(rv reflect.Value, s *Schema) int {
	if s.hooks.size {
		return rv.Addr().Interface().(WireSizer).WireSize()
	}
	n := 0
	for _, f := range s.Fields {
		n += sizeField(rv.FieldByIndex(f.index), f)
	}
	return n + len(stateOf(rv).unknown)
}

func sizeField(fv reflect.Value, f *Field) int {
	tagLen := protowire.SizeTag(f.Number)
	switch f.Cardinality {
	case Singular:
		if isZeroScalar(fv) {
			return 0
		}
		return tagLen + sizeScalar(fv, f.Kind)

	case Optional:
		if fv.IsNil() {
			return 0
		}
		if f.Kind == KindMessage {
			return tagLen + protowire.SizeBytes(sizeRecord(fv.Elem(), f.elem))
		}
		return tagLen + sizeScalar(fv.Elem(), f.Kind)
	}

	if fv.Len() == 0 {
		return 0
	}
	if f.Kind.packable() {
		return tagLen + protowire.SizeBytes(sizePacked(fv, f.Kind))
	}
	n := 0
	for i := 0; i < fv.Len(); i++ {
		e := fv.Index(i)
		if f.Kind == KindMessage {
			l := 0
			if !e.IsNil() {
				l = sizeRecord(e.Elem(), f.elem)
			}
			n += tagLen + protowire.SizeBytes(l)
			continue
		}
		n += tagLen + sizeScalar(e, f.Kind)
	}
	return n
}

func sizePacked(fv reflect.Value, k Kind) int {
	n := 0
	for i := 0; i < fv.Len(); i++ {
		n += sizeScalar(fv.Index(i), k)
	}
	return n
}

// sizeScalar returns the payload length of one scalar value, excluding the tag.
func sizeScalar(v reflect.Value, k Kind) int {
	switch k {
	case KindBool:
		return 1
	case KindInt32, KindInt64:
		return protowire.SizeVarint(uint64(v.Int()))
	case KindUint32, KindUint64:
		return protowire.SizeVarint(v.Uint())
	case KindSint32, KindSint64:
		return protowire.SizeVarint(protowire.EncodeZigZag(v.Int()))
	case KindFixed32, KindSfixed32, KindFloat:
		return protowire.SizeFixed32()
	case KindFixed64, KindSfixed64, KindDouble:
		return protowire.SizeFixed64()
	case KindString, KindBytes:
		return protowire.SizeBytes(v.Len())
	}
	return 0
}

// isZeroScalar reports whether a field without presence is omitted.
// Floats compare by bit pattern so that -0 is written.
func isZeroScalar(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return math.Float64bits(v.Float()) == 0
	case reflect.String, reflect.Slice:
		return v.Len() == 0
	}
	return v.IsZero()
}

func appendRecord(b []byte, rv reflect.Value, s *Schema, path string) ([]byte, error) {
	if s.hooks.marshal {
		out, err := rv.Addr().Interface().(WireMarshaler).AppendWire(b)
		if err != nil {
			return b, fmt.Errorf("%w: %s: %w", ErrMarshal, path, err)
		}
		return out, nil
	}

	var err error
	for _, f := range s.Fields {
		b, err = appendField(b, rv.FieldByIndex(f.index), f, path+"."+f.Name)
		if err != nil {
			return b, err
		}
	}
	return append(b, stateOf(rv).unknown...), nil
}

func appendField(b []byte, fv reflect.Value, f *Field, path string) ([]byte, error) {
	switch f.Cardinality {
	case Singular:
		if isZeroScalar(fv) {
			return b, nil
		}
		b = protowire.AppendTag(b, f.Number, f.Kind.WireType())
		return appendScalar(b, fv, f.Kind), nil

	case Optional:
		if fv.IsNil() {
			return b, nil
		}
		if f.Kind == KindMessage {
			return appendMessage(b, fv.Elem(), f, path)
		}
		b = protowire.AppendTag(b, f.Number, f.Kind.WireType())
		return appendScalar(b, fv.Elem(), f.Kind), nil
	}

	if fv.Len() == 0 {
		return b, nil
	}
	if f.Kind.packable() {
		b = protowire.AppendTag(b, f.Number, protowire.BytesType)
		b = protowire.AppendVarint(b, uint64(sizePacked(fv, f.Kind)))
		for i := 0; i < fv.Len(); i++ {
			b = appendScalar(b, fv.Index(i), f.Kind)
		}
		return b, nil
	}

	var err error
	for i := 0; i < fv.Len(); i++ {
		e := fv.Index(i)
		if f.Kind != KindMessage {
			b = protowire.AppendTag(b, f.Number, f.Kind.WireType())
			b = appendScalar(b, e, f.Kind)
			continue
		}
		if e.IsNil() {
			b = protowire.AppendTag(b, f.Number, protowire.BytesType)
			b = protowire.AppendVarint(b, 0)
			continue
		}
		b, err = appendMessage(b, e.Elem(), f, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return b, err
		}
	}
	return b, nil
}

// appendMessage writes a nested record as a length-delimited field.
func appendMessage(b []byte, rv reflect.Value, f *Field, path string) ([]byte, error) {
	size := sizeRecord(rv, f.elem)
	b = protowire.AppendTag(b, f.Number, protowire.BytesType)
	b = protowire.AppendVarint(b, uint64(size))
	start := len(b)
	b, err := appendRecord(b, rv, f.elem, path)
	if err != nil {
		return b, err
	}
	if got := len(b) - start; got != size {
		return b, fmt.Errorf("%w: %s: size changed from %d to %d during encoding", ErrMarshal, path, size, got)
	}
	return b, nil
}

func appendScalar(b []byte, v reflect.Value, k Kind) []byte {
	switch k {
	case KindBool:
		return protowire.AppendVarint(b, protowire.EncodeBool(v.Bool()))
	case KindInt32, KindInt64:
		return protowire.AppendVarint(b, uint64(v.Int()))
	case KindUint32, KindUint64:
		return protowire.AppendVarint(b, v.Uint())
	case KindSint32, KindSint64:
		return protowire.AppendVarint(b, protowire.EncodeZigZag(v.Int()))
	case KindFixed32:
		return protowire.AppendFixed32(b, uint32(v.Uint()))
	case KindSfixed32:
		return protowire.AppendFixed32(b, uint32(int32(v.Int())))
	case KindFloat:
		return protowire.AppendFixed32(b, math.Float32bits(float32(v.Float())))
	case KindFixed64:
		return protowire.AppendFixed64(b, v.Uint())
	case KindSfixed64:
		return protowire.AppendFixed64(b, uint64(v.Int()))
	case KindDouble:
		return protowire.AppendFixed64(b, math.Float64bits(v.Float()))
	case KindString:
		return protowire.AppendString(b, v.String())
	case KindBytes:
		return protowire.AppendBytes(b, v.Bytes())
	}
	return b
}

// recordName returns the Go type name of r for signals and error paths.
func recordName(r Record) string {
	if r == nil {
		return ""
	}
	t := reflect.TypeOf(r)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
