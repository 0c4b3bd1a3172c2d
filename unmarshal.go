package proteus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// defaultRecursionLimit bounds nesting depth while decoding.
const defaultRecursionLimit = 100

var errDepth = errors.New("exceeds maximum nesting depth")

// UnmarshalOptions configures the decoder.
type UnmarshalOptions struct {
	// Merge decodes into the existing contents of the destination instead
	// of resetting it first.
	Merge bool

	// AllowPartial skips the required-field check.
	AllowPartial bool

	// DiscardUnknown drops unrecognized fields instead of keeping them.
	DiscardUnknown bool

	// RecursionLimit bounds nesting depth. Zero means 100.
	RecursionLimit int
}

// Unmarshal parses the wire encoding in b into r, replacing its contents.
// On error r is left unchanged.
func Unmarshal(b []byte, r Record) error {
	return UnmarshalOptions{}.Unmarshal(b, r)
}

// UnmarshalMerge parses b and merges the result into r. Scalars present in b
// overwrite, nested records merge recursively and repeated fields append.
// On error r is left unchanged.
func UnmarshalMerge(b []byte, r Record) error {
	return UnmarshalOptions{Merge: true}.Unmarshal(b, r)
}

// Decode reads all of rd and parses it into r. A failing reader is reported
// as a *SinkError.
func Decode(rd io.Reader, r Record) error {
	start := time.Now()
	data, err := io.ReadAll(rd)
	if err != nil {
		err = &SinkError{Op: "read", Cause: err}
	} else {
		err = Unmarshal(data, r)
	}
	emitUnmarshalComplete(context.Background(), recordName(r), len(data), time.Since(start), err)
	return err
}

// Unmarshal parses b into r according to o.
//
// Decoding fails closed: the input is decoded into a heap scratch record
// and applied to r only after the whole input parsed, so a failed decode
// leaves both r and its arena untouched. On success nested records are
// allocated from the arena that owns r. In merge mode existing nested
// records of r are merged into in place.
func (o UnmarshalOptions) Unmarshal(b []byte, r Record) error {
	if isNilRecord(r) {
		return fmt.Errorf("%w: nil destination", ErrNotRecord)
	}
	dst := reflect.ValueOf(r).Elem()
	s, err := schemaOf(dst.Type())
	if err != nil {
		return err
	}

	d := &decoder{opts: o, limit: o.RecursionLimit}
	if d.limit <= 0 {
		d.limit = defaultRecursionLimit
	}

	tmp := reflect.New(dst.Type()).Elem()
	if err := d.unmarshalRecord(b, tmp, s, s.TypeName, 0, 0); err != nil {
		return err
	}
	if !o.AllowPartial {
		if err := checkRequiredAfter(dst, tmp, s, o.Merge); err != nil {
			return err
		}
	}

	st := stateOf(dst)
	arena, gen := st.arena, st.gen
	owner := ownerOf(st)
	switch {
	case o.Merge:
		mergeValue(dst, tmp, s, owner)
	case owner == nil:
		dst.Set(tmp)
		st.arena, st.gen = arena, gen
	default:
		Reset(r)
		mergeValue(dst, tmp, s, owner)
	}
	return nil
}

// checkRequiredAfter checks the required fields of the record that applying
// src to dst would produce, without modifying dst.
func checkRequiredAfter(dst, src reflect.Value, s *Schema, merge bool) error {
	if !merge {
		return checkRequired(src, s)
	}
	var missing []string
	collectMissingMerged(dst, src, s, s.TypeName, &missing)
	if len(missing) > 0 {
		return &RequiredError{Paths: missing}
	}
	return nil
}

// decoder carries per-call decode state.
type decoder struct {
	opts  UnmarshalOptions
	limit int
}

// unmarshalRecord decodes b into the record struct rv. off is the absolute
// offset of b[0] within the top-level input.
func (d *decoder) unmarshalRecord(b []byte, rv reflect.Value, s *Schema, path string, off, depth int) error {
	if depth > d.limit {
		return newDecodeError(path, off, errDepth)
	}
	if s.hooks.unmarshal {
		if err := rv.Addr().Interface().(WireUnmarshaler).UnmarshalWire(b); err != nil {
			var de *DecodeError
			if errors.As(err, &de) {
				if de.Path != "" {
					return newDecodeError(path+"."+de.Path, off+de.Offset, de.Cause)
				}
				return newDecodeError(path, off+de.Offset, de.Cause)
			}
			return newDecodeError(path, off, err)
		}
		return nil
	}

	st := stateOf(rv)
	total := len(b)
	for len(b) > 0 {
		pos := off + total - len(b)
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return newDecodeError(path, pos, protowire.ParseError(n))
		}

		f := s.byNumber[num]
		if f == nil || !f.accepts(typ) {
			m := protowire.ConsumeFieldValue(num, typ, b[n:])
			if m < 0 {
				return newDecodeError(fmt.Sprintf("%s.<%d>", path, num), pos, protowire.ParseError(m))
			}
			if !d.opts.DiscardUnknown {
				st.unknown = append(st.unknown, b[:n+m]...)
			}
			b = b[n+m:]
			continue
		}

		m, err := d.unmarshalField(b[n:], rv.FieldByIndex(f.index), f, typ, path+"."+f.Name, pos+n, depth)
		if err != nil {
			return err
		}
		b = b[n+m:]
	}
	return nil
}

// unmarshalField decodes one value of f from b and returns its length.
func (d *decoder) unmarshalField(b []byte, fv reflect.Value, f *Field, typ protowire.Type, path string, off, depth int) (int, error) {
	if f.Kind == KindMessage {
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, newDecodeError(path, off, protowire.ParseError(n))
		}
		inner := off + n - len(v)

		if f.Cardinality == Repeated {
			path = fmt.Sprintf("%s[%d]", path, fv.Len())
			e := reflect.New(f.goType)
			if err := d.unmarshalRecord(v, e.Elem(), f.elem, path, inner, depth+1); err != nil {
				return 0, err
			}
			fv.Set(reflect.Append(fv, e))
			return n, nil
		}

		if fv.IsNil() {
			fv.Set(reflect.New(f.goType))
		}
		if err := d.unmarshalRecord(v, fv.Elem(), f.elem, path, inner, depth+1); err != nil {
			return 0, err
		}
		return n, nil
	}

	if f.Cardinality == Repeated && typ == protowire.BytesType && f.Kind.packable() {
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, newDecodeError(path, off, protowire.ParseError(n))
		}
		inner := off + n - len(v)
		for len(v) > 0 {
			val, m := consumeScalar(v, f)
			if m < 0 {
				return 0, newDecodeError(fmt.Sprintf("%s[%d]", path, fv.Len()), inner, protowire.ParseError(m))
			}
			fv.Set(reflect.Append(fv, val))
			v = v[m:]
			inner += m
		}
		return n, nil
	}

	val, n := consumeScalar(b, f)
	if n < 0 {
		return 0, newDecodeError(path, off, protowire.ParseError(n))
	}
	switch f.Cardinality {
	case Singular:
		fv.Set(val)
	case Optional:
		p := reflect.New(f.goType)
		p.Elem().Set(val)
		fv.Set(p)
	case Repeated:
		fv.Set(reflect.Append(fv, val))
	}
	return n, nil
}

// consumeScalar parses one scalar of f's kind. A negative length is a
// protowire error code.
func consumeScalar(b []byte, f *Field) (reflect.Value, int) {
	v := reflect.New(f.goType).Elem()

	switch f.Kind.WireType() {
	case protowire.VarintType:
		x, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return v, n
		}
		switch f.Kind {
		case KindBool:
			v.SetBool(protowire.DecodeBool(x))
		case KindInt32:
			v.SetInt(int64(int32(x)))
		case KindInt64:
			v.SetInt(int64(x))
		case KindUint32:
			v.SetUint(uint64(uint32(x)))
		case KindUint64:
			v.SetUint(x)
		case KindSint32:
			v.SetInt(int64(int32(protowire.DecodeZigZag(x & math.MaxUint32))))
		case KindSint64:
			v.SetInt(protowire.DecodeZigZag(x))
		}
		return v, n

	case protowire.Fixed32Type:
		x, n := protowire.ConsumeFixed32(b)
		if n < 0 {
			return v, n
		}
		switch f.Kind {
		case KindFixed32:
			v.SetUint(uint64(x))
		case KindSfixed32:
			v.SetInt(int64(int32(x)))
		case KindFloat:
			v.SetFloat(float64(math.Float32frombits(x)))
		}
		return v, n

	case protowire.Fixed64Type:
		x, n := protowire.ConsumeFixed64(b)
		if n < 0 {
			return v, n
		}
		switch f.Kind {
		case KindFixed64:
			v.SetUint(x)
		case KindSfixed64:
			v.SetInt(int64(x))
		case KindDouble:
			v.SetFloat(math.Float64frombits(x))
		}
		return v, n
	}

	x, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return v, n
	}
	if f.Kind == KindString {
		v.SetString(string(x))
	} else {
		v.SetBytes(append([]byte{}, x...))
	}
	return v, n
}
