package proteus

import (
	"bytes"
	"math"
	"reflect"
)

// Merge merges src into dst. Non-zero plain scalars and present optional
// values of src overwrite dst. Nested records present on both sides merge
// recursively; a record present only in src is deep-copied into dst's arena.
// A nested record shared by dst and src is left as is. Repeated fields are
// appended and unknown fields concatenated.
//
// dst and src must be the same record type.
func Merge(dst, src Record) {
	if isNilRecord(dst) || isNilRecord(src) {
		return
	}
	dv, sv := reflect.ValueOf(dst).Elem(), reflect.ValueOf(src).Elem()
	mustSameType(dv, sv)
	s := mustSchema(dv.Type())
	if dv.Addr().Pointer() == sv.Addr().Pointer() {
		// Self-merge: snapshot src so appended slices do not feed themselves.
		snap := reflect.New(sv.Type()).Elem()
		mergeValue(snap, sv, s, nil)
		sv = snap
	}
	mergeValue(dv, sv, s, ownerOf(stateOf(dv)))
}

// CopyFrom replaces the contents of dst with a deep copy of src.
func CopyFrom(dst, src Record) {
	if isNilRecord(dst) || isNilRecord(src) {
		return
	}
	dv, sv := reflect.ValueOf(dst).Elem(), reflect.ValueOf(src).Elem()
	if dv.Addr().Pointer() == sv.Addr().Pointer() {
		return
	}
	mustSameType(dv, sv)
	Reset(dst)
	mergeValue(dv, sv, mustSchema(dv.Type()), ownerOf(stateOf(dv)))
}

// Reset clears every field of r, including unknown fields. Arena ownership
// is kept.
func Reset(r Record) {
	if isNilRecord(r) {
		return
	}
	rv := reflect.ValueOf(r).Elem()
	st := stateOf(rv)
	arena, gen := st.arena, st.gen
	rv.Set(reflect.Zero(rv.Type()))
	st.arena, st.gen = arena, gen
}

// Swap exchanges the contents of a and b. Records with the same owner swap
// by value in constant time, nested pointers included. Otherwise each side
// receives a deep copy of the other allocated from its own arena. Arena
// ownership of a and b themselves never changes.
func Swap[P Record](a, b P) {
	if isNilRecord(a) || isNilRecord(b) {
		return
	}
	av, bv := reflect.ValueOf(a).Elem(), reflect.ValueOf(b).Elem()
	if av.Addr().Pointer() == bv.Addr().Pointer() {
		return
	}
	sa, sb := stateOf(av), stateOf(bv)
	aArena, aGen := sa.arena, sa.gen
	bArena, bGen := sb.arena, sb.gen
	oa, ob := ownerOf(sa), ownerOf(sb)

	if oa == ob {
		tmp := reflect.New(av.Type()).Elem()
		tmp.Set(av)
		av.Set(bv)
		bv.Set(tmp)
	} else {
		s := mustSchema(av.Type())
		na := reflect.New(av.Type()).Elem()
		nb := reflect.New(bv.Type()).Elem()
		mergeValue(na, bv, s, oa)
		mergeValue(nb, av, s, ob)
		av.Set(na)
		bv.Set(nb)
	}

	sa.arena, sa.gen = aArena, aGen
	sb.arena, sb.gen = bArena, bGen
}

// mergeValue merges the record struct src into dst. New nested records are
// allocated from a. A record merged into itself is left as is.
func mergeValue(dst, src reflect.Value, s *Schema, a *Arena) {
	if dst.CanAddr() && src.CanAddr() && dst.Addr().Pointer() == src.Addr().Pointer() {
		return
	}
	for _, f := range s.Fields {
		df, sf := dst.FieldByIndex(f.index), src.FieldByIndex(f.index)

		switch f.Cardinality {
		case Singular:
			if !isZeroScalar(sf) {
				df.Set(copyScalar(sf))
			}

		case Optional:
			if sf.IsNil() {
				continue
			}
			if f.Kind == KindMessage {
				if df.IsNil() {
					df.Set(allocRecord(a, f.goType))
				}
				mergeValue(df.Elem(), sf.Elem(), f.elem, a)
				continue
			}
			p := reflect.New(f.goType)
			p.Elem().Set(copyScalar(sf.Elem()))
			df.Set(p)

		case Repeated:
			n := sf.Len()
			for i := 0; i < n; i++ {
				e := sf.Index(i)
				if f.Kind == KindMessage {
					c := allocRecord(a, f.goType)
					if !e.IsNil() {
						mergeValue(c.Elem(), e.Elem(), f.elem, a)
					}
					df.Set(reflect.Append(df, c))
					continue
				}
				df.Set(reflect.Append(df, copyScalar(e)))
			}
		}
	}

	if unknown := stateOf(src).unknown; len(unknown) > 0 {
		ds := stateOf(dst)
		ds.unknown = append(ds.unknown, unknown...)
	}
}

// copyScalar returns v, duplicating byte slices.
func copyScalar(v reflect.Value) reflect.Value {
	if v.Kind() != reflect.Slice {
		return v
	}
	c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(c, v)
	return c
}

// Equal reports whether a and b are the same record type with equal field
// values and unknown fields. An absent nested record differs from a present
// empty one. NaN is never equal to itself.
func Equal(a, b Record) bool {
	if isNilRecord(a) || isNilRecord(b) {
		return isNilRecord(a) == isNilRecord(b)
	}
	av, bv := reflect.ValueOf(a).Elem(), reflect.ValueOf(b).Elem()
	if av.Type() != bv.Type() {
		return false
	}
	return equalValue(av, bv, mustSchema(av.Type()))
}

func equalValue(a, b reflect.Value, s *Schema) bool {
	for _, f := range s.Fields {
		af, bf := a.FieldByIndex(f.index), b.FieldByIndex(f.index)

		switch f.Cardinality {
		case Singular:
			if !equalScalar(af, bf) {
				return false
			}

		case Optional:
			if af.IsNil() || bf.IsNil() {
				if af.IsNil() != bf.IsNil() {
					return false
				}
				continue
			}
			if f.Kind == KindMessage {
				if !equalValue(af.Elem(), bf.Elem(), f.elem) {
					return false
				}
				continue
			}
			if !equalScalar(af.Elem(), bf.Elem()) {
				return false
			}

		case Repeated:
			if af.Len() != bf.Len() {
				return false
			}
			for i := 0; i < af.Len(); i++ {
				ae, be := af.Index(i), bf.Index(i)
				if f.Kind != KindMessage {
					if !equalScalar(ae, be) {
						return false
					}
					continue
				}
				if !equalValue(derefOrZero(ae), derefOrZero(be), f.elem) {
					return false
				}
			}
		}
	}
	return bytes.Equal(stateOf(a).unknown, stateOf(b).unknown)
}

// derefOrZero treats a nil repeated element as an empty record, matching
// how it is encoded.
func derefOrZero(p reflect.Value) reflect.Value {
	if p.IsNil() {
		return reflect.New(p.Type().Elem()).Elem()
	}
	return p.Elem()
}

func equalScalar(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.Float32, reflect.Float64:
		x, y := a.Float(), b.Float()
		if math.IsNaN(x) || math.IsNaN(y) {
			return false
		}
		return x == y
	case reflect.Slice:
		return bytes.Equal(a.Bytes(), b.Bytes())
	}
	return a.Equal(b)
}

func mustSameType(a, b reflect.Value) {
	if a.Type() != b.Type() {
		panic(newSchemaError(ErrNotRecord, a.Type().Name(), "",
			"cannot combine with "+b.Type().Name()))
	}
}
