package proteus

import "reflect"

// Clone returns a heap-owned deep copy of r.
func Clone[P Record](r P) P {
	return CloneInto(nil, r)
}

// CloneInto returns a deep copy of r allocated from a, or from the heap
// when a is nil.
func CloneInto[P Record](a *Arena, r P) P {
	if isNilRecord(r) {
		return r
	}
	sv := reflect.ValueOf(r).Elem()
	out := allocRecord(a, sv.Type())
	mergeValue(out.Elem(), sv, mustSchema(sv.Type()), a)
	return out.Interface().(P)
}
