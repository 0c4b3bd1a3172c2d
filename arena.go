package proteus

import "reflect"

// slabSize is the number of records allocated together per type.
const slabSize = 64

// Arena bulk-allocates records. All records allocated from an arena share
// its lifetime: Reset tears the arena down, after which those records are
// detached and behave as heap-owned values.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	gen   uint64
	slabs map[reflect.Type]*slab
	count int
}

// slab is a fixed block of records of one type.
type slab struct {
	block reflect.Value // [slabSize]T
	next  int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{
		gen:   1,
		slabs: make(map[reflect.Type]*slab),
	}
}

// alloc returns a pointer to a zeroed record of type t owned by a.
func (a *Arena) alloc(t reflect.Type) reflect.Value {
	s := a.slabs[t]
	if s == nil || s.next == slabSize {
		s = &slab{block: reflect.New(reflect.ArrayOf(slabSize, t)).Elem()}
		a.slabs[t] = s
	}
	p := s.block.Index(s.next).Addr()
	s.next++
	a.count++

	st := p.Interface().(Record).protoState()
	st.arena = a
	st.gen = a.gen
	return p
}

// Len returns the number of records allocated since the last Reset.
func (a *Arena) Len() int {
	return a.count
}

// Reset tears down the arena. Records allocated before the call are
// detached and no longer report a as their owner.
func (a *Arena) Reset() {
	a.gen++
	a.slabs = make(map[reflect.Type]*slab)
	a.count = 0
}

// Owns reports whether r was allocated from a since its last Reset.
func (a *Arena) Owns(r Record) bool {
	return a != nil && ArenaOf(r) == a
}

// ArenaOf returns the arena that owns r, or nil for heap-owned records.
func ArenaOf(r Record) *Arena {
	if isNilRecord(r) {
		return nil
	}
	return ownerOf(r.protoState())
}

func ownerOf(st *State) *Arena {
	if st.arena != nil && st.arena.gen == st.gen {
		return st.arena
	}
	return nil
}

// New allocates a zeroed record of type T from a, or from the heap when a
// is nil.
//
//	cam := proteus.New[scene.AiCamera](arena)
func New[T any, P interface {
	*T
	Record
}](a *Arena) P {
	if a == nil {
		return P(new(T))
	}
	return a.alloc(reflect.TypeFor[T]()).Interface().(P)
}

// allocRecord returns a pointer to a zeroed record of type t from a or the heap.
func allocRecord(a *Arena, t reflect.Type) reflect.Value {
	if a == nil {
		return reflect.New(t)
	}
	return a.alloc(t)
}

// Adopt prepares child to be stored in parent. The child is returned as is
// when both sides share an owner; otherwise a deep copy owned by parent's
// arena is returned.
func Adopt[P Record](parent Record, child P) P {
	if isNilRecord(child) {
		return child
	}
	owner := ArenaOf(parent)
	if ArenaOf(child) == owner {
		return child
	}
	return CloneInto(owner, child)
}

// Detach returns a heap-owned record with the contents of child. Heap
// records are returned as is; arena records are duplicated.
func Detach[P Record](child P) P {
	if isNilRecord(child) || ArenaOf(child) == nil {
		return child
	}
	return CloneInto(nil, child)
}

func isNilRecord(r Record) bool {
	if r == nil {
		return true
	}
	rv := reflect.ValueOf(r)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
