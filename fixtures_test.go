package proteus

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

type testVector struct {
	State
	X float32 `wire:"1"`
	Y float32 `wire:"2"`
	Z float32 `wire:"3"`
}

type testCamera struct {
	State
	Name              string      `wire:"1"`
	Position          *testVector `wire:"2"`
	Up                *testVector `wire:"3"`
	LookAt            *testVector `wire:"4"`
	HorizontalFOV     float32     `wire:"5"`
	ClipPlaneNear     float32     `wire:"6"`
	ClipPlaneFar      float32     `wire:"7"`
	Aspect            float32     `wire:"8"`
	OrthographicWidth float32     `wire:"9"`
}

type testScene struct {
	State
	Flags   uint32        `wire:"1"`
	Cameras []*testCamera `wire:"8"`
	Name    string        `wire:"10"`
}

type allKinds struct {
	State
	Bool     bool      `wire:"1"`
	Int32    int32     `wire:"2"`
	Int64    int64     `wire:"3"`
	Uint32   uint32    `wire:"4"`
	Uint64   uint64    `wire:"5"`
	Sint32   int32     `wire:"6,sint32"`
	Sint64   int64     `wire:"7,sint64"`
	Fixed32  uint32    `wire:"8,fixed32"`
	Fixed64  uint64    `wire:"9,fixed64"`
	Sfixed32 int32     `wire:"10,sfixed32"`
	Sfixed64 int64     `wire:"11,sfixed64"`
	Float    float32   `wire:"12"`
	Double   float64   `wire:"13"`
	String   string    `wire:"14"`
	Bytes    []byte    `wire:"15"`
	OptInt   *int32    `wire:"16"`
	OptStr   *string   `wire:"17"`
	Ints     []int32   `wire:"18"`
	Floats   []float32 `wire:"19"`
	Strings  []string  `wire:"20"`
	Blobs    [][]byte  `wire:"21"`
	Zigzags  []int64   `wire:"22,sint64"`
	Ignored  string
}

type frame struct {
	State
	Origin *testVector `wire:"1,req"`
	Axis   *testVector `wire:"2,message,req"`
	Label  string      `wire:"3"`
}

type node struct {
	State
	Value    int64   `wire:"1"`
	Next     *node   `wire:"2"`
	Children []*node `wire:"3"`
}

// hookVector encodes itself; the counters record which path was taken.
type hookVector struct {
	State
	X float32 `wire:"1"`
	Y float32 `wire:"2"`
	Z float32 `wire:"3"`
}

var hookCalls struct {
	size, marshal, unmarshal int
}

func (v *hookVector) WireSize() int {
	hookCalls.size++
	n := 0
	for _, c := range []float32{v.X, v.Y, v.Z} {
		if math.Float32bits(c) != 0 {
			n += 1 + 4
		}
	}
	return n + len(Unknown(v))
}

func (v *hookVector) AppendWire(b []byte) ([]byte, error) {
	hookCalls.marshal++
	for i, c := range []float32{v.X, v.Y, v.Z} {
		if math.Float32bits(c) == 0 {
			continue
		}
		b = protowire.AppendTag(b, protowire.Number(i+1), protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, math.Float32bits(c))
	}
	return append(b, Unknown(v)...), nil
}

func (v *hookVector) UnmarshalWire(b []byte) error {
	hookCalls.unmarshal++
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		if num >= 1 && num <= 3 && typ == protowire.Fixed32Type {
			x, m := protowire.ConsumeFixed32(b[n:])
			if m < 0 {
				return protowire.ParseError(m)
			}
			f := math.Float32frombits(x)
			switch num {
			case 1:
				v.X = f
			case 2:
				v.Y = f
			case 3:
				v.Z = f
			}
			b = b[n+m:]
			continue
		}
		m := protowire.ConsumeFieldValue(num, typ, b[n:])
		if m < 0 {
			return protowire.ParseError(m)
		}
		AddUnknown(v, b[:n+m])
		b = b[n+m:]
	}
	return nil
}

type hookHolder struct {
	State
	Name   string      `wire:"1"`
	Vector *hookVector `wire:"2"`
}

func ptr[T any](v T) *T { return &v }

// mainCamera is the camera used across codec tests.
func mainCamera() *testCamera {
	return &testCamera{
		Name:          "main",
		Position:      &testVector{X: 0, Y: 0, Z: 5},
		HorizontalFOV: 60,
	}
}
