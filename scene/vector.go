// Package scene defines the scene-description records carried by the
// proteus wire format: cameras, the vectors that place them, and the scene
// container that groups them.
package scene

import (
	"math"

	"github.com/zoobzio/proteus"
	"google.golang.org/protobuf/encoding/protowire"
)

// Vector3D is a three component vector record.
type Vector3D struct {
	proteus.State `json:"-" yaml:"-" msgpack:"-" bson:"-" xml:"-" cbor:"-"`
	X             float32 `json:"x" yaml:"x" wire:"1"`
	Y             float32 `json:"y" yaml:"y" wire:"2"`
	Z             float32 `json:"z" yaml:"z" wire:"3"`
}

// Vec returns a heap-owned vector.
func Vec(x, y, z float32) *Vector3D {
	return &Vector3D{X: x, Y: y, Z: z}
}

var defaultVector3D = &Vector3D{}

// DefaultVector3D returns the shared zero vector handed out for absent
// sub-records. It must not be modified.
func DefaultVector3D() *Vector3D {
	return defaultVector3D
}

// Set assigns all three components.
func (v *Vector3D) Set(x, y, z float32) {
	v.X, v.Y, v.Z = x, y, z
}

// Add returns the sum of v and o.
func (v Vector3D) Add(o Vector3D) Vector3D {
	return Vector3D{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns the difference of v and o.
func (v Vector3D) Sub(o Vector3D) Vector3D {
	return Vector3D{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Mul returns v scaled by s.
func (v Vector3D) Mul(s float32) Vector3D {
	return Vector3D{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vector3D) Dot(o Vector3D) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product of v and o.
func (v Vector3D) Cross(o Vector3D) Vector3D {
	return Vector3D{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Len returns the vector length.
func (v Vector3D) Len() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize returns the unit vector with the direction of v. The zero
// vector normalizes to itself.
func (v Vector3D) Normalize() Vector3D {
	l := v.Len()
	if l == 0 {
		return Vector3D{}
	}
	return v.Mul(1 / l)
}

// Components returns X, Y and Z.
func (v Vector3D) Components() (x, y, z float32) {
	return v.X, v.Y, v.Z
}

// Vectors are the most frequent nested record in a scene, so they encode
// themselves instead of going through the schema walker. The output is
// byte-identical to the generic path.

// WireSize implements proteus.WireSizer.
func (v *Vector3D) WireSize() int {
	n := 0
	for _, c := range [3]float32{v.X, v.Y, v.Z} {
		if math.Float32bits(c) != 0 {
			n += 1 + 4
		}
	}
	return n + len(proteus.Unknown(v))
}

// AppendWire implements proteus.WireMarshaler.
func (v *Vector3D) AppendWire(b []byte) ([]byte, error) {
	for i, c := range [3]float32{v.X, v.Y, v.Z} {
		bits := math.Float32bits(c)
		if bits == 0 {
			continue
		}
		b = protowire.AppendTag(b, protowire.Number(i+1), protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, bits)
	}
	return append(b, proteus.Unknown(v)...), nil
}

// UnmarshalWire implements proteus.WireUnmarshaler.
func (v *Vector3D) UnmarshalWire(b []byte) error {
	total := len(b)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return &proteus.DecodeError{Offset: total - len(b), Cause: protowire.ParseError(n)}
		}
		if num >= 1 && num <= 3 && typ == protowire.Fixed32Type {
			bits, m := protowire.ConsumeFixed32(b[n:])
			if m < 0 {
				return &proteus.DecodeError{Path: vectorAxis[num], Offset: total - len(b) + n, Cause: protowire.ParseError(m)}
			}
			switch num {
			case 1:
				v.X = math.Float32frombits(bits)
			case 2:
				v.Y = math.Float32frombits(bits)
			case 3:
				v.Z = math.Float32frombits(bits)
			}
			b = b[n+m:]
			continue
		}
		m := protowire.ConsumeFieldValue(num, typ, b[n:])
		if m < 0 {
			return &proteus.DecodeError{Offset: total - len(b) + n, Cause: protowire.ParseError(m)}
		}
		proteus.AddUnknown(v, b[:n+m])
		b = b[n+m:]
	}
	return nil
}

var vectorAxis = [...]string{1: "X", 2: "Y", 3: "Z"}
