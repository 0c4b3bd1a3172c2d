package scene

import (
	"math"

	"github.com/zoobzio/proteus"
)

// AiCamera describes a camera in the scene graph. A node with the same name
// places the camera in the hierarchy.
//
// Position, Up and LookAt track presence: nil means absent. The scalar
// fields do not, so a zero value is never written and reads back as zero.
type AiCamera struct {
	proteus.State `json:"-" yaml:"-" msgpack:"-" bson:"-" xml:"-" cbor:"-"`

	Name string `json:"name,omitempty" yaml:"name,omitempty" wire:"1"`

	// Position relative to the coordinate space of the owning node.
	Position *Vector3D `json:"position,omitempty" yaml:"position,omitempty" wire:"2"`

	// Up and LookAt span the camera coordinate system. Neither needs to be
	// normalized; their cross product is the right vector.
	Up     *Vector3D `json:"up,omitempty" yaml:"up,omitempty" wire:"3"`
	LookAt *Vector3D `json:"lookAt,omitempty" yaml:"lookAt,omitempty" wire:"4"`

	// HorizontalFOV is the angle in radians between the center line of the
	// screen and its left or right border.
	HorizontalFOV float32 `json:"horizontalFov,omitempty" yaml:"horizontalFov,omitempty" wire:"5"`
	ClipPlaneNear float32 `json:"clipPlaneNear,omitempty" yaml:"clipPlaneNear,omitempty" wire:"6"`
	ClipPlaneFar  float32 `json:"clipPlaneFar,omitempty" yaml:"clipPlaneFar,omitempty" wire:"7"`

	// Aspect is width over height, 0 when undefined.
	Aspect float32 `json:"aspect,omitempty" yaml:"aspect,omitempty" wire:"8"`

	// OrthographicWidth is the half width of the orthographic view box.
	// A non-zero value makes the camera orthographic.
	OrthographicWidth float32 `json:"orthographicWidth,omitempty" yaml:"orthographicWidth,omitempty" wire:"9"`
}

// Camera defaults applied by DefaultCamera.
const (
	DefaultHorizontalFOV = math.Pi / 4
	DefaultClipPlaneNear = 0.1
	DefaultClipPlaneFar  = 1000
)

// NewCamera allocates an empty camera from a, or the heap when a is nil.
func NewCamera(a *proteus.Arena) *AiCamera {
	return proteus.New[AiCamera](a)
}

// DefaultCamera returns a heap-owned camera at the origin looking down +Z
// with +Y up and the default projection.
func DefaultCamera(name string) *AiCamera {
	return &AiCamera{
		Name:          name,
		Position:      Vec(0, 0, 0),
		Up:            Vec(0, 1, 0),
		LookAt:        Vec(0, 0, 1),
		HorizontalFOV: DefaultHorizontalFOV,
		ClipPlaneNear: DefaultClipPlaneNear,
		ClipPlaneFar:  DefaultClipPlaneFar,
	}
}

// GetName returns the name, or "" on a nil camera.
func (c *AiCamera) GetName() string {
	if c == nil {
		return ""
	}
	return c.Name
}

// SetName sets the name.
func (c *AiCamera) SetName(v string) { c.Name = v }

// ClearName clears the name.
func (c *AiCamera) ClearName() { c.Name = "" }

// GetPosition returns the position, or the shared default vector when
// absent. The result is never nil.
func (c *AiCamera) GetPosition() *Vector3D {
	if c == nil || c.Position == nil {
		return DefaultVector3D()
	}
	return c.Position
}

// HasPosition reports whether the position is present.
func (c *AiCamera) HasPosition() bool { return c != nil && c.Position != nil }

// ClearPosition marks the position absent.
func (c *AiCamera) ClearPosition() { c.Position = nil }

// SetPosition copies v into the position, marking it present. A nil v
// clears the field.
func (c *AiCamera) SetPosition(v *Vector3D) {
	if v == nil {
		c.Position = nil
		return
	}
	proteus.CopyFrom(c.MutablePosition(), v)
}

// MutablePosition returns the position for writing, allocating it from the
// camera's arena when absent. The field is present afterwards.
func (c *AiCamera) MutablePosition() *Vector3D {
	return mutableVector(c, &c.Position)
}

// ReleasePosition removes the position and returns it. The result is
// heap-owned; an arena-owned position is duplicated first.
func (c *AiCamera) ReleasePosition() *Vector3D {
	return releaseVector(&c.Position)
}

// SetAllocatedPosition stores v as the position. v is taken as is when it
// shares the camera's owner and copied into the camera's arena otherwise.
func (c *AiCamera) SetAllocatedPosition(v *Vector3D) {
	setAllocatedVector(c, &c.Position, v)
}

// GetUp returns the up vector, or the shared default vector when absent.
func (c *AiCamera) GetUp() *Vector3D {
	if c == nil || c.Up == nil {
		return DefaultVector3D()
	}
	return c.Up
}

// HasUp reports whether the up vector is present.
func (c *AiCamera) HasUp() bool { return c != nil && c.Up != nil }

// ClearUp removes the up vector.
func (c *AiCamera) ClearUp() { c.Up = nil }

// MutableUp returns the up vector for writing, allocating it when absent.
func (c *AiCamera) MutableUp() *Vector3D { return mutableVector(c, &c.Up) }

// ReleaseUp removes the up vector and returns it heap-owned.
func (c *AiCamera) ReleaseUp() *Vector3D { return releaseVector(&c.Up) }

// SetAllocatedUp stores v as the up vector, copying it across arenas.
func (c *AiCamera) SetAllocatedUp(v *Vector3D) { setAllocatedVector(c, &c.Up, v) }

// SetUp stores a copy of v as the up vector; nil clears it.
func (c *AiCamera) SetUp(v *Vector3D) {
	if v == nil {
		c.Up = nil
		return
	}
	proteus.CopyFrom(c.MutableUp(), v)
}

// GetLookAt returns the viewing direction, or the shared default vector
// when absent.
func (c *AiCamera) GetLookAt() *Vector3D {
	if c == nil || c.LookAt == nil {
		return DefaultVector3D()
	}
	return c.LookAt
}

// HasLookAt reports whether the viewing direction is present.
func (c *AiCamera) HasLookAt() bool { return c != nil && c.LookAt != nil }

// ClearLookAt removes the viewing direction.
func (c *AiCamera) ClearLookAt() { c.LookAt = nil }

// MutableLookAt returns the viewing direction for writing, allocating it when absent.
func (c *AiCamera) MutableLookAt() *Vector3D { return mutableVector(c, &c.LookAt) }

// ReleaseLookAt removes the viewing direction and returns it heap-owned.
func (c *AiCamera) ReleaseLookAt() *Vector3D { return releaseVector(&c.LookAt) }

// SetAllocatedLookAt stores v as the viewing direction, copying it across arenas.
func (c *AiCamera) SetAllocatedLookAt(v *Vector3D) { setAllocatedVector(c, &c.LookAt, v) }

// SetLookAt stores a copy of v as the viewing direction; nil clears it.
func (c *AiCamera) SetLookAt(v *Vector3D) {
	if v == nil {
		c.LookAt = nil
		return
	}
	proteus.CopyFrom(c.MutableLookAt(), v)
}

// GetHorizontalFOV returns the horizontal field of view, or zero on a nil camera.
func (c *AiCamera) GetHorizontalFOV() float32 {
	if c == nil {
		return 0
	}
	return c.HorizontalFOV
}

// SetHorizontalFOV sets the horizontal field of view.
func (c *AiCamera) SetHorizontalFOV(v float32) { c.HorizontalFOV = v }

// ClearHorizontalFOV resets the horizontal field of view to zero.
func (c *AiCamera) ClearHorizontalFOV() { c.HorizontalFOV = 0 }

// GetClipPlaneNear returns the near clip plane distance, or zero on a nil camera.
func (c *AiCamera) GetClipPlaneNear() float32 {
	if c == nil {
		return 0
	}
	return c.ClipPlaneNear
}

// SetClipPlaneNear sets the near clip plane distance.
func (c *AiCamera) SetClipPlaneNear(v float32) { c.ClipPlaneNear = v }

// ClearClipPlaneNear resets the near clip plane distance to zero.
func (c *AiCamera) ClearClipPlaneNear() { c.ClipPlaneNear = 0 }

// GetClipPlaneFar returns the far clip plane distance, or zero on a nil camera.
func (c *AiCamera) GetClipPlaneFar() float32 {
	if c == nil {
		return 0
	}
	return c.ClipPlaneFar
}

// SetClipPlaneFar sets the far clip plane distance.
func (c *AiCamera) SetClipPlaneFar(v float32) { c.ClipPlaneFar = v }

// ClearClipPlaneFar resets the far clip plane distance to zero.
func (c *AiCamera) ClearClipPlaneFar() { c.ClipPlaneFar = 0 }

// GetAspect returns the aspect ratio, or zero on a nil camera.
func (c *AiCamera) GetAspect() float32 {
	if c == nil {
		return 0
	}
	return c.Aspect
}

// SetAspect sets the aspect ratio.
func (c *AiCamera) SetAspect(v float32) { c.Aspect = v }

// ClearAspect resets the aspect ratio to zero.
func (c *AiCamera) ClearAspect() { c.Aspect = 0 }

// GetOrthographicWidth returns the orthographic half width, or zero on a nil camera.
func (c *AiCamera) GetOrthographicWidth() float32 {
	if c == nil {
		return 0
	}
	return c.OrthographicWidth
}

// SetOrthographicWidth sets the orthographic half width.
func (c *AiCamera) SetOrthographicWidth(v float32) { c.OrthographicWidth = v }

// ClearOrthographicWidth resets the orthographic half width to zero.
func (c *AiCamera) ClearOrthographicWidth() { c.OrthographicWidth = 0 }

// IsOrthographic reports whether the camera uses an orthographic projection.
func (c *AiCamera) IsOrthographic() bool {
	return c.GetOrthographicWidth() != 0
}

// Right returns the right vector of the camera coordinate system, the cross
// product of Up and LookAt.
func (c *AiCamera) Right() Vector3D {
	return c.GetUp().Cross(*c.GetLookAt())
}

func mutableVector(parent *AiCamera, slot **Vector3D) *Vector3D {
	if *slot == nil {
		*slot = proteus.New[Vector3D](proteus.ArenaOf(parent))
	}
	return *slot
}

func releaseVector(slot **Vector3D) *Vector3D {
	v := *slot
	*slot = nil
	if v == nil {
		return nil
	}
	return proteus.Detach(v)
}

func setAllocatedVector(parent *AiCamera, slot **Vector3D, v *Vector3D) {
	if v == nil {
		*slot = nil
		return
	}
	*slot = proteus.Adopt(parent, v)
}
