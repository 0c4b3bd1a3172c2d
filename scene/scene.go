package scene

import (
	"slices"

	"github.com/zoobzio/proteus"
)

// Scene flags.
const (
	FlagIncomplete        uint32 = 0x1
	FlagValidated         uint32 = 0x2
	FlagValidationWarning uint32 = 0x4
	FlagNonVerboseFormat  uint32 = 0x8
	FlagTerrain           uint32 = 0x10
	FlagAllowShared       uint32 = 0x20
)

// AiScene is the top-level record of a persisted scene. Only the camera
// section is modeled; meshes, materials and the node graph written by
// fuller producers are kept as unknown fields and written back unchanged.
type AiScene struct {
	proteus.State `json:"-" yaml:"-" msgpack:"-" bson:"-" xml:"-" cbor:"-"`

	Flags   uint32      `json:"flags,omitempty" yaml:"flags,omitempty" wire:"1"`
	Cameras []*AiCamera `json:"cameras,omitempty" yaml:"cameras,omitempty" wire:"8"`
	Name    string      `json:"name,omitempty" yaml:"name,omitempty" wire:"10"`
}

// NewScene allocates an empty scene from a, or the heap when a is nil.
func NewScene(a *proteus.Arena) *AiScene {
	return proteus.New[AiScene](a)
}

// AddCamera appends a new empty camera allocated from the scene's arena and
// returns it for writing.
func (s *AiScene) AddCamera() *AiCamera {
	c := NewCamera(proteus.ArenaOf(s))
	s.Cameras = append(s.Cameras, c)
	return c
}

// AddAllocatedCamera appends c, copying it into the scene's arena when the
// owners differ. The stored camera is returned.
func (s *AiScene) AddAllocatedCamera(c *AiCamera) *AiCamera {
	c = proteus.Adopt(s, c)
	s.Cameras = append(s.Cameras, c)
	return c
}

// Camera returns the first camera with the given name, or nil.
func (s *AiScene) Camera(name string) *AiCamera {
	if s == nil {
		return nil
	}
	for _, c := range s.Cameras {
		if c.GetName() == name {
			return c
		}
	}
	return nil
}

// NumCameras returns the number of cameras.
func (s *AiScene) NumCameras() int {
	if s == nil {
		return 0
	}
	return len(s.Cameras)
}

// HasFlag reports whether all bits of f are set.
func (s *AiScene) HasFlag(f uint32) bool {
	return s != nil && s.Flags&f == f
}

// ReleaseCamera removes the camera at index i and returns it heap-owned.
func (s *AiScene) ReleaseCamera(i int) *AiCamera {
	c := s.Cameras[i]
	s.Cameras = slices.Delete(s.Cameras, i, i+1)
	if c == nil {
		return nil
	}
	return proteus.Detach(c)
}
