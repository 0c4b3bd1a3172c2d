// Package testing provides fixtures for proteus tests.
package testing

import (
	"fmt"
	"testing"

	"github.com/zoobzio/proteus"
	"github.com/zoobzio/proteus/scene"
)

// TestKey returns a valid 32-byte AES key for testing.
func TestKey(tb testing.TB) []byte {
	tb.Helper()
	return []byte("32-byte-key-for-aes-256-encrypt!")
}

// TestEncryptor returns an AES encryptor configured for testing.
func TestEncryptor(tb testing.TB) proteus.Encryptor {
	tb.Helper()
	enc, err := proteus.AES(TestKey(tb))
	if err != nil {
		tb.Fatalf("AES() error: %v", err)
	}
	return enc
}

// SampleCamera returns a perspective camera with every field set.
func SampleCamera(name string) *scene.AiCamera {
	return &scene.AiCamera{
		Name:          name,
		Position:      scene.Vec(1, 2, 3),
		Up:            scene.Vec(0, 1, 0),
		LookAt:        scene.Vec(0, 0, -1),
		HorizontalFOV: 0.8,
		ClipPlaneNear: 0.25,
		ClipPlaneFar:  500,
		Aspect:        16.0 / 9.0,
	}
}

// SampleScene returns a scene with a perspective, an orthographic and a
// default camera.
func SampleScene() *scene.AiScene {
	s := &scene.AiScene{Name: "studio", Flags: scene.FlagValidated}
	s.AddAllocatedCamera(SampleCamera("main"))

	ortho := s.AddCamera()
	ortho.SetName("plan")
	ortho.MutablePosition().Set(0, 50, 0)
	ortho.MutableUp().Set(0, 0, -1)
	ortho.MutableLookAt().Set(0, -1, 0)
	ortho.SetOrthographicWidth(20)
	ortho.SetClipPlaneNear(1)
	ortho.SetClipPlaneFar(100)

	s.AddAllocatedCamera(scene.DefaultCamera("fallback"))
	return s
}

// LargeScene returns a scene of n sample cameras allocated from a.
func LargeScene(n int, a *proteus.Arena) *scene.AiScene {
	s := scene.NewScene(a)
	s.Name = "crowd"
	for i := range n {
		c := s.AddCamera()
		proteus.CopyFrom(c, SampleCamera(fmt.Sprintf("cam-%04d", i)))
		c.MutablePosition().Set(float32(i), 0, 0)
	}
	return s
}
