package scene

import (
	"bytes"
	"errors"
	"testing"

	"github.com/zoobzio/proteus"
	"google.golang.org/protobuf/encoding/protowire"
)

func sampleScene() *AiScene {
	s := &AiScene{Name: "studio", Flags: FlagValidated}
	s.AddAllocatedCamera(DefaultCamera("front"))
	side := s.AddCamera()
	side.SetName("side")
	side.MutablePosition().Set(10, 0, 0)
	side.MutableLookAt().Set(-1, 0, 0)
	side.MutableUp().Set(0, 1, 0)
	side.SetHorizontalFOV(1)
	side.SetClipPlaneNear(0.5)
	side.SetClipPlaneFar(200)
	return s
}

func TestScene_RoundTrip(t *testing.T) {
	s := sampleScene()

	data, err := proteus.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if n := proteus.Size(s); n != len(data) {
		t.Errorf("Size() = %d, encoded %d bytes", n, len(data))
	}

	var got AiScene
	if err := proteus.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !proteus.Equal(&got, s) {
		t.Errorf("round trip = %+v, want %+v", &got, s)
	}
	if got.NumCameras() != 2 || got.Camera("side").GetPosition().X != 10 {
		t.Errorf("cameras = %+v", got.Cameras)
	}
	if !got.HasFlag(FlagValidated) || got.HasFlag(FlagIncomplete) {
		t.Errorf("Flags = %#x", got.Flags)
	}
}

func TestScene_PreservesOtherSections(t *testing.T) {
	// A mesh section (field 2) and a root node (field 3) written by a fuller
	// producer.
	var foreign []byte
	foreign = protowire.AppendTag(foreign, 2, protowire.BytesType)
	foreign = protowire.AppendBytes(foreign, []byte{0x08, 0x03})
	foreign = protowire.AppendTag(foreign, 3, protowire.BytesType)
	foreign = protowire.AppendString(foreign, "root")

	known, err := proteus.Marshal(sampleScene())
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	in := append(append([]byte{}, foreign...), known...)

	var s AiScene
	if err := proteus.Unmarshal(in, &s); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !bytes.Equal(proteus.Unknown(&s), foreign) {
		t.Errorf("Unknown() = % x, want % x", proteus.Unknown(&s), foreign)
	}

	out, err := proteus.Marshal(&s)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	want := append(append([]byte{}, known...), foreign...)
	if !bytes.Equal(out, want) {
		t.Errorf("re-encoded scene should append unknown sections after known fields")
	}

	proteus.DiscardUnknown(&s)
	if len(proteus.Unknown(&s)) != 0 {
		t.Error("DiscardUnknown() should drop the foreign sections")
	}
}

func TestScene_DecodeIntoArena(t *testing.T) {
	data, _ := proteus.Marshal(sampleScene())

	arena := proteus.NewArena()
	s := NewScene(arena)
	if err := proteus.Unmarshal(data, s); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !arena.Owns(s) {
		t.Error("decode should keep the scene's arena")
	}
	for i, c := range s.Cameras {
		if !arena.Owns(c) {
			t.Errorf("camera %d not allocated from the arena", i)
		}
		if c.HasPosition() && !arena.Owns(c.Position) {
			t.Errorf("camera %d position not allocated from the arena", i)
		}
	}

	front := s.ReleaseCamera(0)
	if proteus.ArenaOf(front) != nil || front.GetName() != "front" {
		t.Errorf("ReleaseCamera() = %+v", front)
	}
	if s.NumCameras() != 1 {
		t.Errorf("NumCameras() = %d, want 1", s.NumCameras())
	}

	arena.Reset()
	if proteus.ArenaOf(s) != nil {
		t.Error("records should be detached after arena reset")
	}
	if err := front.Validate(); err != nil {
		t.Errorf("released camera should stay usable: %v", err)
	}
}

func TestScene_TruncatedNestedCamera(t *testing.T) {
	data, _ := proteus.Marshal(sampleScene())

	// Cut inside the first camera's declared length.
	truncated := data[:6]

	s := &AiScene{Name: "untouched"}
	err := proteus.Unmarshal(truncated, s)
	if !errors.Is(err, proteus.ErrDecode) {
		t.Fatalf("Unmarshal(truncated) error = %v, want ErrDecode", err)
	}
	var de *proteus.DecodeError
	if errors.As(err, &de) && de.Path != "AiScene.Cameras" {
		t.Errorf("Path = %q, want %q", de.Path, "AiScene.Cameras")
	}
	if s.Name != "untouched" || s.NumCameras() != 0 {
		t.Errorf("destination modified on failure: %+v", s)
	}
}

func TestScene_Validate(t *testing.T) {
	s := sampleScene()
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	bad := s.AddCamera()
	bad.SetName("broken")
	err := s.Validate()
	if !errors.Is(err, ErrInvalidCamera) {
		t.Fatalf("Validate() error = %v, want ErrInvalidCamera", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Camera != "broken" {
		t.Errorf("failing camera = %+v", ve)
	}
}

func TestScene_Fingerprint(t *testing.T) {
	a, err := proteus.Fingerprint(sampleScene())
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	b, _ := proteus.Fingerprint(sampleScene())
	if a != b {
		t.Error("equal scenes should share a fingerprint")
	}

	other := sampleScene()
	other.Cameras[1].SetAspect(1.5)
	c, _ := proteus.Fingerprint(other)
	if a == c {
		t.Error("changed scene should change the fingerprint")
	}
}
