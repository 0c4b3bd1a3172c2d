package cbor

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/zoobzio/proteus"
)

type shot struct {
	proteus.State `cbor:"-"`
	Name          string    `cbor:"name" wire:"1"`
	Focus         float32   `cbor:"focus" wire:"2"`
	Stops         []float32 `cbor:"stops" wire:"3"`
}

func sampleShot() *shot {
	return &shot{Name: "wide", Focus: 1.4, Stops: []float32{2, 2.8, 4}}
}

func TestContentType(t *testing.T) {
	c := New()
	if c == nil {
		t.Fatal("New() should return non-nil codec")
	}
	if c.ContentType() != "application/cbor" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/cbor")
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := New()
	original := sampleShot()

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored shot
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !proteus.Equal(&restored, original) {
		t.Errorf("round-trip failed: got %+v, want %+v", restored, original)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v shot
	err := c.Unmarshal([]byte{0xff}, &v)
	if !errors.Is(err, proteus.ErrUnmarshal) {
		t.Errorf("Unmarshal(invalid) error = %v, want ErrUnmarshal", err)
	}
	var ce *proteus.CodecError
	if !errors.As(err, &ce) || ce.Cause == nil {
		t.Errorf("expected *CodecError with a cause, got %T", err)
	}
}

func TestProcessor(t *testing.T) {
	p, err := proteus.NewProcessor[shot](New())
	if err != nil {
		t.Fatalf("NewProcessor() error: %v", err)
	}
	ctx := context.Background()

	data, err := p.Store(ctx, sampleShot())
	if err != nil {
		t.Fatalf("Store() error: %v", err)
	}
	got, err := p.Load(ctx, data)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !proteus.Equal(got, sampleShot()) {
		t.Errorf("Load() = %+v", got)
	}
}

func TestStateExcluded(t *testing.T) {
	c := New()
	s := sampleShot()
	proteus.SetUnknown(s, []byte{0x08, 0x01})

	data, err := c.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var keys map[string]any
	if err := c.Unmarshal(data, &keys); err != nil {
		t.Fatalf("Unmarshal(map) error: %v", err)
	}
	if len(keys) != 3 {
		t.Errorf("rendered keys = %v, want name, focus and stops only", keys)
	}

	var restored shot
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if len(proteus.Unknown(&restored)) != 0 {
		t.Errorf("unknown fields leaked through CBOR: % x", proteus.Unknown(&restored))
	}
}

func TestMarshal_Deterministic(t *testing.T) {
	c := New()

	a, err := c.Marshal(sampleShot())
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	b, err := c.Marshal(sampleShot())
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("equal records encoded differently:\n% x\n% x", a, b)
	}
}

func TestUnmarshal_Truncated(t *testing.T) {
	c := New()

	data, err := c.Marshal(sampleShot())
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var v shot
	if err := c.Unmarshal(data[:len(data)-1], &v); !errors.Is(err, proteus.ErrUnmarshal) {
		t.Errorf("Unmarshal(truncated) error = %v, want ErrUnmarshal", err)
	}
}
