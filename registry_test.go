package proteus_test

import (
	"errors"
	"testing"

	"github.com/zoobzio/proteus"
	"github.com/zoobzio/proteus/json"
)

type cacheTestRecord struct {
	proteus.State `json:"-"`
	Name          string `json:"name" wire:"1"`
}

func TestUse_Caching(t *testing.T) {
	proteus.ResetRegistry()

	p1, err := proteus.Use[cacheTestRecord](json.New())
	if err != nil {
		t.Fatalf("Use() error: %v", err)
	}

	p2, err := proteus.Use[cacheTestRecord](json.New())
	if err != nil {
		t.Fatalf("Use() error: %v", err)
	}

	if p1 != p2 {
		t.Error("Use() should return cached processor")
	}
}

func TestUse_DifferentCodecs(t *testing.T) {
	proteus.ResetRegistry()

	p1, _ := proteus.Use[cacheTestRecord](json.New())
	p2, _ := proteus.Use[cacheTestRecord](proteus.Binary())

	if p1 == p2 {
		t.Error("different content types should get separate processors")
	}
	if p2.ContentType() != proteus.BinaryContentType {
		t.Errorf("ContentType() = %q, want %q", p2.ContentType(), proteus.BinaryContentType)
	}
	if p1.Schema() != p2.Schema() {
		t.Error("processors of one type should share the cached schema")
	}
}

func TestUse_NotRecord(t *testing.T) {
	proteus.ResetRegistry()

	type plain struct{ Name string }
	_, err := proteus.Use[plain](json.New())
	if !errors.Is(err, proteus.ErrNotRecord) {
		t.Errorf("Use() error = %v, want ErrNotRecord", err)
	}
}

func TestResetRegistry(t *testing.T) {
	p1, _ := proteus.Use[cacheTestRecord](json.New())

	proteus.ResetRegistry()

	p2, _ := proteus.Use[cacheTestRecord](json.New())

	if p1 == p2 {
		t.Error("ResetRegistry() should clear cache, new processor expected")
	}
}
