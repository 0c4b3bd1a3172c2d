package testing

import (
	"testing"

	"github.com/zoobzio/proteus"
)

func TestTestKey(t *testing.T) {
	key := TestKey(t)
	if len(key) != 32 {
		t.Errorf("TestKey() length = %d, want 32", len(key))
	}
}

func TestTestEncryptor(t *testing.T) {
	enc := TestEncryptor(t)
	if enc == nil {
		t.Fatal("TestEncryptor() should not return nil")
	}

	plaintext := []byte("test")
	ciphertext, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}

	decrypted, err := enc.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt() error: %v", err)
	}

	if string(decrypted) != string(plaintext) {
		t.Errorf("round-trip failed")
	}
}

func TestSampleScene_Valid(t *testing.T) {
	s := SampleScene()
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
	if s.NumCameras() != 3 {
		t.Errorf("NumCameras() = %d, want 3", s.NumCameras())
	}
	if !s.Camera("plan").IsOrthographic() {
		t.Error("plan camera should be orthographic")
	}
}

func TestLargeScene_Arena(t *testing.T) {
	a := proteus.NewArena()
	s := LargeScene(100, a)

	if s.NumCameras() != 100 {
		t.Fatalf("NumCameras() = %d, want 100", s.NumCameras())
	}
	for _, c := range s.Cameras {
		if !a.Owns(c) || !a.Owns(c.Position) {
			t.Fatalf("camera %q not allocated from the arena", c.Name)
		}
	}
	if got := s.Cameras[42].GetPosition().X; got != 42 {
		t.Errorf("Cameras[42].Position.X = %v, want 42", got)
	}
}
