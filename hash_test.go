package proteus

import (
	"math"
	"testing"
)

func TestSHA256Hasher_Hash(t *testing.T) {
	h := SHA256Hasher()

	hash, err := h.Hash([]byte("hello"))
	if err != nil {
		t.Fatalf("Hash() error: %v", err)
	}

	// Known hash for "hello"
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if hash != want {
		t.Errorf("Hash() = %q, want %q", hash, want)
	}
}

func TestBlake2bHasher_Hash(t *testing.T) {
	h := Blake2bHasher()

	hash, err := h.Hash([]byte("hello"))
	if err != nil {
		t.Fatalf("Hash() error: %v", err)
	}

	// BLAKE2b-256 produces 64 hex characters
	if len(hash) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(hash))
	}

	again, _ := h.Hash([]byte("hello"))
	if hash != again {
		t.Error("BLAKE2b should be deterministic")
	}
}

func TestSHA512Hasher_Hash(t *testing.T) {
	hash, err := SHA512Hasher().Hash([]byte("hello"))
	if err != nil {
		t.Fatalf("Hash() error: %v", err)
	}

	// SHA-512 produces 128 hex characters
	if len(hash) != 128 {
		t.Errorf("Hash() length = %d, want 128", len(hash))
	}
}

func TestBuiltinHashers(t *testing.T) {
	hashers := builtinHashers()

	algos := []HashAlgo{HashBlake2b, HashSHA256, HashSHA512}
	for _, algo := range algos {
		if _, ok := hashers[algo]; !ok {
			t.Errorf("builtinHashers() missing %q", algo)
		}
		if !IsValidHashAlgo(algo) {
			t.Errorf("IsValidHashAlgo(%q) = false", algo)
		}
	}
	if IsValidHashAlgo("md5") {
		t.Error("IsValidHashAlgo(md5) = true")
	}
}

func TestFingerprint(t *testing.T) {
	a := &testCamera{Name: "main", Position: &testVector{Z: 5}}
	b := &testCamera{Name: "main", Position: &testVector{Z: 5}}

	fa, err := Fingerprint(a)
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	fb, _ := Fingerprint(b)
	if fa != fb {
		t.Error("equal records should share a fingerprint")
	}

	b.Position.Z = 6
	if fc, _ := Fingerprint(b); fc == fa {
		t.Error("different records should not share a fingerprint")
	}

	if _, err := FingerprintWith("md5", a); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}

func TestFingerprint_NegativeZero(t *testing.T) {
	pos := &testVector{X: float32(math.Copysign(0, -1))}
	zero := &testVector{}
	if !Equal(pos, zero) {
		t.Fatal("-0 and 0 should compare equal")
	}

	fp, _ := Fingerprint(pos)
	fz, _ := Fingerprint(zero)
	if fp == fz {
		t.Error("-0 is encoded and should not share the fingerprint of an empty record")
	}
}
