package proteus

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// HashAlgo names a fingerprint algorithm.
type HashAlgo string

// Hash algorithms.
const (
	HashBlake2b HashAlgo = "blake2b"
	HashSHA256  HashAlgo = "sha256"
	HashSHA512  HashAlgo = "sha512"
)

// IsValidHashAlgo returns true if the algorithm is known.
func IsValidHashAlgo(algo HashAlgo) bool {
	_, ok := builtinHashers()[algo]
	return ok
}

// Hasher performs deterministic one-way hashing.
type Hasher interface {
	// Hash returns the hex-encoded digest of data.
	Hash(data []byte) (string, error)
}

// blake2bHasher implements BLAKE2b-256 hashing.
type blake2bHasher struct{}

// Blake2bHasher returns a BLAKE2b-256 hasher.
// The result is a hex-encoded 64-character string.
func Blake2bHasher() Hasher {
	return blake2bHasher{}
}

func (blake2bHasher) Hash(data []byte) (string, error) {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// sha256Hasher implements SHA-256 hashing.
type sha256Hasher struct{}

// SHA256Hasher returns a SHA-256 hasher.
// The result is a hex-encoded 64-character string.
func SHA256Hasher() Hasher {
	return sha256Hasher{}
}

func (sha256Hasher) Hash(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// sha512Hasher implements SHA-512 hashing.
type sha512Hasher struct{}

// SHA512Hasher returns a SHA-512 hasher.
// The result is a hex-encoded 128-character string.
func SHA512Hasher() Hasher {
	return sha512Hasher{}
}

func (sha512Hasher) Hash(data []byte) (string, error) {
	sum := sha512.Sum512(data)
	return hex.EncodeToString(sum[:]), nil
}

// builtinHashers returns the default hasher registry.
func builtinHashers() map[HashAlgo]Hasher {
	return map[HashAlgo]Hasher{
		HashBlake2b: Blake2bHasher(),
		HashSHA256:  SHA256Hasher(),
		HashSHA512:  SHA512Hasher(),
	}
}

// Fingerprint returns the BLAKE2b-256 digest of the wire encoding of r.
// Records that encode to the same bytes share a fingerprint. Equal records
// may not: -0 and 0 compare equal but encode differently.
func Fingerprint(r Record) (string, error) {
	return FingerprintWith(HashBlake2b, r)
}

// FingerprintWith returns the digest of the encoding of r using algo.
func FingerprintWith(algo HashAlgo, r Record) (string, error) {
	h, ok := builtinHashers()[algo]
	if !ok {
		return "", fmt.Errorf("unknown hash algorithm %q", algo)
	}
	data, err := MarshalOptions{AllowPartial: true}.Marshal(r)
	if err != nil {
		return "", err
	}
	return h.Hash(data)
}
