// Package cbor provides a deterministic CBOR codec implementation.
//
// Records embed proteus.State, which carries no exported fields; tag it
// `cbor:"-"` so it is left out of the rendering.
package cbor

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/zoobzio/proteus"
)

// cborCodec implements proteus.Codec with canonical encoding, so equal
// records always produce equal bytes.
type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// New returns a CBOR codec using the canonical (core deterministic) profile.
func New() proteus.Codec {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(err)
	}
	return &cborCodec{enc: em, dec: dm}
}

// ContentType returns the MIME type for CBOR.
func (c *cborCodec) ContentType() string {
	return "application/cbor"
}

// Marshal encodes v as CBOR.
func (c *cborCodec) Marshal(v any) ([]byte, error) {
	data, err := c.enc.Marshal(v)
	if err != nil {
		return nil, &proteus.CodecError{Err: proteus.ErrMarshal, Cause: err}
	}
	return data, nil
}

// Unmarshal decodes CBOR data into v.
func (c *cborCodec) Unmarshal(data []byte, v any) error {
	if err := c.dec.Unmarshal(data, v); err != nil {
		return &proteus.CodecError{Err: proteus.ErrUnmarshal, Cause: err}
	}
	return nil
}
