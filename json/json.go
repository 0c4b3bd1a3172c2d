// Package json provides a JSON codec implementation.
//
// Records embed proteus.State, which carries no exported fields; tag it
// `json:"-"` so it is left out of the rendering.
package json

import (
	"encoding/json"

	"github.com/zoobzio/proteus"
)

// jsonCodec implements proteus.Codec for JSON.
type jsonCodec struct{}

// New returns a JSON codec.
func New() proteus.Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &proteus.CodecError{Err: proteus.ErrMarshal, Cause: err}
	}
	return data, nil
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &proteus.CodecError{Err: proteus.ErrUnmarshal, Cause: err}
	}
	return nil
}
