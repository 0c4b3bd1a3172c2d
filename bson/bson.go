// Package bson provides a BSON codec implementation.
//
// Records embed proteus.State, which carries no exported fields; tag it
// `bson:"-"` so it is left out of the rendering.
package bson

import (
	"github.com/zoobzio/proteus"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements proteus.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() proteus.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as BSON.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, &proteus.CodecError{Err: proteus.ErrMarshal, Cause: err}
	}
	return data, nil
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	if err := bson.Unmarshal(data, v); err != nil {
		return &proteus.CodecError{Err: proteus.ErrUnmarshal, Cause: err}
	}
	return nil
}
