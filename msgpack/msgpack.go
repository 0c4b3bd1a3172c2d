// Package msgpack provides a MessagePack codec implementation.
//
// Records embed proteus.State, which carries no exported fields; tag it
// `msgpack:"-"` so it is left out of the rendering.
package msgpack

import (
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/proteus"
)

// msgpackCodec implements proteus.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() proteus.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, &proteus.CodecError{Err: proteus.ErrMarshal, Cause: err}
	}
	return data, nil
}

// Unmarshal decodes MessagePack data into v.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return &proteus.CodecError{Err: proteus.ErrUnmarshal, Cause: err}
	}
	return nil
}
