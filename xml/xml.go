// Package xml provides an XML codec implementation.
//
// Records embed proteus.State, which carries no exported fields; tag it
// `xml:"-"` so it is left out of the rendering.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/proteus"
)

// xmlCodec implements proteus.Codec for XML.
type xmlCodec struct{}

// New returns an XML codec.
func New() proteus.Codec {
	return &xmlCodec{}
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as XML.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	data, err := xml.Marshal(v)
	if err != nil {
		return nil, &proteus.CodecError{Err: proteus.ErrMarshal, Cause: err}
	}
	return data, nil
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	if err := xml.Unmarshal(data, v); err != nil {
		return &proteus.CodecError{Err: proteus.ErrUnmarshal, Cause: err}
	}
	return nil
}
