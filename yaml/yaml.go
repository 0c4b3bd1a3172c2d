// Package yaml provides a YAML codec implementation.
//
// Records embed proteus.State, which carries no exported fields; tag it
// `yaml:"-"` so it is left out of the rendering.
package yaml

import (
	"github.com/zoobzio/proteus"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements proteus.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
func New() proteus.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, &proteus.CodecError{Err: proteus.ErrMarshal, Cause: err}
	}
	return data, nil
}

// Unmarshal decodes YAML data into v.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return &proteus.CodecError{Err: proteus.ErrUnmarshal, Cause: err}
	}
	return nil
}
