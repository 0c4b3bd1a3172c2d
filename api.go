// Package proteus provides a schema-driven binary record codec.
//
// Records are plain Go structs that embed State and tag their fields with a
// stable field number. The schema for a record type is derived once from its
// struct tags and reused by generic size, encode, decode, merge, copy, swap
// and equality algorithms.
//
// # Declaring Records
//
//	type Vector3D struct {
//	    proteus.State `json:"-" yaml:"-"`
//	    X float32 `wire:"1"`
//	    Y float32 `wire:"2"`
//	    Z float32 `wire:"3"`
//	}
//
//	type Camera struct {
//	    proteus.State `json:"-" yaml:"-"`
//	    Name     string    `wire:"1"`
//	    Position *Vector3D `wire:"2"`
//	    FOV      float32   `wire:"5"`
//	}
//
// # Tag Syntax
//
//	wire:"{number}[,{kind}][,req]"
//
// The kind is inferred from the Go type when omitted:
//
//	bool                  - bool (varint)
//	int32, int64          - int32, int64 (varint)
//	uint32, uint64        - uint32, uint64 (varint)
//	float32, float64      - float, double (fixed32, fixed64)
//	string, []byte        - string, bytes (length-delimited)
//	*T (T a record)       - message (length-delimited)
//
// Explicit kinds override the encoding of integers: sint32, sint64 (zigzag),
// fixed32, fixed64, sfixed32, sfixed64.
//
// # Presence
//
// Plain scalars have no presence: the zero value is never written and a
// field that was explicitly set to zero cannot be told apart from one that
// was never set. Pointer scalars (*float32, *string, ...) and nested records
// (*T) track presence: nil means absent. Slices are repeated fields.
//
// # Wire Format
//
// The encoding is the protobuf binary format: a varint tag
// (number<<3 | wire type) followed by a varint, fixed-width little-endian,
// or length-prefixed payload. Fields are written in ascending number order
// followed by any unknown fields captured during decoding, so encoding is
// deterministic for a given set of values.
//
// # Basic Usage
//
//	cam := &Camera{Name: "main", FOV: 60}
//	cam.Position = &Vector3D{Z: 5}
//
//	data, err := proteus.Marshal(cam)
//
//	var out Camera
//	err = proteus.Unmarshal(data, &out)
//
// # Arenas
//
// Records may be bulk-allocated from an Arena. Ownership transfers between
// arenas (Adopt, Detach, Swap) duplicate the record when the two sides use
// different arenas.
//
// # Codec Providers
//
// Binary() adapts the wire format to the Codec interface. Alternate
// renderings are available as subpackages:
//
//   - json - JSON encoding (application/json)
//   - xml - XML encoding (application/xml)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
//   - cbor - CBOR encoding (application/cbor)
//   - cbor - CBOR encoding (application/cbor)
package proteus

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
