package proteus

import "fmt"

// BinaryContentType is the MIME type of the wire format.
const BinaryContentType = "application/x-proteus"

// binaryCodec implements Codec for the wire format.
type binaryCodec struct{}

// Binary returns a Codec for the wire format. Values passed to Marshal and
// Unmarshal must be records.
func Binary() Codec {
	return binaryCodec{}
}

// ContentType returns the MIME type of the wire format.
func (binaryCodec) ContentType() string {
	return BinaryContentType
}

// Marshal encodes the record v.
func (binaryCodec) Marshal(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	r, ok := v.(Record)
	if !ok {
		return nil, newCodecError(ErrMarshal, fmt.Errorf("%w: %T", ErrNotRecord, v))
	}
	return Marshal(r)
}

// Unmarshal decodes data into the record v.
func (binaryCodec) Unmarshal(data []byte, v any) error {
	r, ok := v.(Record)
	if !ok {
		return newCodecError(ErrUnmarshal, fmt.Errorf("%w: %T", ErrNotRecord, v))
	}
	return Unmarshal(data, r)
}
