package proteus

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrDecode indicates malformed wire input (bad tag, truncated length,
	// invalid nested payload).
	ErrDecode = errors.New("decode failed")

	// ErrSink indicates the underlying byte sink or source failed.
	ErrSink = errors.New("sink failed")

	// ErrUninitialized indicates a required field was never set.
	ErrUninitialized = errors.New("required field not set")

	// ErrInvalidTag indicates a wire struct tag has an invalid format or value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrNoPresence indicates a presence query on a field without presence tracking.
	ErrNoPresence = errors.New("field has no presence")

	// ErrUnknownField indicates a field name or number not present in the schema.
	ErrUnknownField = errors.New("unknown field")

	// ErrNotRecord indicates a value that does not embed proteus.State.
	ErrNotRecord = errors.New("not a record")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")

	// ErrInvalidKey indicates an encryption key has invalid size or format.
	ErrInvalidKey = errors.New("invalid key")
)

// DecodeError describes malformed wire input. Path names the offending field
// (e.g. "AiScene.Cameras[0].Position") and Offset is the byte offset, from
// the start of the top-level input, of the element that failed to parse.
type DecodeError struct {
	Path   string
	Offset int
	Cause  error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString(ErrDecode.Error())
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	fmt.Fprintf(&b, " (offset %d)", e.Offset)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error {
	return ErrDecode
}

// SinkError wraps a failure of the byte sink or source. Both ErrSink and the
// original cause match with errors.Is.
type SinkError struct {
	Op    string // "read", "write", "open" or "close"
	Cause error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, ErrSink.Error(), e.Cause)
}

func (e *SinkError) Unwrap() []error {
	return []error{ErrSink, e.Cause}
}

// RequiredError lists required fields that were not set.
type RequiredError struct {
	Paths []string
}

func (e *RequiredError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUninitialized.Error(), strings.Join(e.Paths, ", "))
}

func (e *RequiredError) Unwrap() error {
	return ErrUninitialized
}

// SchemaError represents an invalid record definition.
// It wraps a sentinel error with context about the type and field.
type SchemaError struct {
	Err    error  // Underlying sentinel error (ErrInvalidTag, ErrNotRecord)
	Type   string // Record type name
	Field  string // Go field name, if any
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s on %s.%s: %s", e.Err.Error(), e.Type, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s on %s: %s", e.Err.Error(), e.Type, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error from a Codec provider.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newDecodeError creates a DecodeError at the given path and offset.
func newDecodeError(path string, offset int, cause error) error {
	return &DecodeError{
		Path:   path,
		Offset: offset,
		Cause:  cause,
	}
}

// newSchemaError creates a SchemaError for an invalid record definition.
func newSchemaError(sentinel error, typ, field, reason string) error {
	return &SchemaError{
		Err:    sentinel,
		Type:   typ,
		Field:  field,
		Reason: reason,
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
