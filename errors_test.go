package proteus

import (
	"errors"
	"io"
	"testing"
)

func TestDecodeError_Is(t *testing.T) {
	err := newDecodeError("AiCamera.Position", 7, io.ErrUnexpectedEOF)

	if !errors.Is(err, ErrDecode) {
		t.Error("DecodeError should unwrap to ErrDecode")
	}
	if errors.Is(err, ErrSink) {
		t.Error("DecodeError should not match ErrSink")
	}

	var de *DecodeError
	if !errors.As(err, &de) || de.Path != "AiCamera.Position" || de.Offset != 7 {
		t.Errorf("errors.As() = %+v", de)
	}
}

func TestDecodeError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "full context",
			err:  newDecodeError("AiScene.Cameras[0]", 12, io.ErrUnexpectedEOF),
			want: "decode failed at AiScene.Cameras[0] (offset 12): unexpected EOF",
		},
		{
			name: "no path",
			err:  &DecodeError{Offset: 0, Cause: io.ErrUnexpectedEOF},
			want: "decode failed (offset 0): unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSinkError_Is(t *testing.T) {
	cause := errors.New("disk full")
	err := &SinkError{Op: "write", Cause: cause}

	if !errors.Is(err, ErrSink) {
		t.Error("SinkError should match ErrSink")
	}
	if !errors.Is(err, cause) {
		t.Error("SinkError should match its cause")
	}

	want := "write sink failed: disk full"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestRequiredError(t *testing.T) {
	err := &RequiredError{Paths: []string{"Frame.Origin", "Frame.Axis"}}

	if !errors.Is(err, ErrUninitialized) {
		t.Error("RequiredError should unwrap to ErrUninitialized")
	}

	want := "required field not set: Frame.Origin, Frame.Axis"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestSchemaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "with field",
			err:  newSchemaError(ErrInvalidTag, "AiCamera", "Up", "field number 0 out of range"),
			want: "invalid tag on AiCamera.Up: field number 0 out of range",
		},
		{
			name: "type only",
			err:  newSchemaError(ErrNotRecord, "Plain", "", "type does not embed proteus.State"),
			want: "not a record on Plain: type does not embed proteus.State",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}

	if !errors.Is(newSchemaError(ErrInvalidTag, "T", "F", "x"), ErrInvalidTag) {
		t.Error("SchemaError should unwrap to its sentinel")
	}
}

func TestCodecError_Is(t *testing.T) {
	err := newCodecError(ErrUnmarshal, errors.New("invalid json"))

	if !errors.Is(err, ErrUnmarshal) {
		t.Error("CodecError should unwrap to ErrUnmarshal")
	}
	if errors.Is(err, ErrMarshal) {
		t.Error("CodecError should not match ErrMarshal")
	}
}

func TestCodecError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "with cause",
			err:  newCodecError(ErrMarshal, errors.New("unsupported type")),
			want: "marshal failed: unsupported type",
		},
		{
			name: "without cause",
			err:  &CodecError{Err: ErrUnmarshal},
			want: "unmarshal failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
