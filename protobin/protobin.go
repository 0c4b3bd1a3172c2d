// Package protobin reads and writes scene files in the binary dump format.
//
// A file holds one encoded scene in one of three layouts:
//
//	framed: "ASSIMP.binaryProto-dump." | uint32 LE length | payload
//	sealed: "ASSIMP.binaryProto-seal." | uint32 LE length | AES-GCM(payload)
//	raw:    payload
//
// The framed layout is what scene importers recognize; raw files carry no
// header at all and are detected by elimination.
package protobin

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/zoobzio/proteus"
	"github.com/zoobzio/proteus/scene"
)

// File signatures.
const (
	Magic       = "ASSIMP.binaryProto-dump."
	SealedMagic = "ASSIMP.binaryProto-seal."
)

// headerSize is the magic plus the length prefix.
const headerSize = len(Magic) + 4

// Extension is the customary file extension.
const Extension = ".protobin"

var (
	// ErrSealed indicates a sealed file read without an encryptor.
	ErrSealed = errors.New("protobin: file is sealed")

	// ErrTooLarge indicates a payload that does not fit the length prefix.
	ErrTooLarge = errors.New("protobin: payload exceeds 4 GiB")

	errShortHeader = errors.New("truncated header")
	errOverrun     = errors.New("declared length exceeds input")
)

// Format is a file layout.
type Format int

const (
	FormatRaw Format = iota
	FormatFramed
	FormatSealed
)

func (f Format) String() string {
	switch f {
	case FormatFramed:
		return "framed"
	case FormatSealed:
		return "sealed"
	default:
		return "raw"
	}
}

// Sniff reports the layout of a file from its leading bytes.
func Sniff(header []byte) Format {
	switch {
	case bytes.HasPrefix(header, []byte(Magic)):
		return FormatFramed
	case bytes.HasPrefix(header, []byte(SealedMagic)):
		return FormatSealed
	default:
		return FormatRaw
	}
}

type options struct {
	framed    bool
	encryptor proteus.Encryptor
	arena     *proteus.Arena
}

// Option configures reading and writing.
type Option func(*options)

// WithFraming selects the framed layout (the default) or the raw layout
// when writing. It has no effect on sealed output, which is always framed.
func WithFraming(framed bool) Option {
	return func(o *options) { o.framed = framed }
}

// WithEncryptor seals written payloads and opens sealed files on read.
func WithEncryptor(enc proteus.Encryptor) Option {
	return func(o *options) { o.encryptor = enc }
}

// WithArena allocates the decoded scene and all of its records from a.
func WithArena(a *proteus.Arena) Option {
	return func(o *options) { o.arena = a }
}

func buildOptions(opts []Option) options {
	o := options{framed: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func processor(o options) (*proteus.Processor[scene.AiScene], error) {
	p, err := proteus.NewProcessor[scene.AiScene](proteus.Binary())
	if err != nil {
		return nil, err
	}
	return p.SetEncryptor(o.encryptor), nil
}

// Marshal returns the file bytes for s.
func Marshal(ctx context.Context, s *scene.AiScene, opts ...Option) ([]byte, error) {
	o := buildOptions(opts)
	p, err := processor(o)
	if err != nil {
		return nil, err
	}
	payload, err := p.Store(ctx, s)
	if err != nil {
		return nil, err
	}

	magic := Magic
	switch {
	case o.encryptor != nil:
		magic = SealedMagic
	case !o.framed:
		return payload, nil
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, ErrTooLarge
	}

	buf := make([]byte, 0, headerSize+len(payload))
	buf = append(buf, magic...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(payload)))
	return append(buf, payload...), nil
}

// Write encodes s to w in a single write. Writer failures are reported as
// *proteus.SinkError.
func Write(ctx context.Context, w io.Writer, s *scene.AiScene, opts ...Option) error {
	data, err := Marshal(ctx, s, opts...)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return &proteus.SinkError{Op: "write", Cause: err}
	}
	return nil
}

// WriteFile writes s to path, replacing any existing file.
func WriteFile(ctx context.Context, path string, s *scene.AiScene, opts ...Option) (err error) {
	data, err := Marshal(ctx, s, opts...)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o664)
	if err != nil {
		return &proteus.SinkError{Op: "open", Cause: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &proteus.SinkError{Op: "close", Cause: cerr}
		}
	}()
	if _, err := f.Write(data); err != nil {
		return &proteus.SinkError{Op: "write", Cause: err}
	}
	return nil
}

// Unmarshal decodes file bytes in any layout. Decode errors carry offsets
// from the start of data, header included. Bytes after a framed payload are
// ignored.
func Unmarshal(ctx context.Context, data []byte, opts ...Option) (*scene.AiScene, error) {
	o := buildOptions(opts)

	format := Sniff(data)
	payload, base := data, 0
	if format != FormatRaw {
		var err error
		if payload, err = unframe(data); err != nil {
			return nil, err
		}
		base = headerSize
	}

	switch {
	case format == FormatSealed && o.encryptor == nil:
		return nil, ErrSealed
	case format != FormatSealed:
		// An encryptor only applies to sealed payloads.
		o.encryptor = nil
	}

	p, err := processor(o)
	if err != nil {
		return nil, err
	}
	s, err := p.LoadIn(ctx, payload, o.arena)
	if err != nil {
		var de *proteus.DecodeError
		if format != FormatSealed && errors.As(err, &de) {
			de.Offset += base
		}
		return nil, err
	}
	return s, nil
}

// Read reads all of r and decodes it. Reader failures are reported as
// *proteus.SinkError.
func Read(ctx context.Context, r io.Reader, opts ...Option) (*scene.AiScene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &proteus.SinkError{Op: "read", Cause: err}
	}
	return Unmarshal(ctx, data, opts...)
}

// ReadFile reads and decodes the file at path.
func ReadFile(ctx context.Context, path string, opts ...Option) (*scene.AiScene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &proteus.SinkError{Op: "read", Cause: err}
	}
	return Unmarshal(ctx, data, opts...)
}

// Payload returns the record encoding held by data along with its layout.
// Sealed payloads are opened with the configured encryptor.
func Payload(data []byte, opts ...Option) ([]byte, Format, error) {
	o := buildOptions(opts)
	format := Sniff(data)
	if format == FormatRaw {
		return data, format, nil
	}
	payload, err := unframe(data)
	if err != nil {
		return nil, format, err
	}
	if format == FormatSealed {
		if o.encryptor == nil {
			return nil, format, ErrSealed
		}
		if payload, err = o.encryptor.Decrypt(payload); err != nil {
			return nil, format, fmt.Errorf("decrypt: %w", err)
		}
	}
	return payload, format, nil
}

// unframe returns the payload of a framed or sealed file.
func unframe(data []byte) ([]byte, error) {
	if len(data) < headerSize {
		return nil, &proteus.DecodeError{Path: "header", Offset: len(Magic), Cause: errShortHeader}
	}
	n := binary.LittleEndian.Uint32(data[len(Magic):headerSize])
	rest := data[headerSize:]
	if uint64(n) > uint64(len(rest)) {
		return nil, &proteus.DecodeError{
			Path:   "header",
			Offset: len(Magic),
			Cause:  fmt.Errorf("%w: %d > %d", errOverrun, n, len(rest)),
		}
	}
	return rest[:n], nil
}
