package proteus

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"
)

// Processor provides typed, codec-agnostic storage of one record type.
// Store encodes (and optionally seals) a record; Load reverses it.
//
// Processors are safe for concurrent use. SetEncryptor may be called at any
// time to install or rotate the sealing key.
type Processor[T any] struct {
	codec Codec

	// Mutable configuration protected by mu
	mu        sync.RWMutex
	encryptor Encryptor

	schema   *Schema
	typeName string
}

// NewProcessor creates a new Processor for record type T. The schema of T is
// built and validated here, so tag errors surface at construction.
func NewProcessor[T any](codec Codec) (*Processor[T], error) {
	if _, ok := any(new(T)).(Record); !ok {
		return nil, newSchemaError(ErrNotRecord, reflect.TypeFor[T]().String(), "", "type does not embed proteus.State")
	}

	schema, err := SchemaOf[T]()
	if err != nil {
		return nil, err
	}

	p := &Processor[T]{
		codec:    codec,
		schema:   schema,
		typeName: schema.TypeName,
	}

	emitProcessorCreated(context.Background(), codec.ContentType(), p.typeName)
	return p, nil
}

// SetEncryptor installs an encryptor that seals stored payloads. A nil
// encryptor disables sealing. Returns the processor for chaining.
func (p *Processor[T]) SetEncryptor(enc Encryptor) *Processor[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.encryptor = enc
	return p
}

// Schema returns the schema of T.
func (p *Processor[T]) Schema() *Schema {
	return p.schema
}

// ContentType returns the content type of the underlying codec.
func (p *Processor[T]) ContentType() string {
	return p.codec.ContentType()
}

// Store encodes obj with the codec and seals the result when an encryptor
// is configured.
func (p *Processor[T]) Store(ctx context.Context, obj *T) ([]byte, error) {
	start := time.Now()
	emitStoreStart(ctx, p.codec.ContentType(), p.typeName)

	var retErr error
	var retData []byte
	defer func() {
		emitStoreComplete(ctx, p.codec.ContentType(), p.typeName,
			len(retData), time.Since(start), retErr)
	}()

	var v any
	if obj != nil {
		v = obj
	}
	data, err := p.codec.Marshal(v)
	if err != nil {
		retErr = fmt.Errorf("marshal: %w", err)
		return nil, retErr
	}

	p.mu.RLock()
	enc := p.encryptor
	p.mu.RUnlock()

	if enc != nil {
		data, err = enc.Encrypt(data)
		if err != nil {
			retErr = fmt.Errorf("encrypt: %w", err)
			return nil, retErr
		}
	}

	retData = data
	return retData, nil
}

// Load opens data when an encryptor is configured and decodes it into a new
// heap-owned record.
func (p *Processor[T]) Load(ctx context.Context, data []byte) (*T, error) {
	return p.LoadIn(ctx, data, nil)
}

// LoadIn is Load with the record and its nested records allocated from a.
// Nothing is allocated from a when loading fails.
func (p *Processor[T]) LoadIn(ctx context.Context, data []byte, a *Arena) (*T, error) {
	start := time.Now()
	emitLoadStart(ctx, p.codec.ContentType(), p.typeName)

	var retErr error
	defer func() {
		emitLoadComplete(ctx, p.codec.ContentType(), p.typeName,
			len(data), time.Since(start), retErr)
	}()

	p.mu.RLock()
	enc := p.encryptor
	p.mu.RUnlock()

	payload := data
	if enc != nil {
		var err error
		payload, err = enc.Decrypt(data)
		if err != nil {
			retErr = fmt.Errorf("decrypt: %w", err)
			return nil, retErr
		}
	}

	obj := new(T)
	if err := p.codec.Unmarshal(payload, obj); err != nil {
		retErr = fmt.Errorf("unmarshal: %w", err)
		return nil, retErr
	}
	if a != nil {
		obj = CloneInto(a, any(obj).(Record)).(*T)
	}

	return obj, nil
}
