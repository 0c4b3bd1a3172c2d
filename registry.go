package proteus

import (
	"context"
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
)

var (
	schemas   = make(map[reflect.Type]*Schema)
	schemasMu sync.RWMutex
)

// SchemaOf returns the schema of record type T, building and caching it on
// first use. Call it at startup to surface tag errors early.
func SchemaOf[T any]() (*Schema, error) {
	rt := reflect.TypeFor[T]()

	// Fast path: read-lock cache check
	schemasMu.RLock()
	if s, ok := schemas[rt]; ok {
		schemasMu.RUnlock()
		return s, nil
	}
	schemasMu.RUnlock()

	if !isRecordStruct(rt) {
		return nil, newSchemaError(ErrNotRecord, rt.String(), "", "type does not embed proteus.State")
	}
	return buildAndCache(rt, func() sentinel.Metadata { return sentinel.Scan[T]() })
}

// schemaOf returns the cached schema of rt, building it if needed.
func schemaOf(rt reflect.Type) (*Schema, error) {
	schemasMu.RLock()
	if s, ok := schemas[rt]; ok {
		schemasMu.RUnlock()
		return s, nil
	}
	schemasMu.RUnlock()

	if rt.Kind() != reflect.Struct {
		return nil, newSchemaError(ErrNotRecord, rt.String(), "", "not a struct")
	}
	return buildAndCache(rt, func() sentinel.Metadata { return scanNestedType(rt) })
}

// buildAndCache builds the schema graph rooted at rt under the write lock.
func buildAndCache(rt reflect.Type, scan func() sentinel.Metadata) (*Schema, error) {
	s, built, err := buildLocked(rt, scan)
	if err != nil {
		return nil, err
	}
	for _, b := range built {
		emitSchemaBuilt(context.Background(), b.TypeName, len(b.Fields))
	}
	return s, nil
}

// buildLocked builds under the write lock and returns the newly cached schemas.
func buildLocked(rt reflect.Type, scan func() sentinel.Metadata) (*Schema, []*Schema, error) {
	schemasMu.Lock()
	defer schemasMu.Unlock()

	// Double-check pattern
	if s, ok := schemas[rt]; ok {
		return s, nil, nil
	}

	b := &schemaBuilder{
		cached:   func(t reflect.Type) *Schema { return schemas[t] },
		building: make(map[reflect.Type]*Schema),
	}
	s, err := b.build(rt, scan())
	if err != nil {
		return nil, nil, err
	}

	built := make([]*Schema, 0, len(b.building))
	for t, bs := range b.building {
		schemas[t] = bs
		built = append(built, bs)
	}
	return s, built, nil
}

// mustSchema is schemaOf for operations without an error return.
// Tag errors are programming errors and panic with the *SchemaError.
func mustSchema(rt reflect.Type) *Schema {
	s, err := schemaOf(rt)
	if err != nil {
		panic(err)
	}
	return s
}

// registryKey combines type and codec for processor lookup.
type registryKey struct {
	typ         reflect.Type
	contentType string
}

var (
	registry   = make(map[registryKey]any)
	registryMu sync.RWMutex
)

// Use returns a cached processor or builds a new one.
// The processor is cached by type and codec content type.
func Use[T any](codec Codec) (*Processor[T], error) {
	typ := reflect.TypeFor[T]()
	key := registryKey{typ: typ, contentType: codec.ContentType()}

	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[key]; ok {
		registryMu.RUnlock()
		return cached.(*Processor[T]), nil
	}
	registryMu.RUnlock()

	// Slow path: build and cache with write-lock
	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern
	if cached, ok := registry[key]; ok {
		return cached.(*Processor[T]), nil
	}

	processor, err := NewProcessor[T](codec)
	if err != nil {
		return nil, err
	}

	registry[key] = processor
	return processor, nil
}

// ResetRegistry clears the processor registry.
// This is primarily useful for test isolation. Schemas are immutable and
// stay cached.
func ResetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[registryKey]any)
}
