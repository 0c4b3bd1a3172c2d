package proteus

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for codec events.
var (
	SignalSchemaBuilt       = capitan.NewSignal("proteus.schema.built", "Record schema built and cached")
	SignalMarshalComplete   = capitan.NewSignal("proteus.marshal.complete", "Record encoded to a writer")
	SignalUnmarshalComplete = capitan.NewSignal("proteus.unmarshal.complete", "Record decoded from a reader")
	SignalProcessorCreated  = capitan.NewSignal("proteus.processor.created", "Processor instantiated")
	SignalLoadStart         = capitan.NewSignal("proteus.load.start", "Load operation beginning")
	SignalLoadComplete      = capitan.NewSignal("proteus.load.complete", "Load operation finished")
	SignalStoreStart        = capitan.NewSignal("proteus.store.start", "Store operation beginning")
	SignalStoreComplete     = capitan.NewSignal("proteus.store.complete", "Store operation finished")
)

// Keys for typed event data.
var (
	KeyContentType = capitan.NewStringKey("content_type")
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeyFieldCount  = capitan.NewIntKey("field_count")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitSchemaBuilt emits an event when a record schema is cached.
func emitSchemaBuilt(ctx context.Context, typeName string, fields int) {
	capitan.Emit(ctx, SignalSchemaBuilt,
		KeyTypeName.Field(typeName),
		KeyFieldCount.Field(fields),
	)
}

// emitMarshalComplete emits an event when Encode finishes.
func emitMarshalComplete(ctx context.Context, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalMarshalComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalMarshalComplete, fields...)
	}
}

// emitUnmarshalComplete emits an event when Decode finishes.
func emitUnmarshalComplete(ctx context.Context, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalUnmarshalComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalUnmarshalComplete, fields...)
	}
}

// emitProcessorCreated emits an event when a processor is created.
func emitProcessorCreated(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalProcessorCreated,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitLoadStart emits an event when load begins.
func emitLoadStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalLoadStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitLoadComplete emits an event when load finishes.
func emitLoadComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalLoadComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalLoadComplete, fields...)
	}
}

// emitStoreStart emits an event when store begins.
func emitStoreStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalStoreStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitStoreComplete emits an event when store finishes.
func emitStoreComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalStoreComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalStoreComplete, fields...)
	}
}
