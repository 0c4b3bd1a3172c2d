package proteus

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/zoobzio/sentinel"
	"google.golang.org/protobuf/encoding/protowire"
)

func init() {
	// Register the wire tag with sentinel
	sentinel.Tag("wire")
}

// Field describes one field of a record schema.
type Field struct {
	Number      protowire.Number
	Name        string // Go field name
	Kind        Kind
	Cardinality Cardinality
	Required    bool

	index  []int        // reflect.Value.FieldByIndex access path
	goType reflect.Type // scalar or record struct type after pointer/slice unwrapping
	elem   *Schema      // nested schema for KindMessage
}

// Message returns the nested schema of a message field, or nil.
func (f *Field) Message() *Schema {
	return f.elem
}

// accepts reports whether a value with wire type typ can be decoded into f.
func (f *Field) accepts(typ protowire.Type) bool {
	if typ == f.Kind.WireType() {
		return true
	}
	return f.Cardinality == Repeated && f.Kind.packable() && typ == protowire.BytesType
}

// Schema is the static field descriptor list of a record type.
// Schemas are immutable after construction and safe to share.
type Schema struct {
	TypeName string
	Fields   []*Field // ascending by Number

	typ      reflect.Type
	byNumber map[protowire.Number]*Field
	byName   map[string]*Field
	hooks    hookSet
}

// FieldByNumber returns the field with the given number, or nil.
func (s *Schema) FieldByNumber(n protowire.Number) *Field {
	return s.byNumber[n]
}

// FieldByName returns the field with the given Go name, or nil.
func (s *Schema) FieldByName(name string) *Field {
	return s.byName[name]
}

// wireTag is a parsed `wire` struct tag.
type wireTag struct {
	number   protowire.Number
	kind     Kind
	required bool
}

// parseWireTag parses `{number}[,{kind}][,req]`.
func parseWireTag(raw string) (wireTag, error) {
	parts := strings.Split(raw, ",")
	n, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 32)
	if err != nil {
		return wireTag{}, fmt.Errorf("field number %q: %w", parts[0], err)
	}
	tag := wireTag{number: protowire.Number(n)}
	if !tag.number.IsValid() {
		return wireTag{}, fmt.Errorf("field number %d out of range", n)
	}
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		switch {
		case p == "req":
			tag.required = true
		case IsValidKind(Kind(p)):
			if tag.kind != "" {
				return wireTag{}, fmt.Errorf("kind given twice (%s, %s)", tag.kind, p)
			}
			tag.kind = Kind(p)
		default:
			return wireTag{}, fmt.Errorf("unknown option %q", p)
		}
	}
	return tag, nil
}

var recordType = reflect.TypeOf((*Record)(nil)).Elem()

// isRecordStruct reports whether t is a struct whose pointer implements Record.
func isRecordStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && reflect.PointerTo(t).Implements(recordType)
}

// schemaBuilder builds schemas for a type graph. In-progress schemas are kept
// so that self-referencing records resolve to the same descriptor.
type schemaBuilder struct {
	cached   func(reflect.Type) *Schema
	building map[reflect.Type]*Schema
}

// build creates the schema for rt from sentinel metadata.
func (b *schemaBuilder) build(rt reflect.Type, meta sentinel.Metadata) (*Schema, error) {
	if !isRecordStruct(rt) {
		return nil, newSchemaError(ErrNotRecord, rt.String(), "", "type does not embed proteus.State")
	}

	s := &Schema{
		TypeName: rt.Name(),
		typ:      rt,
		byNumber: make(map[protowire.Number]*Field),
		byName:   make(map[string]*Field),
		hooks:    hooksFor(rt),
	}
	b.building[rt] = s

	for _, field := range meta.Fields {
		if field.ReflectType == stateType {
			continue
		}
		raw, ok := field.Tags["wire"]
		if !ok {
			continue
		}

		tag, err := parseWireTag(raw)
		if err != nil {
			return nil, newSchemaError(ErrInvalidTag, s.TypeName, field.Name, err.Error())
		}
		if prev, dup := s.byNumber[tag.number]; dup {
			return nil, newSchemaError(ErrInvalidTag, s.TypeName, field.Name,
				fmt.Sprintf("field number %d already used by %s", tag.number, prev.Name))
		}

		f, err := b.describe(s.TypeName, field.Name, field.ReflectType, tag)
		if err != nil {
			return nil, err
		}
		f.Number = tag.number
		f.Name = field.Name
		f.index = append([]int{}, field.Index...)

		s.Fields = append(s.Fields, f)
		s.byNumber[f.Number] = f
		s.byName[f.Name] = f
	}

	sort.Slice(s.Fields, func(i, j int) bool {
		return s.Fields[i].Number < s.Fields[j].Number
	})
	return s, nil
}

// describe resolves kind and cardinality of a Go field type.
func (b *schemaBuilder) describe(typeName, fieldName string, ft reflect.Type, tag wireTag) (*Field, error) {
	f := &Field{Required: tag.required}

	switch {
	case ft.Kind() == reflect.Ptr:
		f.Cardinality = Optional
		ft = ft.Elem()
	case ft.Kind() == reflect.Slice && ft.Elem().Kind() != reflect.Uint8:
		f.Cardinality = Repeated
		ft = ft.Elem()
		if ft.Kind() == reflect.Ptr && isRecordStruct(ft.Elem()) {
			ft = ft.Elem()
		} else if ft.Kind() == reflect.Struct {
			return nil, newSchemaError(ErrInvalidTag, typeName, fieldName, "repeated records must be pointers")
		}
	case ft.Kind() == reflect.Struct:
		return nil, newSchemaError(ErrInvalidTag, typeName, fieldName, "nested records must be pointers")
	}

	if f.Required && f.Cardinality != Optional {
		return nil, newSchemaError(ErrInvalidTag, typeName, fieldName, "req needs a pointer field to track presence")
	}

	if isRecordStruct(ft) {
		if tag.kind != "" && tag.kind != KindMessage {
			return nil, newSchemaError(ErrInvalidTag, typeName, fieldName,
				fmt.Sprintf("kind %s does not apply to a record", tag.kind))
		}
		elem, err := b.resolve(ft)
		if err != nil {
			return nil, err
		}
		f.Kind = KindMessage
		f.goType = ft
		f.elem = elem
		return f, nil
	}

	kinds := kindsFor(ft)
	if len(kinds) == 0 {
		return nil, newSchemaError(ErrInvalidTag, typeName, fieldName,
			fmt.Sprintf("unsupported type %s", ft))
	}
	f.Kind = kinds[0]
	if tag.kind != "" {
		if !containsKind(kinds, tag.kind) {
			return nil, newSchemaError(ErrInvalidTag, typeName, fieldName,
				fmt.Sprintf("kind %s does not apply to %s", tag.kind, ft))
		}
		f.Kind = tag.kind
	}
	f.goType = ft
	return f, nil
}

// resolve returns the schema of a nested record type, building it if needed.
func (b *schemaBuilder) resolve(rt reflect.Type) (*Schema, error) {
	if s := b.cached(rt); s != nil {
		return s, nil
	}
	if s, ok := b.building[rt]; ok {
		return s, nil
	}
	return b.build(rt, scanNestedType(rt))
}

func containsKind(kinds []Kind, k Kind) bool {
	for _, candidate := range kinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// scanNestedType returns struct metadata for rt, preferring sentinel's cache.
func scanNestedType(rt reflect.Type) sentinel.Metadata {
	if meta, ok := sentinel.Lookup(rt.String()); ok && metadataMatches(rt, meta) {
		return meta
	}

	meta := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        parseWireTags(sf.Tag),
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		meta.Fields = append(meta.Fields, fm)
	}

	return meta
}

// metadataMatches guards against a cached entry for a different type that
// happens to share rt's string form.
func metadataMatches(rt reflect.Type, meta sentinel.Metadata) bool {
	tagged := 0
	for i := 0; i < rt.NumField(); i++ {
		if _, ok := rt.Field(i).Tag.Lookup("wire"); ok {
			tagged++
		}
	}
	seen := 0
	for _, fm := range meta.Fields {
		if _, ok := fm.Tags["wire"]; !ok {
			continue
		}
		if len(fm.Index) != 1 || fm.Index[0] >= rt.NumField() {
			return false
		}
		if rt.Field(fm.Index[0]).Type != fm.ReflectType {
			return false
		}
		seen++
	}
	return seen == tagged
}

// parseWireTags extracts the wire tag from a struct tag.
func parseWireTags(tag reflect.StructTag) map[string]string {
	tags := make(map[string]string)
	if val, ok := tag.Lookup("wire"); ok {
		tags["wire"] = val
	}
	return tags
}
