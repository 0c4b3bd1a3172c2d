package proteus

import (
	"fmt"
	"reflect"
)

// HasField reports whether the field with Go name name is set on r. Plain
// scalar fields have no presence and return ErrNoPresence. A repeated field
// is set when it is non-empty.
func HasField(r Record, name string) (bool, error) {
	fv, f, err := lookupField(r, name)
	if err != nil {
		return false, err
	}
	switch f.Cardinality {
	case Optional:
		return !fv.IsNil(), nil
	case Repeated:
		return fv.Len() > 0, nil
	}
	return false, fmt.Errorf("%w: %s.%s", ErrNoPresence, recordName(r), name)
}

// ClearField resets the field with Go name name to its default or absent
// state.
func ClearField(r Record, name string) error {
	fv, _, err := lookupField(r, name)
	if err != nil {
		return err
	}
	fv.Set(reflect.Zero(fv.Type()))
	return nil
}

func lookupField(r Record, name string) (reflect.Value, *Field, error) {
	if isNilRecord(r) {
		return reflect.Value{}, nil, fmt.Errorf("%w: nil record", ErrNotRecord)
	}
	rv := reflect.ValueOf(r).Elem()
	s, err := schemaOf(rv.Type())
	if err != nil {
		return reflect.Value{}, nil, err
	}
	f := s.FieldByName(name)
	if f == nil {
		return reflect.Value{}, nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, s.TypeName, name)
	}
	return rv.FieldByIndex(f.index), f, nil
}

// Fields returns the schema fields of r in ascending number order.
func Fields(r Record) []*Field {
	if isNilRecord(r) {
		return nil
	}
	return mustSchema(reflect.TypeOf(r).Elem()).Fields
}

// IsInitialized reports whether every required field of r and its nested
// records is set.
func IsInitialized(r Record) bool {
	return CheckInitialized(r) == nil
}

// CheckInitialized returns a *RequiredError listing every required field of
// r and its nested records that is not set.
func CheckInitialized(r Record) error {
	if isNilRecord(r) {
		return nil
	}
	rv := reflect.ValueOf(r).Elem()
	s, err := schemaOf(rv.Type())
	if err != nil {
		return err
	}
	return checkRequired(rv, s)
}

func checkRequired(rv reflect.Value, s *Schema) error {
	var missing []string
	collectMissing(rv, s, s.TypeName, &missing)
	if len(missing) > 0 {
		return &RequiredError{Paths: missing}
	}
	return nil
}

func collectMissing(rv reflect.Value, s *Schema, path string, missing *[]string) {
	for _, f := range s.Fields {
		fv := rv.FieldByIndex(f.index)
		if f.Required && fv.IsNil() {
			*missing = append(*missing, path+"."+f.Name)
			continue
		}
		if f.Kind != KindMessage {
			continue
		}
		if f.Cardinality == Repeated {
			for i := 0; i < fv.Len(); i++ {
				if e := fv.Index(i); !e.IsNil() {
					collectMissing(e.Elem(), f.elem, fmt.Sprintf("%s.%s[%d]", path, f.Name, i), missing)
				}
			}
			continue
		}
		if !fv.IsNil() {
			collectMissing(fv.Elem(), f.elem, path+"."+f.Name, missing)
		}
	}
}

// collectMissingMerged is collectMissing for the result of merging src into
// dst.
func collectMissingMerged(dv, sv reflect.Value, s *Schema, path string, missing *[]string) {
	for _, f := range s.Fields {
		df, sf := dv.FieldByIndex(f.index), sv.FieldByIndex(f.index)
		if f.Required && df.IsNil() && sf.IsNil() {
			*missing = append(*missing, path+"."+f.Name)
			continue
		}
		if f.Kind != KindMessage {
			continue
		}
		if f.Cardinality == Repeated {
			n := df.Len()
			for i := 0; i < n; i++ {
				if e := df.Index(i); !e.IsNil() {
					collectMissing(e.Elem(), f.elem, fmt.Sprintf("%s.%s[%d]", path, f.Name, i), missing)
				}
			}
			for i := 0; i < sf.Len(); i++ {
				if e := sf.Index(i); !e.IsNil() {
					collectMissing(e.Elem(), f.elem, fmt.Sprintf("%s.%s[%d]", path, f.Name, n+i), missing)
				}
			}
			continue
		}
		switch {
		case !df.IsNil() && !sf.IsNil():
			collectMissingMerged(df.Elem(), sf.Elem(), f.elem, path+"."+f.Name, missing)
		case !df.IsNil():
			collectMissing(df.Elem(), f.elem, path+"."+f.Name, missing)
		case !sf.IsNil():
			collectMissing(sf.Elem(), f.elem, path+"."+f.Name, missing)
		}
	}
}
