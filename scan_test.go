package proteus

import (
	"errors"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func TestScan(t *testing.T) {
	data, _ := Marshal(mainCamera())

	fields, err := Scan(data)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	want := []struct {
		num    protowire.Number
		typ    protowire.Type
		offset int
		length int
	}{
		{1, protowire.BytesType, 0, 4},
		{2, protowire.BytesType, 6, 5},
		{5, protowire.Fixed32Type, 13, 4},
	}
	if len(fields) != len(want) {
		t.Fatalf("len(fields) = %d, want %d", len(fields), len(want))
	}
	for i, w := range want {
		f := fields[i]
		if f.Number != w.num || f.Type != w.typ || f.Offset != w.offset || len(f.Value) != w.length {
			t.Errorf("fields[%d] = %+v, want %+v", i, f, w)
		}
	}
	if string(fields[0].Value) != "main" {
		t.Errorf("Name payload = %q", fields[0].Value)
	}
}

func TestScan_Malformed(t *testing.T) {
	data, _ := Marshal(mainCamera())

	fields, err := Scan(data[:9])
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if len(fields) != 1 {
		t.Errorf("fields before the error = %d, want 1", len(fields))
	}
}
