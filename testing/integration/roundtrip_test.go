package integration

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/zoobzio/proteus"
	"github.com/zoobzio/proteus/bson"
	"github.com/zoobzio/proteus/cbor"
	"github.com/zoobzio/proteus/json"
	"github.com/zoobzio/proteus/msgpack"
	"github.com/zoobzio/proteus/protobin"
	"github.com/zoobzio/proteus/scene"
	proteustest "github.com/zoobzio/proteus/testing"
	"github.com/zoobzio/proteus/xml"
	"github.com/zoobzio/proteus/yaml"
)

func TestProcessor_StoreLoad_JSON(t *testing.T) {
	testStoreLoad(t, json.New())
}

func TestProcessor_StoreLoad_YAML(t *testing.T) {
	testStoreLoad(t, yaml.New())
}

func TestProcessor_StoreLoad_MessagePack(t *testing.T) {
	testStoreLoad(t, msgpack.New())
}

func TestProcessor_StoreLoad_CBOR(t *testing.T) {
	testStoreLoad(t, cbor.New())
}

func TestProcessor_StoreLoad_BSON(t *testing.T) {
	testStoreLoad(t, bson.New())
}

func TestProcessor_StoreLoad_XML(t *testing.T) {
	testStoreLoad(t, xml.New())
}

func TestProcessor_StoreLoad_Binary(t *testing.T) {
	testStoreLoad(t, proteus.Binary())
}

// testStoreLoad seals a scene with c and checks that loading it and
// re-encoding on the wire reproduces the original bytes.
func testStoreLoad(t *testing.T, c proteus.Codec) {
	t.Helper()
	ctx := context.Background()

	proc, err := proteus.NewProcessor[scene.AiScene](c)
	if err != nil {
		t.Fatalf("NewProcessor error: %v", err)
	}
	proc.SetEncryptor(proteustest.TestEncryptor(t))

	original := proteustest.SampleScene()
	data, err := proc.Store(ctx, original)
	if err != nil {
		t.Fatalf("Store error: %v", err)
	}
	if bytes.Contains(data, []byte("studio")) {
		t.Error("sealed payload should not contain plaintext")
	}

	restored, err := proc.Load(ctx, data)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !proteus.Equal(restored, original) {
		t.Errorf("Load() = %+v", restored)
	}

	want, _ := proteus.Marshal(original)
	got, err := proteus.Marshal(restored)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("wire encoding changed after %s round trip", c.ContentType())
	}
}

// A text rendering drops unknown fields; the binary path keeps them.
func TestUnknownSections_BinaryOnly(t *testing.T) {
	ctx := context.Background()
	s := proteustest.SampleScene()
	meshes := []byte{0x12, 0x03, 0x0a, 0x01, 0x41} // field 2: a foreign section
	proteus.AddUnknown(s, meshes)

	path := filepath.Join(t.TempDir(), "scene"+protobin.Extension)
	if err := protobin.WriteFile(ctx, path, s); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	back, err := protobin.ReadFile(ctx, path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if !bytes.Equal(proteus.Unknown(back), meshes) {
		t.Errorf("Unknown() = % x, want % x", proteus.Unknown(back), meshes)
	}

	proc, _ := proteus.NewProcessor[scene.AiScene](json.New())
	text, err := proc.Store(ctx, back)
	if err != nil {
		t.Fatalf("Store error: %v", err)
	}
	viaText, err := proc.Load(ctx, text)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(proteus.Unknown(viaText)) != 0 {
		t.Error("text round trip should not carry unknown fields")
	}
	proteus.DiscardUnknown(back)
	if !proteus.Equal(viaText, back) {
		t.Error("known fields should survive the text round trip")
	}
}

// Files written by each layout decode to the same scene and fingerprint.
func TestProtobin_LayoutsAgree(t *testing.T) {
	ctx := context.Background()
	enc := proteustest.TestEncryptor(t)
	dir := t.TempDir()

	want, err := proteus.Fingerprint(proteustest.SampleScene())
	if err != nil {
		t.Fatalf("Fingerprint error: %v", err)
	}

	layouts := map[string][]protobin.Option{
		"framed": nil,
		"raw":    {protobin.WithFraming(false)},
		"sealed": {protobin.WithEncryptor(enc)},
	}
	for name, opts := range layouts {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+protobin.Extension)
			if err := protobin.WriteFile(ctx, path, proteustest.SampleScene(), opts...); err != nil {
				t.Fatalf("WriteFile error: %v", err)
			}
			s, err := protobin.ReadFile(ctx, path, protobin.WithEncryptor(enc))
			if err != nil {
				t.Fatalf("ReadFile error: %v", err)
			}
			got, _ := proteus.Fingerprint(s)
			if got != want {
				t.Errorf("Fingerprint = %s, want %s", got, want)
			}
		})
	}
}
