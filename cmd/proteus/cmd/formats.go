package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zoobzio/proteus"
	bsoncodec "github.com/zoobzio/proteus/bson"
	cborcodec "github.com/zoobzio/proteus/cbor"
	jsoncodec "github.com/zoobzio/proteus/json"
	msgpackcodec "github.com/zoobzio/proteus/msgpack"
	"github.com/zoobzio/proteus/protobin"
	xmlcodec "github.com/zoobzio/proteus/xml"
	yamlcodec "github.com/zoobzio/proteus/yaml"
)

var codecs = map[string]func() proteus.Codec{
	"yaml":    yamlcodec.New,
	"json":    jsoncodec.New,
	"msgpack": msgpackcodec.New,
	"cbor":    cborcodec.New,
	"xml":     xmlcodec.New,
	"bson":    bsoncodec.New,
}

var extensions = map[string]string{
	".yaml":    "yaml",
	".yml":     "yaml",
	".json":    "json",
	".msgpack": "msgpack",
	".mp":      "msgpack",
	".cbor":    "cbor",
	".xml":     "xml",
	".bson":    "bson",
}

// resolveFormat picks the text rendering for path: an explicit flag wins,
// then the file extension, then the configured default.
func resolveFormat(flag, path, fallback string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(flag))
	if format == "" {
		format = extensions[strings.ToLower(filepath.Ext(path))]
	}
	if format == "" {
		format = fallback
	}
	if _, ok := codecs[format]; !ok {
		return "", fmt.Errorf("unsupported format %q", format)
	}
	return format, nil
}

func codecFor(format string) proteus.Codec {
	return codecs[format]()
}

// sealOptions returns the protobin options for the key file at path, or
// none when path is empty.
func sealOptions(path string) ([]protobin.Option, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seal key: %w", err)
	}
	key, err := proteus.ParseKey(data)
	if err != nil {
		return nil, err
	}
	enc, err := proteus.AES(key)
	if err != nil {
		return nil, err
	}
	return []protobin.Option{protobin.WithEncryptor(enc)}, nil
}

func keyFile(flag string, a *app) string {
	if flag != "" {
		return flag
	}
	return a.cfg.SealKeyFile
}
