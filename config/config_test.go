package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "yaml", cfg.Format)
	assert.True(t, cfg.Framed)
	assert.Empty(t, cfg.SealKeyFile)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, []string{"stderr"}, cfg.Log.Outputs)
	assert.False(t, cfg.Log.Rotation.Enable)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Setenv("PROTEUS_CONFIG", "")

	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "read config")
	})

	t.Run("search path", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "yaml", cfg.Format)
	})

	t.Run("file values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "proteus.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
format: json
framed: false
seal_key_file: /etc/proteus/key
log:
  level: DEBUG
  outputs: [stdout, /tmp/proteus.log]
  rotation:
    enable: true
    max_size_mb: 5
`), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.Format)
		assert.False(t, cfg.Framed)
		assert.Equal(t, "/etc/proteus/key", cfg.SealKeyFile)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, []string{"stdout", "/tmp/proteus.log"}, cfg.Log.Outputs)
		assert.True(t, cfg.Log.Rotation.Enable)
		assert.Equal(t, 5, cfg.Log.Rotation.MaxSizeMB)
		assert.Equal(t, 3, cfg.Log.Rotation.MaxBackups, "unset keys keep defaults")
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "proteus.yaml")
		require.NoError(t, os.WriteFile(path, []byte("format: json\n"), 0o600))
		t.Setenv("PROTEUS_FORMAT", "cbor")
		t.Setenv("PROTEUS_LOG_LEVEL", "warn")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "cbor", cfg.Format)
		assert.Equal(t, "warn", cfg.Log.Level)
	})

	t.Run("config path from env", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("format: msgpack\n"), 0o600))
		t.Setenv("PROTEUS_CONFIG", path)

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "msgpack", cfg.Format)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("format: [unclosed\n"), 0o600))

		_, err := Load(path)
		assert.ErrorContains(t, err, "read config")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "invalid log.level"},
		{"bad format", func(c *Config) { c.Format = "toml" }, "invalid format"},
		{"mixed case format", func(c *Config) { c.Format = " XML " }, ""},
		{"empty outputs", func(c *Config) { c.Log.Outputs = nil }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, Formats, cfg.Format)
			assert.NotEmpty(t, cfg.Log.Outputs)
		})
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "proteus.yaml")
	want := Default()
	want.Format = "cbor"
	want.SealKeyFile = "key.hex"

	require.NoError(t, Save(want, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
