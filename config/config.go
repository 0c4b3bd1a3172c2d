// Package config loads CLI configuration for proteus.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Formats lists the text and binary renderings the CLI converts to and from.
var Formats = []string{"yaml", "json", "msgpack", "cbor", "xml", "bson"}

// Config is the root CLI configuration.
type Config struct {
	// Format is the rendering used by decode and expected by encode when
	// the input extension is not recognized.
	Format string `mapstructure:"format" yaml:"format"`

	// Framed writes the ASSIMP.binaryProto-dump. header on encode.
	Framed bool `mapstructure:"framed" yaml:"framed"`

	// SealKeyFile holds an AES key; when set, encode seals its output and
	// decode can open sealed files.
	SealKeyFile string `mapstructure:"seal_key_file" yaml:"seal_key_file"`

	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level" yaml:"level"`
	// Format: console or json
	Format string `mapstructure:"format" yaml:"format"`
	// Outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs" yaml:"outputs"`

	Rotation    RotationConfig `mapstructure:"rotation" yaml:"rotation"`
	Development bool           `mapstructure:"development" yaml:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
	Enable     bool   `mapstructure:"enable" yaml:"enable"`
	Filename   string `mapstructure:"filename" yaml:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Format: "yaml",
		Framed: true,
		Log: LogConfig{
			Level:   "info",
			Format:  "console",
			Outputs: []string{"stderr"},
			Rotation: RotationConfig{
				Filename:   "logs/proteus.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
	}
}

// Load reads configuration from path when non-empty, otherwise from
// $PROTEUS_CONFIG or a proteus.yaml in the working directory or
// ~/.proteus. Missing files are not an error. Environment variables with
// the PROTEUS prefix override file values, with `.` and `-` replaced by
// `_`, e.g. PROTEUS_LOG_LEVEL=debug.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PROTEUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Defaults make every key known to viper so env-only overrides apply.
	v.SetDefault("format", cfg.Format)
	v.SetDefault("framed", cfg.Framed)
	v.SetDefault("seal_key_file", cfg.SealKeyFile)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)

	if path == "" {
		path = os.Getenv("PROTEUS_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("proteus")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".proteus"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes the configuration and rejects unknown values.
func (c *Config) Validate() error {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}

	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("invalid format: %q (want one of %s)", c.Format, strings.Join(Formats, ", "))
	}

	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stderr"}
	}
	return nil
}

// Save writes c to path as YAML, creating the directory when needed.
func Save(c *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
