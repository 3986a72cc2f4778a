package config

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"factoriobp.io/internal/blueprint"
	"factoriobp.io/internal/encoding"
	"factoriobp.io/internal/logging"
	"factoriobp.io/internal/protocol"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// BPX_ENVELOPE_LINE_WIDTH=80. Leaf fields carry no envconfig tag so that
// unprefixed names such as PATH are never consulted.
const EnvPrefix = "BPX"

const DefaultLibraryPath = "bpx-library.db"

type Config struct {
	Envelope EnvelopeConfig `yaml:"envelope" envconfig:"ENVELOPE"`
	Checks   ChecksConfig   `yaml:"validate" envconfig:"VALIDATE"`
	Library  LibraryConfig  `yaml:"library" envconfig:"LIBRARY"`
	Log      LogConfig      `yaml:"log" envconfig:"LOG"`
}

type EnvelopeConfig struct {
	Marker       string `yaml:"marker" split_words:"true"`
	CheckMarker  bool   `yaml:"check_marker" split_words:"true"`
	Level        int    `yaml:"level" split_words:"true"`
	LineWidth    int    `yaml:"line_width" split_words:"true"`
	MaxJSONBytes int64  `yaml:"max_json_bytes" split_words:"true"`
}

type ChecksConfig struct {
	ActiveIndex    bool `yaml:"active_index" split_words:"true"`
	UniqueEntities bool `yaml:"unique_entities" split_words:"true"`
	References     bool `yaml:"references" split_words:"true"`
}

type LibraryConfig struct {
	Path string `yaml:"path" split_words:"true"`
}

type LogConfig struct {
	Level       string `yaml:"level" split_words:"true"`
	Development bool   `yaml:"development" split_words:"true"`
}

// Load reads the YAML file at path (optional), applies BPX_* environment
// overrides, then normalizes and validates the result.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, &protocol.IOError{Op: "read config", Path: path, Err: err}
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("env: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		if path == "" {
			return cfg, fmt.Errorf("config: %w", err)
		}
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Defaults() Config {
	return Config{
		Envelope: EnvelopeConfig{
			Marker:       protocol.DefaultMarker,
			CheckMarker:  true,
			MaxJSONBytes: encoding.DefaultMaxJSONBytes,
		},
		Checks: ChecksConfig{
			ActiveIndex:    true,
			UniqueEntities: true,
			References:     true,
		},
		Library: LibraryConfig{Path: DefaultLibraryPath},
		Log:     LogConfig{Level: "info"},
	}
}

func (c *Config) Normalize() {
	c.Envelope.Marker = strings.TrimSpace(c.Envelope.Marker)
	if c.Envelope.Marker == "" {
		c.Envelope.Marker = protocol.DefaultMarker
	}
	if c.Envelope.LineWidth < 0 {
		c.Envelope.LineWidth = 0
	}
	if c.Envelope.MaxJSONBytes <= 0 {
		c.Envelope.MaxJSONBytes = encoding.DefaultMaxJSONBytes
	}
	c.Library.Path = strings.TrimSpace(c.Library.Path)
	if c.Library.Path == "" {
		c.Library.Path = DefaultLibraryPath
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c Config) Validate() error {
	if utf8.RuneCountInString(c.Envelope.Marker) != 1 {
		return fmt.Errorf("envelope.marker must be a single character, got %q", c.Envelope.Marker)
	}
	// -2 is huffman only; 0 selects best compression.
	if c.Envelope.Level < -2 || c.Envelope.Level > 9 {
		return fmt.Errorf("envelope.level %d out of range [-2,9]", c.Envelope.Level)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

func (c Config) DecodeOptions() encoding.DecodeOptions {
	opts := encoding.DecodeOptions{MaxJSONBytes: c.Envelope.MaxJSONBytes}
	if c.Envelope.CheckMarker {
		opts.ExpectMarker = c.Envelope.Marker
	}
	return opts
}

func (c Config) EncodeOptions() encoding.EncodeOptions {
	return encoding.EncodeOptions{
		Marker:    c.Envelope.Marker,
		Level:     c.Envelope.Level,
		LineWidth: c.Envelope.LineWidth,
	}
}

func (c Config) ValidateOptions() blueprint.ValidateOptions {
	return blueprint.ValidateOptions{
		ActiveIndex:    c.Checks.ActiveIndex,
		UniqueEntities: c.Checks.UniqueEntities,
		References:     c.Checks.References,
	}
}

func (c Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Development = c.Log.Development
	return cfg
}
