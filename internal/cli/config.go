package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds CLI defaults loaded from a YAML file. Flags given on the
// command line override config values.
type Config struct {
	// Database is the backing file path.
	Database string `yaml:"database"`

	// Table is the backing table name.
	Table string `yaml:"table"`

	// BusyTimeoutMS is the SQLite busy timeout in milliseconds.
	BusyTimeoutMS int `yaml:"busy_timeout_ms"`
}

// LoadConfig reads and strictly decodes a YAML config file. Unknown
// fields are an error, so typos don't silently fall back to defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.BusyTimeoutMS < 0 {
		return Config{}, fmt.Errorf("busy_timeout_ms must not be negative, got %d", cfg.BusyTimeoutMS)
	}
	return cfg, nil
}
