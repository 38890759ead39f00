// Package config loads dehaze settings from an optional YAML file layered
// over the compiled-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"haze-obliterator/internal/dehaze"
)

// Load reads path and overlays it on dehaze.DefaultConfig. An empty path
// returns the defaults. Fields absent from the file keep their defaults.
func Load(path string) (dehaze.Config, error) {
	cfg := dehaze.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse overlays YAML data on the defaults. Unknown keys are rejected.
func Parse(data []byte) (dehaze.Config, error) {
	cfg := dehaze.DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: %w", dehaze.ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Marshal renders cfg as YAML, useful to seed a config file.
func Marshal(cfg dehaze.Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
