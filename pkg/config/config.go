// Package config provides YAML-based configuration loading with environment variable expansion.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// Load reads a YAML file into target, expanding $VAR references first.
// Fields absent from the file keep the values target already holds.
func Load[T any](filename string, target *T) error {
	if err := decode(filename, target); err != nil {
		return err
	}
	return validate(target)
}

// LoadOptional behaves like Load but treats a missing file (or an empty
// filename) as an empty configuration, so target keeps its defaults.
// overrides run after the file is decoded and before validation. The
// returned bool reports whether a file was read.
func LoadOptional[T any](filename string, target *T, overrides ...func(*T)) (bool, error) {
	loaded := false
	if filename != "" {
		if _, err := os.Stat(filename); !errors.Is(err, os.ErrNotExist) {
			if err := decode(filename, target); err != nil {
				return false, err
			}
			loaded = true
		}
	}
	for _, override := range overrides {
		override(target)
	}
	return loaded, validate(target)
}

func decode(filename string, target any) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	return nil
}

func validate(target any) error {
	if v, ok := target.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}
	return nil
}
