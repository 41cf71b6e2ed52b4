package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultKastenPath is where the kasten lives when nothing else is configured.
const DefaultKastenPath = "~/.zettelkasten"

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Kasten KastenConfig      `yaml:"kasten"`
	Editor EditorConfig      `yaml:"editor"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	return c.Kasten.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatText
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatText, LogFormatJSON)),
	)
}

// KastenConfig holds the location of the kasten directory.
type KastenConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the kasten configuration.
func (c *KastenConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// Dir returns the kasten path with a leading ~ replaced by the home directory.
func (c *KastenConfig) Dir() (string, error) {
	return expandHome(c.Path)
}

// EditorConfig selects the program used to edit zettels. An empty command
// falls back to $VISUAL, then $EDITOR.
type EditorConfig struct {
	Command string `yaml:"command"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelWarn,
			LogFormat: LogFormatText,
		},
		Kasten: KastenConfig{
			Path: DefaultKastenPath,
		},
	}
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
