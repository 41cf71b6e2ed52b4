package internal

import (
	"io"

	"github.com/starford/kasten/internal/editor"
	"github.com/starford/kasten/internal/picker"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	editor editor.Editor
	picker picker.Picker
	logOut io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithEditor replaces the editor built from the configuration.
func WithEditor(ed editor.Editor) Option {
	return func(a *application) {
		a.editor = ed
	}
}

// WithPicker replaces the terminal picker.
func WithPicker(pk picker.Picker) Option {
	return func(a *application) {
		a.picker = pk
	}
}

// WithLogOutput sets where the configured logger writes. Defaults to stderr.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}
