// Package editor opens files in the user's text editor.
package editor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DefaultCommand is used when neither the configuration nor the environment
// names an editor.
const DefaultCommand = "vi"

// Editor lets the user edit the file at path and returns once they are done.
type Editor interface {
	Edit(ctx context.Context, path string) error
}

// Func adapts a function to the Editor interface.
type Func func(ctx context.Context, path string) error

// Edit calls f.
func (f Func) Edit(ctx context.Context, path string) error { return f(ctx, path) }

// Command runs an external editor program attached to the terminal.
type Command struct {
	name string
	args []string
}

// NewCommand returns an editor running command, which may carry arguments
// ("code --wait"). An empty command falls back to $VISUAL, then $EDITOR,
// then DefaultCommand.
func NewCommand(command string) *Command {
	fields := strings.Fields(Resolve(command))
	return &Command{name: fields[0], args: fields[1:]}
}

// Resolve picks the editor command line to use.
func Resolve(command string) string {
	for _, c := range []string{command, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return DefaultCommand
}

// Edit runs the editor on path and waits for it to exit.
func (c *Command) Edit(ctx context.Context, path string) error {
	args := append(append([]string{}, c.args...), path)
	cmd := exec.CommandContext(ctx, c.name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor: run %s: %w", c.name, err)
	}
	return nil
}

// String returns the command line.
func (c *Command) String() string {
	return strings.Join(append([]string{c.name}, c.args...), " ")
}
