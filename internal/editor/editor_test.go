package editor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	if got := Resolve(""); got != DefaultCommand {
		t.Errorf("Resolve(\"\") = %q, want %q", got, DefaultCommand)
	}

	t.Setenv("EDITOR", "nano")
	if got := Resolve(""); got != "nano" {
		t.Errorf("Resolve with $EDITOR = %q, want nano", got)
	}

	t.Setenv("VISUAL", "nvim")
	if got := Resolve(""); got != "nvim" {
		t.Errorf("Resolve with $VISUAL = %q, want nvim", got)
	}

	if got := Resolve("code --wait"); got != "code --wait" {
		t.Errorf("configured command = %q", got)
	}
}

func TestNewCommand_SplitsArgs(t *testing.T) {
	c := NewCommand("code --wait --new-window")
	if c.name != "code" || len(c.args) != 2 {
		t.Errorf("name = %q, args = %v", c.name, c.args)
	}
	if c.String() != "code --wait --new-window" {
		t.Errorf("String() = %q", c.String())
	}
}

func TestCommand_Edit(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	path := filepath.Join(t.TempDir(), "note.md")
	if err := os.WriteFile(path, []byte("before"), 0o600); err != nil {
		t.Fatal(err)
	}
	script := filepath.Join(t.TempDir(), "fake-editor.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nprintf 'after' > \"$1\"\n"), 0o700); err != nil {
		t.Fatal(err)
	}

	if err := NewCommand(script).Edit(context.Background(), path); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "after" {
		t.Errorf("content = %q, want %q", got, "after")
	}
}

func TestCommand_EditFailure(t *testing.T) {
	err := NewCommand("/nonexistent/editor-binary").Edit(context.Background(), "x")
	if err == nil {
		t.Error("expected error for missing editor")
	}
}

func TestFunc(t *testing.T) {
	var got string
	e := Func(func(_ context.Context, path string) error {
		got = path
		return nil
	})
	if err := e.Edit(context.Background(), "/tmp/x"); err != nil || got != "/tmp/x" {
		t.Errorf("Func.Edit: got %q, err %v", got, err)
	}
}
