package apperr

import (
	"errors"
	"io/fs"
	"testing"
)

func TestIOError_Unwrap(t *testing.T) {
	err := IO("read", "/tmp/db", fs.ErrNotExist)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("errors.Is(%v, fs.ErrNotExist) = false", err)
	}
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatal("expected *IOError")
	}
	if ioErr.Path != "/tmp/db" {
		t.Errorf("path = %q, want %q", ioErr.Path, "/tmp/db")
	}
	if got := err.Error(); got != "read /tmp/db: file does not exist" {
		t.Errorf("message = %q", got)
	}
}

func TestIO_Nil(t *testing.T) {
	if err := IO("write", "x", nil); err != nil {
		t.Errorf("IO(nil) = %v, want nil", err)
	}
	if err := Serialization(nil); err != nil {
		t.Errorf("Serialization(nil) = %v, want nil", err)
	}
}

func TestSerialization_MatchesBoth(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Serialization(cause)
	if !errors.Is(err, ErrSerialization) {
		t.Error("should match ErrSerialization")
	}
	if !errors.Is(err, cause) {
		t.Error("should match the cause")
	}
}
