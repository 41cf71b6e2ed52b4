package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starford/kasten/internal/apperr"
)

const tmpPrefix = ".kasten-tmp-"

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to kasten directory
}

// NewFS creates a new FS provider rooted at the given directory. The
// directory need not exist yet; it is created on the first Write.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	switch {
	case err == nil && !info.IsDir():
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	case err != nil && !os.IsNotExist(err):
		return nil, apperr.IO("stat", abs, err)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute kasten directory.
func (f *FS) Root() string { return f.root }

// Path resolves a relative name against the root and rejects any result
// that escapes it.
func (f *FS) Path(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("storage: empty name")
	}
	cleaned := filepath.Clean(name)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", name)
	}
	abs := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes kasten root: %s", name)
	}
	return abs, nil
}

// Exists reports whether name is an existing regular file.
func (f *FS) Exists(name string) bool {
	abs, err := f.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}

// List returns the sorted names of the regular files directly under root.
// Leftover temp files are skipped.
func (f *FS) List() ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, apperr.IO("list", f.root, err)
	}
	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), tmpPrefix) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// Read returns the raw bytes of a kasten file.
func (f *FS) Read(name string) ([]byte, error) {
	abs, err := f.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, apperr.IO("read", abs, err)
	}
	return data, nil
}

// Write writes content through a temp file, fsync and rename.
func (f *FS) Write(name string, content []byte) error {
	abs, err := f.Path(name)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.IO("mkdir", dir, err)
	}

	tmp, err := os.CreateTemp(dir, tmpPrefix+"*")
	if err != nil {
		return apperr.IO("create temp", dir, err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return apperr.IO("write", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		return apperr.IO("fsync", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return apperr.IO("close", tmpName, err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return apperr.IO("rename", abs, err)
	}
	success = true
	return nil
}
