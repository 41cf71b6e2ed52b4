// Package testutil provides shared test helpers for setting up kasten directories.
package testutil

import (
	"sync"
	"testing"

	"github.com/starford/kasten/internal/storage"
)

// TestKasten creates a temporary kasten directory with a storage.Provider.
// The directory is removed when the test ends.
func TestKasten(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// Recorder wraps a storage.Provider and remembers the names it wrote.
type Recorder struct {
	storage.Provider

	mu     sync.Mutex
	writes []string
}

// NewRecorder wraps p.
func NewRecorder(p storage.Provider) *Recorder {
	return &Recorder{Provider: p}
}

// Write records name and delegates to the wrapped provider.
func (r *Recorder) Write(name string, content []byte) error {
	r.mu.Lock()
	r.writes = append(r.writes, name)
	r.mu.Unlock()
	return r.Provider.Write(name, content)
}

// Writes returns the names written so far, in order.
func (r *Recorder) Writes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.writes))
	copy(out, r.writes)
	return out
}

// Reset forgets the recorded writes.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.writes = nil
	r.mu.Unlock()
}
