// Package storage defines the kasten directory abstraction.
package storage

// Provider is the interface for kasten directory operations. Names are
// relative to the kasten root.
type Provider interface {
	// Root returns the absolute path of the kasten directory.
	Root() string
	// Path resolves name to an absolute path inside the root.
	Path(name string) (string, error)
	// Exists reports whether a regular file called name exists.
	Exists(name string) bool
	// List returns the names of all regular files in the root, sorted.
	List() ([]string, error)
	// Read returns the raw bytes of the file called name.
	Read(name string) ([]byte, error)
	// Write replaces the file called name, creating the root first if needed.
	Write(name string, content []byte) error
}
