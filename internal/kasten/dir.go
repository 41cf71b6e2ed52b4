package kasten

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/starford/kasten/internal/apperr"
	"github.com/starford/kasten/internal/storage"
	"github.com/starford/kasten/internal/zettel"
)

// IndexFile is the name of the index file inside a kasten directory. Every
// other file is named after the id of the zettel it holds.
const IndexFile = "db"

// FromDir reads the index of the kasten stored in store. Zettel bodies are
// not read; see Load.
func FromDir(store storage.Provider) (*Kasten, error) {
	data, err := store.Read(IndexFile)
	if err != nil {
		return nil, err
	}
	return Import(bytes.NewReader(data))
}

// ToDir writes the index in full and then every dirty cached zettel. Each
// zettel is marked clean once its file is written, so a later ToDir skips it
// until it changes again.
func (k *Kasten) ToDir(store storage.Provider) error {
	var buf bytes.Buffer
	if err := k.Export(&buf); err != nil {
		return err
	}
	if err := store.Write(IndexFile, buf.Bytes()); err != nil {
		return err
	}

	for _, z := range k.dirty() {
		data, err := z.Marshal()
		if err != nil {
			return err
		}
		if err := store.Write(z.ID.String(), data); err != nil {
			return err
		}
		z.MarkClean()
	}
	return nil
}

// dirty returns the dirty cached zettels ordered by id.
func (k *Kasten) dirty() []*zettel.Zettel {
	var out []*zettel.Zettel
	for _, z := range k.zettels {
		if z.Dirty() {
			out = append(out, z)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Load returns the zettel with the given id, reading it from store into the
// cache when it has not been loaded yet. Ids unknown to the Kasten are
// reported as apperr.ErrNoteNotFound.
func (k *Kasten) Load(store storage.Provider, id uuid.UUID) (zettel.Zettel, error) {
	if z, ok := k.zettels[id]; ok {
		return *z, nil
	}
	if !k.known(id) {
		return zettel.Zettel{}, fmt.Errorf("kasten: load %s: %w", id, apperr.ErrNoteNotFound)
	}

	data, err := store.Read(id.String())
	if err != nil {
		return zettel.Zettel{}, err
	}
	z, err := zettel.Unmarshal(data)
	if err != nil {
		return zettel.Zettel{}, err
	}
	if z.ID != id {
		return zettel.Zettel{}, apperr.Serialization(fmt.Errorf("kasten: file %s holds zettel %s", id, z.ID))
	}
	k.zettels[id] = z
	return *z, nil
}

// Path returns the location of the file holding the zettel with the given id.
func (k *Kasten) Path(store storage.Provider, id uuid.UUID) (string, error) {
	if !k.known(id) {
		return "", fmt.Errorf("kasten: path %s: %w", id, apperr.ErrNoteNotFound)
	}
	return store.Path(id.String())
}

func (k *Kasten) known(id uuid.UUID) bool {
	if _, ok := k.index.Find(id); ok {
		return true
	}
	_, ok := k.metaData[id]
	return ok
}
