// Package kasten implements the Zettelkasten store.
//
// A Kasten owns three things: the link graph over note ids, the metadata
// index used for listing, and a cache of fully loaded zettels. Only the graph
// and the metadata index make up the persisted index; each cached zettel is
// persisted to its own file, and only when it is dirty.
//
// A Kasten is not safe for concurrent use.
package kasten

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/kasten/internal/apperr"
	"github.com/starford/kasten/internal/graph"
	"github.com/starford/kasten/internal/zettel"
)

// Kasten is a collection of linked zettels.
type Kasten struct {
	index    *graph.Graph
	metaData map[uuid.UUID]zettel.MetaData
	zettels  map[uuid.UUID]*zettel.Zettel
}

// New returns an empty Kasten.
func New() *Kasten {
	return &Kasten{
		index:    graph.New(),
		metaData: make(map[uuid.UUID]zettel.MetaData),
		zettels:  make(map[uuid.UUID]*zettel.Zettel),
	}
}

// AddZettel inserts z and links it as a child of every id in parents.
//
// It fails with apperr.ErrNoteExists when z's id is already in the graph and
// with apperr.ErrNoteNotFound when any parent is unknown. On failure the
// Kasten is left untouched.
func (k *Kasten) AddZettel(z *zettel.Zettel, parents []uuid.UUID) error {
	if _, ok := k.index.Find(z.ID); ok {
		return fmt.Errorf("kasten: add %s: %w", z.ID, apperr.ErrNoteExists)
	}

	existing := make([]graph.NodeIndex, 0, len(parents))
	var missing []string
	for _, id := range parents {
		if idx, ok := k.index.Find(id); ok {
			existing = append(existing, idx)
		} else {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("kasten: add %s: parents %s: %w", z.ID, strings.Join(missing, ", "), apperr.ErrNoteNotFound)
	}

	child := k.index.AddNode(z.ID)
	for _, parent := range existing {
		k.index.AddEdge(parent, child)
	}
	k.zettels[z.ID] = z
	k.metaData[z.ID] = z.MetaData
	return nil
}

// UpdateZettel stores z in the cache and the metadata index, replacing any
// previous entry for its id.
//
// There is no existence check: an id unknown to the graph gets a cache and
// metadata entry without a node. Callers only pass zettels obtained from this
// Kasten.
func (k *Kasten) UpdateZettel(z *zettel.Zettel) {
	k.zettels[z.ID] = z
	k.metaData[z.ID] = z.MetaData
}

// GetZettel returns a copy of the cached zettel with the given id. A zettel
// whose body has not been loaded is reported as apperr.ErrNoteNotFound; use
// Load to read it from disk.
func (k *Kasten) GetZettel(id uuid.UUID) (zettel.Zettel, error) {
	z, ok := k.zettels[id]
	if !ok {
		return zettel.Zettel{}, fmt.Errorf("kasten: get %s: %w", id, apperr.ErrNoteNotFound)
	}
	return *z, nil
}

// NodeIndex returns the graph node carrying id.
func (k *Kasten) NodeIndex(id uuid.UUID) (graph.NodeIndex, error) {
	idx, ok := k.index.Find(id)
	if !ok {
		return 0, fmt.Errorf("kasten: node %s: %w", id, apperr.ErrNoteNotFound)
	}
	return idx, nil
}

// Lookup returns the metadata recorded for id.
func (k *Kasten) Lookup(id uuid.UUID) (zettel.MetaData, bool) {
	m, ok := k.metaData[id]
	return m, ok
}

// MetaData returns every metadata entry, oldest first.
func (k *Kasten) MetaData() []zettel.MetaData {
	out := make([]zettel.MetaData, 0, len(k.metaData))
	for _, m := range k.metaData {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreationDate.Equal(out[j].CreationDate) {
			return out[i].CreationDate.Before(out[j].CreationDate)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Parents returns the ids id was created from.
func (k *Kasten) Parents(id uuid.UUID) ([]uuid.UUID, error) {
	idx, err := k.NodeIndex(id)
	if err != nil {
		return nil, err
	}
	return k.labels(k.index.Parents(idx)), nil
}

// Children returns the ids created from id.
func (k *Kasten) Children(id uuid.UUID) ([]uuid.UUID, error) {
	idx, err := k.NodeIndex(id)
	if err != nil {
		return nil, err
	}
	return k.labels(k.index.Children(idx)), nil
}

func (k *Kasten) labels(nodes []graph.NodeIndex) []uuid.UUID {
	out := make([]uuid.UUID, len(nodes))
	for i, n := range nodes {
		out[i] = k.index.Label(n)
	}
	return out
}

// Len returns the number of nodes in the graph.
func (k *Kasten) Len() int { return k.index.NodeCount() }

// EdgeCount returns the number of links in the graph.
func (k *Kasten) EdgeCount() int { return k.index.EdgeCount() }

// Edges returns every link as a parent/child id pair.
func (k *Kasten) Edges() [][2]uuid.UUID {
	edges := k.index.Edges()
	out := make([][2]uuid.UUID, len(edges))
	for i, e := range edges {
		out[i] = [2]uuid.UUID{k.index.Label(e.From), k.index.Label(e.To)}
	}
	return out
}

// Dot writes the link graph in Graphviz dot syntax.
func (k *Kasten) Dot(w io.Writer) error {
	if err := k.index.WriteDot(w); err != nil {
		return apperr.IO("write graph", "", err)
	}
	return nil
}

// encoded is the persisted form of a Kasten. The zettel cache is not part
// of it.
type encoded struct {
	Index    *graph.Graph                  `json:"index"`
	MetaData map[uuid.UUID]zettel.MetaData `json:"meta_data"`
}

// Import decodes a Kasten from r. The zettel cache of the result is empty.
func Import(r io.Reader) (*Kasten, error) {
	var enc encoded
	if err := json.NewDecoder(r).Decode(&enc); err != nil {
		return nil, apperr.Serialization(err)
	}
	if enc.Index == nil {
		return nil, apperr.Serialization(fmt.Errorf("kasten: missing index"))
	}
	for _, id := range enc.Index.Nodes() {
		if _, ok := enc.MetaData[id]; !ok {
			return nil, apperr.Serialization(fmt.Errorf("kasten: node %s has no metadata", id))
		}
	}
	k := New()
	k.index = enc.Index
	for id, m := range enc.MetaData {
		if m.ID != id {
			return nil, apperr.Serialization(fmt.Errorf("kasten: metadata key %s holds id %s", id, m.ID))
		}
		k.metaData[id] = m
	}
	return k, nil
}

// Export encodes the graph and the metadata index to w.
func (k *Kasten) Export(w io.Writer) error {
	data, err := json.Marshal(encoded{Index: k.index, MetaData: k.metaData})
	if err != nil {
		return apperr.Serialization(err)
	}
	if _, err := w.Write(data); err != nil {
		return apperr.IO("write index", "", err)
	}
	return nil
}
