// Package graph implements the directed link graph over note identifiers.
//
// Nodes carry a note id as their only label; edges carry a fixed placeholder
// weight. Nodes and edges are only ever appended, so a NodeIndex stays valid
// for the lifetime of a Graph.
package graph

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Weight is the placeholder payload stored on every edge.
const Weight uint8 = 0

// NodeIndex is a handle to a node of a Graph.
type NodeIndex int

// Edge is a directed edge from a parent node to a child node.
type Edge struct {
	From   NodeIndex `json:"from"`
	To     NodeIndex `json:"to"`
	Weight uint8     `json:"weight"`
}

// Graph is a directed graph labelled by note ids.
type Graph struct {
	nodes []uuid.UUID
	edges []Edge
	// lookup maps a label to its node; kept in sync with nodes on insertion.
	lookup map[uuid.UUID]NodeIndex
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{lookup: make(map[uuid.UUID]NodeIndex)}
}

// AddNode appends a node labelled id and returns its handle. Callers must
// check Find first; labels are expected to be unique.
func (g *Graph) AddNode(id uuid.UUID) NodeIndex {
	idx := NodeIndex(len(g.nodes))
	g.nodes = append(g.nodes, id)
	g.lookup[id] = idx
	return idx
}

// AddEdge appends an edge from -> to. Both handles must come from g.
func (g *Graph) AddEdge(from, to NodeIndex) {
	g.edges = append(g.edges, Edge{From: from, To: to, Weight: Weight})
}

// Find returns the node labelled id.
func (g *Graph) Find(id uuid.UUID) (NodeIndex, bool) {
	idx, ok := g.lookup[id]
	return idx, ok
}

// Label returns the id carried by node idx.
func (g *Graph) Label(idx NodeIndex) uuid.UUID {
	return g.nodes[idx]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns the node labels in insertion order.
func (g *Graph) Nodes() []uuid.UUID {
	out := make([]uuid.UUID, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Parents returns the sources of the edges pointing at idx.
func (g *Graph) Parents(idx NodeIndex) []NodeIndex {
	var out []NodeIndex
	for _, e := range g.edges {
		if e.To == idx {
			out = append(out, e.From)
		}
	}
	return out
}

// Children returns the targets of the edges leaving idx.
func (g *Graph) Children(idx NodeIndex) []NodeIndex {
	var out []NodeIndex
	for _, e := range g.edges {
		if e.From == idx {
			out = append(out, e.To)
		}
	}
	return out
}

type wireGraph struct {
	Nodes []uuid.UUID `json:"nodes"`
	Edges []Edge      `json:"edges"`
}

// MarshalJSON encodes the nodes and edges of g.
func (g *Graph) MarshalJSON() ([]byte, error) {
	w := wireGraph{Nodes: g.nodes, Edges: g.edges}
	if w.Nodes == nil {
		w.Nodes = []uuid.UUID{}
	}
	if w.Edges == nil {
		w.Edges = []Edge{}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a graph and rebuilds the label lookup. Duplicate
// labels and edges pointing outside the node list are rejected.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var w wireGraph
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	lookup := make(map[uuid.UUID]NodeIndex, len(w.Nodes))
	for i, id := range w.Nodes {
		if _, dup := lookup[id]; dup {
			return fmt.Errorf("graph: duplicate node %s", id)
		}
		lookup[id] = NodeIndex(i)
	}
	for _, e := range w.Edges {
		if !inRange(e.From, len(w.Nodes)) || !inRange(e.To, len(w.Nodes)) {
			return fmt.Errorf("graph: edge %d -> %d out of range", e.From, e.To)
		}
	}
	g.nodes = w.Nodes
	g.edges = w.Edges
	g.lookup = lookup
	return nil
}

func inRange(idx NodeIndex, n int) bool {
	return idx >= 0 && int(idx) < n
}

// WriteDot renders g in Graphviz dot syntax. Nodes are labelled by id and
// edges carry no label.
func (g *Graph) WriteDot(w io.Writer) error {
	if _, err := io.WriteString(w, "digraph {\n"); err != nil {
		return err
	}
	for i, id := range g.nodes {
		if _, err := fmt.Fprintf(w, "    %d [ label = %q ]\n", i, id.String()); err != nil {
			return err
		}
	}
	for _, e := range g.edges {
		if _, err := fmt.Fprintf(w, "    %d -> %d [ ]\n", e.From, e.To); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}\n")
	return err
}
