// Package graph builds the in-memory link graph over a note set and
// performs bounded breadth-first expansion from seed notes.
//
// Edges are declared as directed (rel, to) pairs, but expansion treats
// them as bidirectional: for context assembly, "what is in this note's
// neighborhood" matters more than which side declared the link.
package graph

import (
	"sort"

	"github.com/starford/muninn/internal/apperr"
	"github.com/starford/muninn/internal/models"
)

// Graph is a derived, read-only view over all notes' link fields.
// Nodes include dangling link targets that have no backing note.
type Graph struct {
	// out holds declared outgoing edges per source id.
	out map[string][]models.Link
	// adj is the undirected adjacency used for expansion, keyed by real
	// note ids only: dangling targets appear as values, never as keys, so
	// they are reachable but contribute no further neighbors.
	adj map[string]map[string]struct{}
	// notes marks ids with a backing note in the store.
	notes map[string]struct{}
}

// Build constructs the graph from the current note snapshot. It is rebuilt
// fresh on every invocation; nothing is persisted.
func Build(notes []*models.Note) *Graph {
	g := &Graph{
		out:   make(map[string][]models.Link, len(notes)),
		adj:   make(map[string]map[string]struct{}, len(notes)),
		notes: make(map[string]struct{}, len(notes)),
	}
	for _, n := range notes {
		g.notes[n.ID] = struct{}{}
	}
	for _, n := range notes {
		g.out[n.ID] = n.Links
		for _, l := range n.Links {
			if l.To == "" {
				continue
			}
			g.link(n.ID, l.To)
			// Reverse direction only when the target is a real note;
			// dangling ids stay leaves.
			if _, ok := g.notes[l.To]; ok {
				g.link(l.To, n.ID)
			}
		}
	}
	return g
}

func (g *Graph) link(from, to string) {
	if g.adj[from] == nil {
		g.adj[from] = make(map[string]struct{})
	}
	g.adj[from][to] = struct{}{}
}

// Neighbors returns the outgoing link targets of a note, optionally
// filtered by relation type (empty rel means all). An unknown id returns
// an empty set: dangling links are tolerated, not an error.
func (g *Graph) Neighbors(id, rel string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, l := range g.out[id] {
		if rel != "" && l.Rel != rel {
			continue
		}
		if l.To != "" {
			out[l.To] = struct{}{}
		}
	}
	return out
}

// HasNote reports whether id has a backing note in the snapshot.
func (g *Graph) HasNote(id string) bool {
	_, ok := g.notes[id]
	return ok
}

// Expand performs breadth-first traversal from the seed set across
// undirected edges, exploring up to hops edge traversals. hops = 0 returns
// exactly the seed set. A seed without a backing note is a fatal
// *apperr.UnknownSeedError: seeds are typed by hand and typos must surface.
// Dangling ids reached during traversal are included in the result but
// contribute no further neighbors.
func (g *Graph) Expand(seeds []string, hops int) (map[string]struct{}, error) {
	for _, s := range seeds {
		if !g.HasNote(s) {
			return nil, &apperr.UnknownSeedError{ID: s}
		}
	}

	visited := make(map[string]struct{}, len(seeds))
	frontier := make([]string, 0, len(seeds))
	for _, s := range seeds {
		if _, dup := visited[s]; dup {
			continue
		}
		visited[s] = struct{}{}
		frontier = append(frontier, s)
	}

	for hop := 0; hop < hops && len(frontier) > 0; hop++ {
		var next []string
		for _, id := range frontier {
			for nb := range g.adj[id] {
				if _, seen := visited[nb]; seen {
					continue
				}
				visited[nb] = struct{}{}
				next = append(next, nb)
			}
		}
		sort.Strings(next) // deterministic traversal order
		frontier = next
	}
	return visited, nil
}
