// Package graph implements the logical object graph the collector
// reasons about during a pass: reachability and cycle enumeration over
// a snapshot of headers (spec §3, §4.3).
//
// Grounded on original_source/src/traversal.rs's ObjectGraph (forward/
// reverse adjacency maps, BFS via a queue) for the map shape, and on
// pkg/memory/scc.go's TarjanState (index/lowlink/on_stack/stack) for
// the SCC algorithm — translated from the emitted-C-string generator
// there into real Go control flow over *object.Header.
package graph

import "github.com/amirhosseinghanipour/gocyclegc/internal/object"

// Graph is a derived, read-only view over a fixed set of headers: the
// forward edges come straight from each header's own Edges(), and the
// reverse table is built once at construction time.
type Graph struct {
	members map[object.ID]*object.Header
	reverse map[object.ID][]object.ID
}

// Build constructs a Graph over members. Callers pass the exact
// snapshot they want reachability/cycle queries scoped to — for the
// collector that's the active collection set S (spec §4.4).
func Build(members []*object.Header) *Graph {
	g := &Graph{
		members: make(map[object.ID]*object.Header, len(members)),
		reverse: make(map[object.ID][]object.ID, len(members)),
	}
	for _, h := range members {
		g.members[h.ID] = h
	}
	for _, h := range members {
		for _, e := range h.Edges() {
			if _, inSet := g.members[e.To]; inSet {
				g.reverse[e.To] = append(g.reverse[e.To], h.ID)
			}
		}
	}
	return g
}

// Has reports whether id is a member of this graph's snapshot.
func (g *Graph) Has(id object.ID) bool {
	_, ok := g.members[id]
	return ok
}

// Referents returns the ids this header directly points to within the
// snapshot, following direct and finalizer-link edges only.
func (g *Graph) Referents(id object.ID) []object.ID {
	h, ok := g.members[id]
	if !ok {
		return nil
	}
	var out []object.ID
	for _, e := range h.Edges() {
		if e.Type == object.Weak {
			continue
		}
		if _, inSet := g.members[e.To]; inSet {
			out = append(out, e.To)
		}
	}
	return out
}

// Referrers returns the ids within the snapshot that directly reference
// id (reverse edges), as maintained incrementally at Build time.
func (g *Graph) Referrers(id object.ID) []object.ID {
	return g.reverse[id]
}

// FindReachable runs a breadth-first search from roots, following
// direct and finalizer-link edges and ignoring weak edges (spec §4.3).
// Roots outside the snapshot are silently ignored (they represent
// external holders, not members of S).
func (g *Graph) FindReachable(roots []object.ID) map[object.ID]bool {
	reachable := make(map[object.ID]bool, len(g.members))
	queue := make([]object.ID, 0, len(roots))
	for _, r := range roots {
		if !g.Has(r) || reachable[r] {
			continue
		}
		reachable[r] = true
		queue = append(queue, r)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.Referents(cur) {
			if !reachable[next] {
				reachable[next] = true
				queue = append(queue, next)
			}
		}
	}
	return reachable
}

// FindUnreachable returns every member id not reachable from roots.
func (g *Graph) FindUnreachable(roots []object.ID) map[object.ID]bool {
	reachable := g.FindReachable(roots)
	unreachable := make(map[object.ID]bool, len(g.members)-len(reachable))
	for id := range g.members {
		if !reachable[id] {
			unreachable[id] = true
		}
	}
	return unreachable
}
