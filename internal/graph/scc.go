package graph

import "github.com/amirhosseinghanipour/gocyclegc/internal/object"

// tarjanState holds one run's working state, translated from
// pkg/memory/scc.go's TarjanState (index/lowlink/on_stack arrays plus
// an explicit stack) into Go maps keyed by object.ID instead of
// array-index-with-modulo, since this graph's ids aren't dense.
type tarjanState struct {
	index   map[object.ID]int
	lowlink map[object.ID]int
	onStack map[object.ID]bool
	stack   []object.ID
	counter int
	sccs    [][]object.ID
}

// DetectCycles runs Tarjan's algorithm over the whole snapshot and
// returns every strongly connected component of size >= 1 that is
// actually a cycle: multi-node SCCs always count, and a single-node
// SCC counts only if that node has a self-edge (spec §4.3).
func (g *Graph) DetectCycles() [][]object.ID {
	st := &tarjanState{
		index:   make(map[object.ID]int),
		lowlink: make(map[object.ID]int),
		onStack: make(map[object.ID]bool),
	}
	for id := range g.members {
		if _, visited := st.index[id]; !visited {
			g.strongConnect(id, st)
		}
	}
	return st.sccs
}

func (g *Graph) strongConnect(v object.ID, st *tarjanState) {
	st.index[v] = st.counter
	st.lowlink[v] = st.counter
	st.counter++
	st.stack = append(st.stack, v)
	st.onStack[v] = true

	for _, w := range g.Referents(v) {
		if _, visited := st.index[w]; !visited {
			g.strongConnect(w, st)
			if st.lowlink[w] < st.lowlink[v] {
				st.lowlink[v] = st.lowlink[w]
			}
		} else if st.onStack[w] {
			if st.index[w] < st.lowlink[v] {
				st.lowlink[v] = st.index[w]
			}
		}
	}

	if st.lowlink[v] != st.index[v] {
		return
	}

	var scc []object.ID
	for {
		n := len(st.stack) - 1
		w := st.stack[n]
		st.stack = st.stack[:n]
		st.onStack[w] = false
		scc = append(scc, w)
		if w == v {
			break
		}
	}

	if len(scc) > 1 || hasSelfEdge(g, scc[0]) {
		st.sccs = append(st.sccs, scc)
	}
}

func hasSelfEdge(g *Graph, id object.ID) bool {
	for _, to := range g.Referents(id) {
		if to == id {
			return true
		}
	}
	return false
}
