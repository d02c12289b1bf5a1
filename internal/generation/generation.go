// Package generation implements the age-cohort pools the collector
// promotes survivors through (spec §3, §4.2).
package generation

import "github.com/amirhosseinghanipour/gocyclegc/internal/object"

// Generation is one age cohort: an intrusive, circular, doubly-linked
// list of headers threaded through a sentinel, plus a population
// counter and promotion threshold.
//
// Grounded on pkg/memory/region.go's Region type (explicit hierarchy
// struct with an Objects slice and lifecycle methods), adapted from a
// slice-of-pointers to an intrusive list so append/unlink stay O(1) as
// spec §4.2 requires.
type Generation struct {
	sentinel  object.Header // never tracked; Prev/Next only
	Threshold int
	Count     int
}

// New creates an empty generation with the given promotion threshold.
func New(threshold int) *Generation {
	g := &Generation{Threshold: threshold}
	g.sentinel.Prev = &g.sentinel
	g.sentinel.Next = &g.sentinel
	return g
}

// Append inserts h at the tail of the list (just before the sentinel)
// in O(1) and increments Count.
func (g *Generation) Append(h *object.Header) {
	tail := g.sentinel.Prev
	tail.Next = h
	h.Prev = tail
	h.Next = &g.sentinel
	g.sentinel.Prev = h
	h.MarkTracked()
	g.Count++
}

// Unlink removes h from the list in O(1) and decrements Count. The
// caller must ensure h is currently a member of this generation's list
// (spec §4.2 precondition).
func (g *Generation) Unlink(h *object.Header) {
	h.Prev.Next = h.Next
	h.Next.Prev = h.Prev
	h.Prev, h.Next = nil, nil
	h.ClearTracked()
	g.Count--
}

// Drain empties the list, returning every member in insertion order and
// resetting Count to zero.
func (g *Generation) Drain() []*object.Header {
	out := make([]*object.Header, 0, g.Count)
	for cur := g.sentinel.Next; cur != &g.sentinel; {
		next := cur.Next
		cur.Prev, cur.Next = nil, nil
		out = append(out, cur)
		cur = next
	}
	g.sentinel.Prev = &g.sentinel
	g.sentinel.Next = &g.sentinel
	g.Count = 0
	return out
}

// Members returns every header currently in the list, in list order,
// without mutating it. Used by the collector to snapshot a generation
// before merging it into the collection set.
func (g *Generation) Members() []*object.Header {
	out := make([]*object.Header, 0, g.Count)
	for cur := g.sentinel.Next; cur != &g.sentinel; cur = cur.Next {
		out = append(out, cur)
	}
	return out
}

// ShouldCollect reports whether Count has crossed Threshold.
func (g *Generation) ShouldCollect() bool { return g.Count >= g.Threshold }
