package object

import "testing"

func TestEdgesCombinesPayloadAndExplicitRefs(t *testing.T) {
	a, b, c := ID(1), ID(2), ID(3)
	h := New("seq", NewSequence(a), false)
	h.AddWeakRef(b)
	h.AddFinalizerRef(c)

	edges := h.Edges()
	if len(edges) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(edges))
	}
	if edges[0].To != a || edges[0].Type != Direct {
		t.Errorf("expected direct edge to %d first, got %+v", a, edges[0])
	}
	if edges[1].To != b || edges[1].Type != Weak {
		t.Errorf("expected weak edge to %d, got %+v", b, edges[1])
	}
	if edges[2].To != c || edges[2].Type != FinalizerLink {
		t.Errorf("expected finalizer-link edge to %d, got %+v", c, edges[2])
	}
}

func TestDropWeakRef(t *testing.T) {
	h := New("seq", Absent, false)
	h.AddWeakRef(ID(1))
	h.AddWeakRef(ID(2))
	h.DropWeakRef(ID(1))

	edges := h.Edges()
	if len(edges) != 1 || edges[0].To != ID(2) {
		t.Errorf("expected only weak edge to 2 remaining, got %+v", edges)
	}
}
