package object

import "testing"

func TestNewHeaderDefaults(t *testing.T) {
	h := New("int", NewInt(42), false)
	if h.Refcount() != 1 {
		t.Errorf("expected refcount 1, got %d", h.Refcount())
	}
	if h.ID == 0 {
		t.Error("id should not be zero")
	}
	if h.HasFinalizer() {
		t.Error("should not have a finalizer by default")
	}
	if h.IsTracked() || h.IsCollecting() || h.IsUnreachable() || h.IsFinalized() {
		t.Error("all collection-time bits should start clear")
	}
}

func TestIDsAreUnique(t *testing.T) {
	a := New("int", NewInt(1), false)
	b := New("int", NewInt(2), false)
	if a.ID == b.ID {
		t.Errorf("expected distinct ids, got %d and %d", a.ID, b.ID)
	}
}

func TestIncrefDecref(t *testing.T) {
	h := New("int", NewInt(1), false)
	if got := h.Incref(); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got, err := h.Decref(); err != nil || got != 1 {
		t.Errorf("expected (1, nil), got (%d, %v)", got, err)
	}
	if got, err := h.Decref(); err != nil || got != 0 {
		t.Errorf("expected (0, nil), got (%d, %v)", got, err)
	}
	if _, err := h.Decref(); err == nil {
		t.Error("decref below zero should be a fatal invariant violation")
	}
}

func TestSetFinalizerRejectedDuringCollection(t *testing.T) {
	h := New("int", NewInt(1), false)
	h.MarkCollecting()
	if err := h.SetFinalizer(true); err == nil {
		t.Error("expected error setting finalizer mid-collection")
	}
	h.ClearCollecting()
	if err := h.SetFinalizer(true); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !h.HasFinalizer() {
		t.Error("finalizer flag should now be set")
	}
}

func TestPayloadChildren(t *testing.T) {
	a, b, c := ID(1), ID(2), ID(3)

	if got := NewInt(5).Children(); got != nil {
		t.Errorf("int payload should yield no children, got %v", got)
	}
	if got := Absent.Children(); got != nil {
		t.Errorf("absent payload should yield no children, got %v", got)
	}

	seq := NewSequence(a, b, c)
	if got := seq.Children(); len(got) != 3 || got[0] != a || got[2] != c {
		t.Errorf("sequence children out of order: %v", got)
	}

	mapping := NewMapping(MapEntry{Key: a, Value: b}, MapEntry{Key: b, Value: c})
	got := mapping.Children()
	want := []ID{a, b, b, c}
	if len(got) != len(want) {
		t.Fatalf("expected %d children, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("mapping child %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}
