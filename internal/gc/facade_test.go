package gc

import (
	"testing"

	"github.com/amirhosseinghanipour/gocyclegc/internal/collector"
	"github.com/amirhosseinghanipour/gocyclegc/internal/object"
)

func link(from, to *object.Header) {
	from.Payload = object.NewSequence(append(from.Payload.Seq, to.ID)...)
}

func TestFacadeTrackAndCollect(t *testing.T) {
	f := New(collector.Hooks{})
	a := object.New("node", object.Absent, false)
	a.SetRefcount(0)
	if err := f.Track(a); err != nil {
		t.Fatalf("Track: %v", err)
	}
	if f.GetCount() != 1 {
		t.Fatalf("expected 1 tracked object, got %d", f.GetCount())
	}

	collected, err := f.Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if collected != 1 {
		t.Fatalf("expected 1 collected, got %d", collected)
	}
	if f.GetCount() != 0 {
		t.Errorf("expected 0 tracked after collect, got %d", f.GetCount())
	}
}

func TestFacadeDisabledSkipsTracking(t *testing.T) {
	f := New(collector.Hooks{})
	f.Disable()
	if f.IsEnabled() {
		t.Fatal("expected facade disabled")
	}
	a := object.New("node", object.Absent, false)
	if err := f.Track(a); err != nil {
		t.Fatalf("Track on disabled facade should not error: %v", err)
	}
	if f.GetCount() != 0 {
		t.Errorf("a disabled facade must not actually track, got count %d", f.GetCount())
	}
	collected, err := f.Collect()
	if err != nil || collected != 0 {
		t.Errorf("Collect on disabled facade should be a no-op, got (%d, %v)", collected, err)
	}
}

func TestFacadeThresholds(t *testing.T) {
	f := New(collector.Hooks{})
	got, err := f.GetThreshold(0)
	if err != nil {
		t.Fatalf("GetThreshold: %v", err)
	}
	if got != 700 {
		t.Errorf("expected default gen-0 threshold 700, got %d", got)
	}
	if err := f.SetThreshold(0, 50); err != nil {
		t.Fatalf("SetThreshold: %v", err)
	}
	got, _ = f.GetThreshold(0)
	if got != 50 {
		t.Errorf("expected updated threshold 50, got %d", got)
	}
}

func TestFacadeReferrersAndReferents(t *testing.T) {
	f := New(collector.Hooks{})
	a := object.New("node", object.Absent, false)
	b := object.New("node", object.Absent, false)
	link(a, b)
	a.SetRefcount(1)
	b.SetRefcount(1)
	if err := f.Track(a); err != nil {
		t.Fatalf("Track a: %v", err)
	}
	if err := f.Track(b); err != nil {
		t.Fatalf("Track b: %v", err)
	}

	referents := f.GetReferents(a.ID)
	if len(referents) != 1 || referents[0] != b.ID {
		t.Errorf("expected a -> [b], got %v", referents)
	}
	referrers := f.GetReferrers(b.ID)
	if len(referrers) != 1 || referrers[0] != a.ID {
		t.Errorf("expected referrers of b -> [a], got %v", referrers)
	}
}

func TestFacadeTrackRejectsNilHeader(t *testing.T) {
	f := New(collector.Hooks{})
	if err := f.Track(nil); err == nil {
		t.Error("expected an error tracking a nil header, not a panic")
	}
}

func TestFacadeUncollectableRoundTrip(t *testing.T) {
	finalizeCalls := 0
	f := New(collector.Hooks{Finalize: func(h *object.Header) error {
		finalizeCalls++
		return nil
	}})
	a := object.New("node", object.Absent, true)
	a.SetRefcount(0)
	if err := f.Track(a); err != nil {
		t.Fatalf("Track: %v", err)
	}

	if _, err := f.Collect(); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if finalizeCalls != 1 {
		t.Fatalf("expected the finalizer to run once, got %d calls", finalizeCalls)
	}
	if len(f.GetUncollectable()) != 1 {
		t.Fatalf("expected 1 quarantined object, got %d", len(f.GetUncollectable()))
	}

	f.ClearUncollectable()
	if len(f.GetUncollectable()) != 0 {
		t.Error("expected uncollectable list empty after ClearUncollectable")
	}

	stats := f.GetStats()
	if stats.Collections != 1 {
		t.Errorf("expected 1 collection run recorded, got %d", stats.Collections)
	}
}
