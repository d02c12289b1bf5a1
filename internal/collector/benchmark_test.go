package collector

import (
	"testing"

	"github.com/amirhosseinghanipour/gocyclegc/internal/generation"
	"github.com/amirhosseinghanipour/gocyclegc/internal/object"
)

func BenchmarkRun_AllGarbage(b *testing.B) {
	for i := 0; i < b.N; i++ {
		mgr := generation.NewManager()
		for j := 0; j < 200; j++ {
			h := object.New("node", object.Absent, false)
			h.SetRefcount(0)
			mgr.Track(h)
		}
		c := New(mgr, Hooks{})
		if _, err := c.Run(0); err != nil {
			b.Fatalf("Run: %v", err)
		}
	}
}

func BenchmarkRun_ChainOfCycles(b *testing.B) {
	for i := 0; i < b.N; i++ {
		mgr := generation.NewManager()
		for j := 0; j < 100; j++ {
			a := object.New("node", object.Absent, false)
			c := object.New("node", object.Absent, false)
			a.Payload = object.NewSequence(c.ID)
			c.Payload = object.NewSequence(a.ID)
			a.SetRefcount(1)
			c.SetRefcount(1)
			mgr.Track(a)
			mgr.Track(c)
		}
		col := New(mgr, Hooks{})
		if _, err := col.Run(0); err != nil {
			b.Fatalf("Run: %v", err)
		}
	}
}

func BenchmarkCollectIfNeeded_BelowThreshold(b *testing.B) {
	mgr := generation.NewManager()
	col := New(mgr, Hooks{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := col.CollectIfNeeded(); err != nil {
			b.Fatalf("CollectIfNeeded: %v", err)
		}
	}
}
