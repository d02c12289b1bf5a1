// Package gc is the boundary facade spec §4.5/§6 describes: a single
// guarded entry point over the generation manager and collector, safe
// to call from multiple goroutines the way the embedding host's own
// threads would call across the Rust original's FFI boundary.
package gc

import (
	"sync"

	"github.com/amirhosseinghanipour/gocyclegc/internal/collector"
	"github.com/amirhosseinghanipour/gocyclegc/internal/gcerrors"
	"github.com/amirhosseinghanipour/gocyclegc/internal/generation"
	"github.com/amirhosseinghanipour/gocyclegc/internal/graph"
	"github.com/amirhosseinghanipour/gocyclegc/internal/object"
)

// Facade owns one generation manager and collector behind a single
// RWMutex, following pkg/eval/eval.go's macroTable/macroMutex pattern:
// readers (stats, counts, diagnostics) take RLock, writers (track,
// untrack, collect) take Lock. The writer lock is held for the whole
// call to Collector.Run, including while Run invokes finalizer and
// deallocate hooks; it is not released around those hooks, so a hook
// that calls back into the same Facade blocks on the lock.
type Facade struct {
	mu      sync.RWMutex
	mgr     *generation.Manager
	col     *collector.Collector
	enabled bool
	debug   uint32
}

// New creates a standalone facade with its own heap. Most callers want
// the process-wide Default() instance instead; New exists for tests and
// for hosts that deliberately want more than one independent heap.
func New(hooks collector.Hooks) *Facade {
	mgr := generation.NewManager()
	return &Facade{
		mgr:     mgr,
		col:     collector.New(mgr, hooks),
		enabled: true,
	}
}

var (
	once     sync.Once
	instance *Facade
)

// Default returns the process-wide singleton facade, created on first
// use with the default Finalizable/Deallocatable-backed hooks
// (mirroring original_source/src/gc.rs's `global::get_gc`, translated
// from `Once` + `unsafe` static into sync.Once + a package-level var).
func Default() *Facade {
	once.Do(func() {
		instance = New(defaultHooks())
	})
	return instance
}

// Init initializes the process-wide facade if it hasn't run yet, and
// returns it. An explicit alias for Default(), for a host that wants a
// visible startup call rather than relying on first-use initialization.
func Init() *Facade { return Default() }

func (f *Facade) Enable()  { f.mu.Lock(); f.enabled = true; f.mu.Unlock() }
func (f *Facade) Disable() { f.mu.Lock(); f.enabled = false; f.mu.Unlock() }

func (f *Facade) IsEnabled() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.enabled
}

// Track adds h to generation 0. A disabled facade silently accepts the
// call without tracking (spec §4.5: disabling gc never breaks plain
// refcounting, it only stops cycle collection).
func (f *Facade) Track(h *object.Header) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enabled {
		return nil
	}
	return f.mgr.Track(h)
}

// TrackBulk tracks many headers in one locked section.
func (f *Facade) TrackBulk(headers []*object.Header) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enabled {
		return 0
	}
	return f.mgr.TrackBulk(headers)
}

func (f *Facade) Untrack(id object.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enabled {
		return nil
	}
	return f.mgr.Untrack(id)
}

// Collect always targets generation 2 (SPEC_FULL.md §2, Open Question 1).
func (f *Facade) Collect() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enabled {
		return 0, nil
	}
	return f.col.Collect()
}

func (f *Facade) CollectGeneration(genIdx int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enabled {
		return 0, nil
	}
	return f.col.CollectGeneration(genIdx)
}

func (f *Facade) CollectIfNeeded() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enabled {
		return 0, nil
	}
	return f.col.CollectIfNeeded()
}

func (f *Facade) CollectFast() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enabled {
		return 0, nil
	}
	return f.col.CollectFast()
}

func (f *Facade) GetCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.mgr.TotalTracked()
}

func (f *Facade) GetGenerationCount(genIdx int) (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.mgr.GenerationCount(genIdx)
}

func (f *Facade) SetThreshold(genIdx, threshold int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mgr.SetThreshold(genIdx, threshold)
}

func (f *Facade) GetThreshold(genIdx int) (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.mgr.Threshold(genIdx)
}

func (f *Facade) SetDebug(flags uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.debug = flags
	f.col.SetDebugFlags(flags)
}

func (f *Facade) GetDebug() uint32 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.debug
}

// GetStats returns a point-in-time snapshot of collector health.
func (f *Facade) GetStats() Stats {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s := f.col.Stats()
	gen0, _ := f.mgr.GenerationCount(0)
	gen1, _ := f.mgr.GenerationCount(1)
	gen2, _ := f.mgr.GenerationCount(2)
	return Stats{
		Collections:      s.CollectionsRun,
		Collected:        s.ObjectsCollected,
		Uncollectable:    len(f.col.Uncollectable()),
		TotalTracked:     f.mgr.TotalTracked(),
		GenerationCounts: [3]int{gen0, gen1, gen2},
	}
}

func (f *Facade) GetUncollectable() []*object.Header {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.col.Uncollectable()
}

func (f *Facade) ClearUncollectable() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.col.ClearUncollectable()
}

// GetReferents returns the ids id directly points to, across the whole
// tracked heap (not scoped to any one collection set). GetReferrers
// returns the reverse: tracked ids that directly point to id — untracked
// or foreign holders are invisible to this graph by construction
// (SPEC_FULL.md §2, Open Question 2).
func (f *Facade) GetReferents(id object.ID) []object.ID {
	f.mu.RLock()
	defer f.mu.RUnlock()
	g := graph.Build(f.mgr.AllTracked())
	return g.Referents(id)
}

func (f *Facade) GetReferrers(id object.ID) []object.ID {
	f.mu.RLock()
	defer f.mu.RUnlock()
	g := graph.Build(f.mgr.AllTracked())
	return g.Referrers(id)
}

// ToReturnCode is a thin re-export so callers at a language boundary
// don't need to import internal/gcerrors directly.
func ToReturnCode(err error) gcerrors.ReturnCode { return gcerrors.ToReturnCode(err) }
