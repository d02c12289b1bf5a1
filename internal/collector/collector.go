// Package collector implements the generational cycle-detecting pass
// itself: the eight-phase algorithm spec §4.4 describes, built on the
// shadow-refcount idea pkg/memory/symmetric.go prototypes (there a
// plain external/internal refcount split on SymmetricObj; here the same
// split computed per-pass into Header.ShadowRefs instead of being
// carried permanently) and on internal/graph's BFS over a snapshot for
// the reachability and partitioning steps.
package collector

import (
	"sort"

	"github.com/amirhosseinghanipour/gocyclegc/internal/gcerrors"
	"github.com/amirhosseinghanipour/gocyclegc/internal/generation"
	"github.com/amirhosseinghanipour/gocyclegc/internal/graph"
	"github.com/amirhosseinghanipour/gocyclegc/internal/object"
)

// smallHeapThreshold is the collect_fast cutover point: below it, a
// pass runs directly against generation 2 (hence the whole heap, via
// MergeYoungerInto) rather than waiting for the normal generational
// threshold to trip, because the fixed cost of a pass is cheap enough
// at this size to not bother being incremental about it. Grounded on
// original_source/src/collector.rs's collect_fast, whose own cutover is
// a literal object count of 100.
const smallHeapThreshold = 100

// Debug flag bits (spec §6). Only SaveAll changes collector behavior;
// the rest (Stats, Collectable, Uncollectable, Instances, Objects,
// Leak) are reporting toggles a host-side diagnostics layer reads back
// via DebugFlags() — this package has no logger of its own to gate.
const (
	DebugStats uint32 = 1 << iota
	DebugCollectable
	DebugUncollectable
	DebugInstances
	DebugObjects
	DebugSaveAll
	DebugLeak
)

// Collector runs collection passes against a generation.Manager. It is
// not itself concurrency-safe; internal/gc is the layer that serializes
// access to one Collector with a mutex.
type Collector struct {
	mgr           *generation.Manager
	hooks         Hooks
	uncollectable []*object.Header
	debugFlags    uint32
	state         State
	stats         Stats
}

// New creates a Collector over mgr. hooks may be the zero value.
func New(mgr *generation.Manager, hooks Hooks) *Collector {
	return &Collector{mgr: mgr, hooks: hooks}
}

// State reports which phase of the state machine a pass is currently
// in; Idle outside of a pass.
func (c *Collector) State() State { return c.state }

// Stats returns the lifetime counters accumulated so far.
func (c *Collector) Stats() Stats { return c.stats }

// Uncollectable returns every header currently quarantined: each
// unreachable object that still carried an unrun finalizer when its pass
// began, everything such an object reaches within the unreachable set,
// and, while DebugSaveAll is set, every other unreachable object too.
func (c *Collector) Uncollectable() []*object.Header {
	out := make([]*object.Header, len(c.uncollectable))
	copy(out, c.uncollectable)
	return out
}

// ClearUncollectable empties the quarantine list without running any
// finalizer or deallocate hook — the host is asserting it has already
// dealt with these objects out of band (spec §6).
func (c *Collector) ClearUncollectable() {
	c.uncollectable = nil
}

func (c *Collector) SetDebugFlags(flags uint32) { c.debugFlags = flags }
func (c *Collector) DebugFlags() uint32         { return c.debugFlags }

// Collect runs a pass against generation 2 unconditionally, regardless
// of threshold state (SPEC_FULL.md §2, Open Question 1: no-arg collect
// always targets the oldest generation).
func (c *Collector) Collect() (int, error) {
	return c.Run(generation.NumGenerations - 1)
}

// CollectGeneration runs a pass against exactly generationIdx, merging
// every younger generation into it first.
func (c *Collector) CollectGeneration(generationIdx int) (int, error) {
	return c.Run(generationIdx)
}

// CollectIfNeeded runs a pass only if some generation's threshold has
// actually tripped, picking the oldest such generation (spec §4.2).
func (c *Collector) CollectIfNeeded() (int, error) {
	idx, ok := c.mgr.ChooseGenerationToCollect()
	if !ok {
		return 0, nil
	}
	return c.Run(idx)
}

// CollectFast is the collect_fast shortcut: under smallHeapThreshold
// tracked objects, always run a full pass against generation 2; at or
// above it, defer to the normal threshold-driven policy.
func (c *Collector) CollectFast() (int, error) {
	if c.mgr.TotalTracked() < smallHeapThreshold {
		return c.Collect()
	}
	return c.CollectIfNeeded()
}

// Run executes one full collection pass against genIdx, implementing
// spec §4.4's eight phases in order. It returns the number of objects
// actually reclaimed (the uncollectable quarantine is not counted).
func (c *Collector) Run(genIdx int) (int, error) {
	if err := c.mgr.StartCollection(genIdx); err != nil {
		return 0, err
	}
	defer c.mgr.EndCollection()

	// Phase 1: Merge. Collecting generation N implicitly collects
	// every younger generation too.
	c.state = Merging
	set := c.mgr.MergeYoungerInto(genIdx)
	members := make(map[object.ID]*object.Header, len(set))
	for _, h := range set {
		members[h.ID] = h
	}

	// Phase 2: update_refs. Snapshot the host refcount into scratch
	// space and mark every member as part of the active collection set.
	c.state = Updating
	for _, h := range set {
		h.ShadowRefs = h.Refcount()
		h.MarkCollecting()
	}

	// Phase 3: subtract_refs. Every internal edge within the set no
	// longer counts toward "held from outside the set": decrement the
	// referent's shadow count for each direct or finalizer-link edge
	// whose source and target are both members. Weak edges never
	// contributed to the host refcount, so they are never subtracted.
	c.state = Subtracting
	for _, h := range set {
		for _, e := range h.Edges() {
			if e.Type == object.Weak {
				continue
			}
			if target, ok := members[e.To]; ok {
				target.ShadowRefs--
			}
		}
	}

	// Phase 4: move_unreachable. Anything left with ShadowRefs <= 0 is
	// only held by other set members, i.e. has no external root; expand
	// from the genuinely externally-rooted members via BFS (ignoring
	// weak edges) to keep anything transitively reachable from a live
	// root, and flag the remainder as tentatively unreachable.
	c.state = Partitioning
	g := graph.Build(set)
	var roots []object.ID
	for _, h := range set {
		if h.ShadowRefs > 0 {
			roots = append(roots, h.ID)
		}
	}
	reachable := g.FindReachable(roots)
	unreachable := make(map[object.ID]*object.Header)
	for id, h := range members {
		if !reachable[id] {
			h.MarkUnreachable()
			unreachable[id] = h
		}
	}

	// Phase 5: handle_finalizers. Split the unreachable set into F
	// (still carries an unrun finalizer) and the rest. Anything in U
	// transitively reachable from F — including F itself — must be
	// quarantined rather than reclaimed, because running a finalizer
	// can resurrect references into what would otherwise be freed.
	// An object whose finalizer already ran in a previous pass
	// (FlagFinalized) is no longer in F and is free to be reclaimed
	// normally.
	c.state = Finalizing
	var finalizerRoots []object.ID
	for id, h := range unreachable {
		if h.HasFinalizer() && !h.IsFinalized() {
			finalizerRoots = append(finalizerRoots, id)
		}
	}
	sort.Slice(finalizerRoots, func(i, j int) bool { return finalizerRoots[i] < finalizerRoots[j] })

	quarantineIDs := closureWithin(finalizerRoots, unreachable)
	for _, id := range finalizerRoots {
		c.runFinalizer(unreachable[id])
	}

	// Phase 6: clear_unreachable. Reclaim everything in U that did not
	// end up quarantined; route the rest to the uncollectable list.
	// With the SaveAll debug bit set, nothing in U is ever reclaimed —
	// every plain-unreachable object is quarantined for inspection too
	// (SPEC_FULL.md §2, Open Question 3), so finalizer-driven
	// quarantine and SaveAll quarantine share one destination list.
	c.state = Clearing
	saveAll := c.debugFlags&DebugSaveAll != 0
	var reclaimed, quarantined []*object.Header
	for id, h := range unreachable {
		if quarantineIDs[id] || saveAll {
			quarantined = append(quarantined, h)
		} else {
			reclaimed = append(reclaimed, h)
		}
	}
	sort.Slice(reclaimed, func(i, j int) bool { return reclaimed[i].ID < reclaimed[j].ID })
	sort.Slice(quarantined, func(i, j int) bool { return quarantined[i].ID < quarantined[j].ID })

	for _, h := range quarantined {
		if err := c.mgr.Untrack(h.ID); err != nil {
			return 0, gcerrors.Internal("untracking quarantined object %d: %v", h.ID, err)
		}
		h.ClearCollecting()
		c.uncollectable = append(c.uncollectable, h)
	}
	for _, h := range reclaimed {
		if err := c.mgr.Untrack(h.ID); err != nil {
			return 0, gcerrors.Internal("untracking reclaimed object %d: %v", h.ID, err)
		}
		if c.hooks.Deallocate != nil {
			c.hooks.Deallocate(h)
		}
	}
	// A weak edge never keeps its target alive, so once the target is
	// reclaimed every still-tracked holder drops its weak edge to it.
	if len(reclaimed) > 0 {
		for _, holder := range c.mgr.AllTracked() {
			for _, h := range reclaimed {
				holder.DropWeakRef(h.ID)
			}
		}
	}

	// Phase 7: restore_refs. Every survivor (anything never flagged
	// unreachable) leaves the active collection set; ShadowRefs is dead
	// scratch space again until the next pass.
	c.state = Restoring
	for id, h := range members {
		if _, dead := unreachable[id]; dead {
			continue
		}
		h.ClearCollecting()
	}

	// Phase 8: Promotion. Survivors of a non-oldest generation age into
	// the next one; gen-2 has nowhere further to go. Retiring genIdx's
	// own secondary counter and noting the collection against genIdx+1
	// must both happen here, and in this order: genIdx was just
	// collected, so its counter restarts at zero, while the collection
	// itself still counts toward genIdx+1's threshold.
	c.state = Promoting
	c.mgr.RetireSecondary(genIdx)
	c.mgr.NoteYoungerCollection(genIdx)
	if err := c.mgr.PromoteSurvivors(genIdx); err != nil {
		return 0, err
	}

	c.stats.CollectionsRun++
	c.stats.ObjectsCollected += len(reclaimed)
	c.stats.ObjectsQuarantined += len(quarantined)
	c.state = Idle
	return len(reclaimed), nil
}

// runFinalizer invokes the host finalizer hook for h, catching both an
// returned error and a panic: either way h is left unfinalized in the
// uncollectable list, and its finalizer runs again only if the host
// tracks h again and a later pass finds it unreachable. A nil hook means the
// host has nothing to do, so the finalizer trivially "succeeds".
func (c *Collector) runFinalizer(h *object.Header) {
	if c.hooks.Finalize == nil {
		h.MarkFinalized()
		return
	}
	succeeded := false
	func() {
		defer func() {
			recover()
		}()
		if err := c.hooks.Finalize(h); err == nil {
			succeeded = true
		}
	}()
	if succeeded {
		h.MarkFinalized()
	}
}

// closureWithin runs a BFS from roots, following direct and
// finalizer-link edges, strictly within set. Used to find everything a
// not-yet-finalized object keeps alive inside the unreachable set, so
// the whole group can be quarantined together.
func closureWithin(roots []object.ID, set map[object.ID]*object.Header) map[object.ID]bool {
	visited := make(map[object.ID]bool)
	queue := make([]object.ID, 0, len(roots))
	for _, r := range roots {
		if _, ok := set[r]; !ok || visited[r] {
			continue
		}
		visited[r] = true
		queue = append(queue, r)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range set[cur].Edges() {
			if e.Type == object.Weak {
				continue
			}
			if _, ok := set[e.To]; !ok || visited[e.To] {
				continue
			}
			visited[e.To] = true
			queue = append(queue, e.To)
		}
	}
	return visited
}
