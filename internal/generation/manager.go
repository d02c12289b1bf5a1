package generation

import (
	"github.com/amirhosseinghanipour/gocyclegc/internal/gcerrors"
	"github.com/amirhosseinghanipour/gocyclegc/internal/object"
)

// NumGenerations is the fixed number of age-based generations (spec §3:
// exactly three, gen-2 is the oldest).
const NumGenerations = 3

// DefaultThresholds mirrors original_source/src/generation.rs's
// GenerationManager::new: 700 for gen-0, 10 for gen-1 and gen-2.
var DefaultThresholds = [NumGenerations]int{700, 10, 10}

// Manager owns the three generations plus the permanent bucket, and is
// the exclusive owner of every tracked header's lifecycle (spec §3).
type Manager struct {
	gens      [NumGenerations]*Generation
	permanent *Generation

	// secondary[i] counts full collections of generation i-1 since the
	// last collection of generation i (spec §4.2); index 0 is unused.
	secondary [NumGenerations]int

	// objects indexes every tracked header by id for O(1) untrack/
	// lookup; resident is which generation index currently holds it.
	objects  map[object.ID]*object.Header
	resident map[object.ID]int

	collecting     bool
	collectingGen  int
	collectionRuns int
}

// NewManager creates a manager with the default thresholds.
func NewManager() *Manager {
	m := &Manager{
		objects:       make(map[object.ID]*object.Header),
		resident:      make(map[object.ID]int),
		collectingGen: -1,
	}
	for i := range m.gens {
		m.gens[i] = New(DefaultThresholds[i])
	}
	m.permanent = New(0)
	return m
}

// Generation returns generation idx (0, 1, or 2).
func (m *Manager) Generation(idx int) (*Generation, error) {
	if idx < 0 || idx >= NumGenerations {
		return nil, gcerrors.InvalidGeneration(idx)
	}
	return m.gens[idx], nil
}

// Permanent returns the never-collected permanent bucket.
func (m *Manager) Permanent() *Generation { return m.permanent }

// Track sets FlagTracked and appends h to generation 0.
func (m *Manager) Track(h *object.Header) error {
	if h == nil {
		return gcerrors.Internal("nil header")
	}
	if _, exists := m.objects[h.ID]; exists {
		return gcerrors.AlreadyTracked
	}
	m.gens[0].Append(h)
	m.objects[h.ID] = h
	m.resident[h.ID] = 0
	return nil
}

// TrackBulk tracks many headers into generation 0 in one call,
// skipping — rather than failing on — any already tracked or nil entry
// (spec §7: a null pointer at the boundary must not panic; a bulk call
// reports by count rather than an error list, so a nil element is
// treated the same way an already-tracked one is, simply not counted).
// Grounded in original_source/src/generation.rs's
// bulk_add_to_generation0 (spec supplement, SPEC_FULL.md §5).
func (m *Manager) TrackBulk(headers []*object.Header) int {
	added := 0
	for _, h := range headers {
		if h == nil {
			continue
		}
		if _, exists := m.objects[h.ID]; exists {
			continue
		}
		m.gens[0].Append(h)
		m.objects[h.ID] = h
		m.resident[h.ID] = 0
		added++
	}
	return added
}

// Untrack locates and unlinks the header with the given id.
func (m *Manager) Untrack(id object.ID) error {
	h, ok := m.objects[id]
	if !ok {
		return gcerrors.NotTracked
	}
	genIdx := m.resident[id]
	m.gens[genIdx].Unlink(h)
	delete(m.objects, id)
	delete(m.resident, id)
	return nil
}

// Lookup returns the header for id, if tracked.
func (m *Manager) Lookup(id object.ID) (*object.Header, bool) {
	h, ok := m.objects[id]
	return h, ok
}

// AllTracked returns every currently tracked header, in no particular
// order. Used by the facade layer to build a whole-heap graph snapshot
// for diagnostics (GetReferrers/GetReferents) outside of a collection
// pass, where the collector's own snapshot is scoped only to the set
// it last collected.
func (m *Manager) AllTracked() []*object.Header {
	out := make([]*object.Header, 0, len(m.objects))
	for _, h := range m.objects {
		out = append(out, h)
	}
	return out
}

// TotalTracked returns the number of headers tracked across all three
// generations (the permanent bucket is excluded, matching spec §6's
// get_count/total_tracked semantics).
func (m *Manager) TotalTracked() int { return len(m.objects) }

// StartCollection asserts no concurrent collection is in progress and
// marks generationIdx as the active target.
func (m *Manager) StartCollection(generationIdx int) error {
	if m.collecting {
		return gcerrors.CollectionInProgress
	}
	if generationIdx < 0 || generationIdx >= NumGenerations {
		return gcerrors.InvalidGeneration(generationIdx)
	}
	m.collecting = true
	m.collectingGen = generationIdx
	return nil
}

// EndCollection clears the active-collection marker.
func (m *Manager) EndCollection() {
	m.collecting = false
	m.collectingGen = -1
	m.collectionRuns++
}

// IsCollecting reports whether a pass is currently in flight.
func (m *Manager) IsCollecting() bool { return m.collecting }

// CollectionRuns returns the lifetime count of completed collection
// passes, supplementing spec §6's Stats record per SPEC_FULL.md §5.
func (m *Manager) CollectionRuns() int { return m.collectionRuns }

// MergeYoungerInto splices every generation younger than genIdx into
// genIdx's list, because collecting generation N implicitly collects
// 0..N (spec §4.2, §4.4 step 1). Returns the full membership of the
// resulting collection set S, updating resident so a later Untrack
// still finds merged headers in their new list.
func (m *Manager) MergeYoungerInto(genIdx int) []*object.Header {
	target := m.gens[genIdx]
	for younger := 0; younger < genIdx; younger++ {
		for _, h := range m.gens[younger].Drain() {
			target.Append(h)
			m.resident[h.ID] = genIdx
		}
	}
	return target.Members()
}

// PromoteSurvivors moves every remaining header of generation `from`
// into generation `from+1` (spec §4.2, §4.4 step 8). No-op when from is
// already the oldest generation. It does not touch any secondary
// counter: promotion runs on every single pass, while a secondary
// counter must accumulate across repeated younger-generation passes
// until the generation it belongs to is itself collected — see
// RetireSecondary.
func (m *Manager) PromoteSurvivors(from int) error {
	if from < 0 || from >= NumGenerations {
		return gcerrors.InvalidGeneration(from)
	}
	if from == NumGenerations-1 {
		return nil
	}
	survivors := m.gens[from].Drain()
	for _, h := range survivors {
		m.gens[from+1].Append(h)
		m.resident[h.ID] = from + 1
	}
	return nil
}

// NoteYoungerCollection increments the secondary counter of the
// generation directly older than justCollected by one full collection
// of justCollected, used by ChooseGenerationToCollect.
func (m *Manager) NoteYoungerCollection(justCollected int) {
	if justCollected+1 < NumGenerations {
		m.secondary[justCollected+1]++
	}
}

// RetireSecondary resets justCollected's own secondary counter to zero.
// Called once a pass has actually collected justCollected, so the count
// of younger-generation collections "since the last collection of
// justCollected" restarts from here (spec §4.2). Collecting generation
// 0 has no secondary counter to retire (index 0 is unused); the call is
// harmless either way.
func (m *Manager) RetireSecondary(justCollected int) {
	if justCollected >= 0 && justCollected < NumGenerations {
		m.secondary[justCollected] = 0
	}
}

// ChooseGenerationToCollect implements spec §4.2: gen-2 if its
// secondary counter crossed its threshold; else gen-1 if its secondary
// counter crossed its threshold; else gen-0 if its primary count
// crossed its threshold; else none (reports ok=false).
func (m *Manager) ChooseGenerationToCollect() (idx int, ok bool) {
	if m.secondary[2] >= m.gens[2].Threshold {
		return 2, true
	}
	if m.secondary[1] >= m.gens[1].Threshold {
		return 1, true
	}
	if m.gens[0].ShouldCollect() {
		return 0, true
	}
	return 0, false
}

// SetThreshold overwrites generation idx's promotion threshold.
func (m *Manager) SetThreshold(idx, threshold int) error {
	g, err := m.Generation(idx)
	if err != nil {
		return err
	}
	g.Threshold = threshold
	return nil
}

// Threshold reads generation idx's promotion threshold.
func (m *Manager) Threshold(idx int) (int, error) {
	g, err := m.Generation(idx)
	if err != nil {
		return 0, err
	}
	return g.Threshold, nil
}

// GenerationCount reads generation idx's current population.
func (m *Manager) GenerationCount(idx int) (int, error) {
	g, err := m.Generation(idx)
	if err != nil {
		return 0, err
	}
	return g.Count, nil
}
