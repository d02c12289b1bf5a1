package gc

// Stats is the boundary-facing snapshot of collector health (spec §6's
// GCStats), extended with the collections/collected lifetime counters
// original_source/src/gc.rs's own GCStats declares but never populates
// (SPEC_FULL.md §5).
type Stats struct {
	TotalTracked     int
	GenerationCounts [3]int
	Uncollectable    int
	Collections      int
	Collected        int
}
