package collector

// Stats accumulates lifetime counters across every pass a Collector has
// run, supplementing spec §6's GCStats record with the collections/
// collected fields original_source/src/gc.rs's GCStats carries but never
// populates (SPEC_FULL.md §5).
type Stats struct {
	CollectionsRun    int
	ObjectsCollected  int
	ObjectsQuarantined int
}
