package collector

import "github.com/amirhosseinghanipour/gocyclegc/internal/object"

// Hooks are the host callbacks a Collector invokes during clear_unreachable
// and handle_finalizers (spec §4.4, §4.5). Both are optional: a nil
// Finalize treats every finalizer as having run successfully, and a nil
// Deallocate makes reclaiming an object a no-op beyond untracking it
// (the embedding host owns the actual memory, spec §1).
type Hooks struct {
	// Finalize runs h's finalizer. A returned error, or a recovered
	// panic, is treated the same way: the finalizer did not complete,
	// so h is not marked finalized and stays in the uncollectable
	// quarantine; a later pass runs it again only if the host tracks h
	// again.
	Finalize func(h *object.Header) error

	// Deallocate is invoked once per object in the reclaimable set U',
	// after it has been untracked, so the host can release the
	// underlying storage.
	Deallocate func(h *object.Header)
}
