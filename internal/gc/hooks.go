package gc

import (
	"github.com/amirhosseinghanipour/gocyclegc/internal/collector"
	"github.com/amirhosseinghanipour/gocyclegc/internal/object"
)

// Finalizable is implemented by a foreign payload (object.Payload.Foreign)
// that needs to run cleanup before its header is reclaimed. The
// collector has no notion of "the object's finalizer" beyond this
// interface — it cannot call an arbitrary method on an opaque
// interface{} any other way.
type Finalizable interface {
	Finalize() error
}

// Deallocatable is implemented by a foreign payload that owns an
// external resource (a file descriptor, a native handle) to release
// once the collector has decided an object is garbage.
type Deallocatable interface {
	Deallocate()
}

// defaultHooks wires collector.Hooks against the Finalizable/
// Deallocatable interfaces above, so tracking a plain *object.Header
// with a foreign payload is enough to participate in finalization
// without the caller wiring a callback by hand.
func defaultHooks() collector.Hooks {
	return collector.Hooks{
		Finalize: func(h *object.Header) error {
			if f, ok := h.Payload.Foreign.(Finalizable); ok {
				return f.Finalize()
			}
			return nil
		},
		Deallocate: func(h *object.Header) {
			if d, ok := h.Payload.Foreign.(Deallocatable); ok {
				d.Deallocate()
			}
		},
	}
}
