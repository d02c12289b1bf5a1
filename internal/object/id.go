package object

import "sync/atomic"

// ID is an opaque, process-wide monotonically increasing non-zero
// identifier. Equality and hashing are identity — two headers share an
// ID only if they are the same header.
type ID uint64

var nextID uint64

// NewID returns the next process-wide unique ID. Never reused within a
// process, mirroring the atomic fetch-and-add counter in
// original_source/src/object.rs's ObjectId::new.
func NewID() ID {
	return ID(atomic.AddUint64(&nextID, 1))
}
