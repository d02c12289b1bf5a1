package object

import (
	"sync/atomic"

	"github.com/amirhosseinghanipour/gocyclegc/internal/gcerrors"
)

// Header is the per-tracked-object record owned by the generation
// manager (spec §3). The host allocates and frees the object itself;
// this Header is the collector's shadow metadata for it.
type Header struct {
	ID ID

	// refcount is the "true" count maintained by the host. Modeled as
	// atomic because the out-of-scope host inc/dec traffic (spec §1)
	// may race with a reader here; the collector itself only reads it
	// while holding the facade's writer lock during a pass.
	refcount int64

	// ShadowRefs is scratch space used only during an active collection
	// pass (spec invariant 3: dead outside a pass, do not read it).
	// Left as a plain field: the collector owns exclusive access to it
	// for the duration of a pass, so no atomics are needed here.
	ShadowRefs int64

	Flags Flags

	// Prev, Next thread this header into exactly one generation's
	// circular list. A header that was never tracked points to itself;
	// one that has been unlinked or drained holds nil. A plain pointer
	// pair, not bit-packed — see flags.go for why.
	Prev, Next *Header

	TypeTag string
	Payload Payload

	weakRefs      []ID
	finalizerRefs []ID
}

// New creates a header with refcount 1 and all bits clear except
// FlagHasFinalizer, which is a static property of the type.
func New(typeTag string, payload Payload, hasFinalizer bool) *Header {
	h := &Header{
		ID:       NewID(),
		refcount: 1,
		TypeTag:  typeTag,
		Payload:  payload,
	}
	h.Prev, h.Next = h, h
	if hasFinalizer {
		h.Flags.set(FlagHasFinalizer)
	}
	return h
}

// Refcount returns the current host-maintained reference count.
func (h *Header) Refcount() int64 { return atomic.LoadInt64(&h.refcount) }

// SetRefcount overwrites the refcount directly. Used by test harnesses
// and hosts that construct a header with external holders already
// counted in.
func (h *Header) SetRefcount(n int64) { atomic.StoreInt64(&h.refcount, n) }

// Incref increments the refcount and returns the new value.
func (h *Header) Incref() int64 { return atomic.AddInt64(&h.refcount, 1) }

// Decref decrements the refcount and returns the new value. Decrementing
// below zero is a fatal invariant violation (spec §4.1): the host must
// never drop a refcount that is already zero.
func (h *Header) Decref() (int64, error) {
	for {
		cur := atomic.LoadInt64(&h.refcount)
		if cur <= 0 {
			return cur, gcerrors.ReferenceCountError("decref on object %d with refcount %d", h.ID, cur)
		}
		if atomic.CompareAndSwapInt64(&h.refcount, cur, cur-1) {
			return cur - 1, nil
		}
	}
}

// SetFinalizer mutates HasFinalizer. Spec §4.1: only allowed when the
// header is not currently part of an active collection set.
func (h *Header) SetFinalizer(has bool) error {
	if h.Flags.has(FlagCollecting) {
		return gcerrors.Internal("cannot change finalizer state of object %d mid-collection", h.ID)
	}
	if has {
		h.Flags.set(FlagHasFinalizer)
	} else {
		h.Flags.clear(FlagHasFinalizer)
	}
	return nil
}

func (h *Header) HasFinalizer() bool  { return h.Flags.has(FlagHasFinalizer) }
func (h *Header) IsTracked() bool     { return h.Flags.has(FlagTracked) }
func (h *Header) IsCollecting() bool  { return h.Flags.has(FlagCollecting) }
func (h *Header) IsUnreachable() bool { return h.Flags.has(FlagUnreachable) }
func (h *Header) IsFinalized() bool   { return h.Flags.has(FlagFinalized) }

// The Mark*/Clear* methods below are the only way sibling packages
// (internal/generation, internal/collector) flip collection-time bits;
// the generation manager is the sole owner of header lifecycle (spec §3).

func (h *Header) MarkTracked()      { h.Flags.set(FlagTracked) }
func (h *Header) ClearTracked()     { h.Flags.clear(FlagTracked) }
func (h *Header) MarkCollecting()   { h.Flags.set(FlagCollecting) }
func (h *Header) ClearCollecting()  { h.Flags.clear(FlagCollecting) }
func (h *Header) MarkUnreachable()  { h.Flags.set(FlagUnreachable) }
func (h *Header) ClearUnreachable() { h.Flags.clear(FlagUnreachable) }
func (h *Header) MarkFinalized()    { h.Flags.set(FlagFinalized) }
