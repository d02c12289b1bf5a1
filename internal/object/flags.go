package object

// Flags is the per-header bitset described in spec §3/§4.1. This
// implementation keeps flags in their own word rather than packing them
// into the low bits of the prev/next list pointers: Go's garbage
// collector must be able to recognize every *Header as an untagged
// pointer, so stealing its low bits (safe in the C/Rust original, where
// the collector owns raw allocation) is not available here. Spec §4.1
// explicitly allows this non-packed representation.
type Flags uint8

const (
	// FlagTracked marks a header as currently linked into some
	// generation's list.
	FlagTracked Flags = 1 << iota
	// FlagCollecting marks a header as a member of the active
	// collection set S.
	FlagCollecting
	// FlagUnreachable marks a header as tentatively unreachable during
	// the current pass (move_unreachable / handle_finalizers).
	FlagUnreachable
	// FlagFinalized marks that this header's finalizer has already run;
	// it must never run twice.
	FlagFinalized
	// FlagHasFinalizer is a static property of the object's type: does
	// it carry a finalizer at all.
	FlagHasFinalizer
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }
func (f *Flags) set(bit Flags)     { *f |= bit }
func (f *Flags) clear(bit Flags)   { *f &^= bit }
