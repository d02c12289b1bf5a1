package object

// ReferenceType distinguishes how one header points at another (spec
// §3, §4.3). Only Direct and FinalizerLink edges keep an object alive
// during reachability; Weak edges are recorded for diagnostics but
// never followed.
type ReferenceType int

const (
	Direct ReferenceType = iota
	Weak
	FinalizerLink
)

func (t ReferenceType) String() string {
	switch t {
	case Weak:
		return "weak"
	case FinalizerLink:
		return "finalizer-link"
	default:
		return "direct"
	}
}

// Edge is one outgoing reference from a header.
type Edge struct {
	To   ID
	Type ReferenceType
}

// Edges returns every outgoing edge of h: one Direct edge per payload
// child (spec §4.3), plus any explicitly registered weak or
// finalizer-link edges. Payload children alone cannot express weak or
// finalizer references — those are out-of-band annotations a host or
// finalizer registration adds on top of the plain data payload.
func (h *Header) Edges() []Edge {
	children := h.Payload.Children()
	out := make([]Edge, 0, len(children)+len(h.weakRefs)+len(h.finalizerRefs))
	for _, c := range children {
		out = append(out, Edge{To: c, Type: Direct})
	}
	for _, c := range h.weakRefs {
		out = append(out, Edge{To: c, Type: Weak})
	}
	for _, c := range h.finalizerRefs {
		out = append(out, Edge{To: c, Type: FinalizerLink})
	}
	return out
}

// AddWeakRef records a weak edge to target. Never followed by
// reachability (spec §9: "Weak references... never followed"); if the
// target is reclaimed, DropWeakRef (called by the collector) silently
// removes it.
func (h *Header) AddWeakRef(target ID) { h.weakRefs = append(h.weakRefs, target) }

// AddFinalizerRef records a finalizer-link edge to target: an object
// reachable only through the finalization machinery (e.g. captured by
// a registered finalizer closure), counted the same as a direct edge
// for reachability and ref-subtraction purposes (spec §4.3, §4.4).
func (h *Header) AddFinalizerRef(target ID) { h.finalizerRefs = append(h.finalizerRefs, target) }

// DropWeakRef removes every weak edge to target, called when target is
// reclaimed so dangling weak edges don't linger (spec §9).
func (h *Header) DropWeakRef(target ID) {
	out := h.weakRefs[:0]
	for _, id := range h.weakRefs {
		if id != target {
			out = append(out, id)
		}
	}
	h.weakRefs = out
}
