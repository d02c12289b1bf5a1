package object

// PayloadTag discriminates the kind of value a Header's Payload holds.
type PayloadTag int

const (
	TagAbsent PayloadTag = iota
	TagInt
	TagFloat
	TagString
	TagSequence
	TagMapping
	TagSet
	TagForeign
)

func (t PayloadTag) String() string {
	switch t {
	case TagInt:
		return "int"
	case TagFloat:
		return "float"
	case TagString:
		return "string"
	case TagSequence:
		return "sequence"
	case TagMapping:
		return "mapping"
	case TagSet:
		return "set"
	case TagForeign:
		return "foreign"
	default:
		return "absent"
	}
}

// MapEntry is one (key-id, value-id) pair of a mapping payload.
type MapEntry struct {
	Key   ID
	Value ID
}

// Payload is the tagged variant carried by every Header. Exactly one of
// the typed fields is meaningful, selected by Tag — extend only by
// adding a new tag and field, never by subtype dispatch (spec §9).
type Payload struct {
	Tag PayloadTag

	Int     int64
	Float   float64
	Str     string
	Seq     []ID       // TagSequence, TagSet
	Mapping []MapEntry // TagMapping
	Foreign interface{}
}

// NewInt builds an integer payload.
func NewInt(v int64) Payload { return Payload{Tag: TagInt, Int: v} }

// NewFloat builds a floating point payload.
func NewFloat(v float64) Payload { return Payload{Tag: TagFloat, Float: v} }

// NewString builds a string payload.
func NewString(v string) Payload { return Payload{Tag: TagString, Str: v} }

// NewSequence builds an ordered-sequence payload from child ids.
func NewSequence(ids ...ID) Payload { return Payload{Tag: TagSequence, Seq: ids} }

// NewSet builds a set payload from child ids.
func NewSet(ids ...ID) Payload { return Payload{Tag: TagSet, Seq: ids} }

// NewMapping builds a mapping payload from key/value id pairs.
func NewMapping(entries ...MapEntry) Payload { return Payload{Tag: TagMapping, Mapping: entries} }

// NewForeign builds an opaque foreign-pointer payload. Foreign payloads
// never yield child ids during traversal.
func NewForeign(ptr interface{}) Payload { return Payload{Tag: TagForeign, Foreign: ptr} }

// Absent is the payload of an object that carries no data of its own.
var Absent = Payload{Tag: TagAbsent}

// Children returns the child object ids this payload references, in
// traversal order: sequence/set yield members in order, mapping yields
// each key then its value. Integer/float/string/absent/foreign yield
// nothing (spec §4.3).
func (p Payload) Children() []ID {
	switch p.Tag {
	case TagSequence, TagSet:
		return p.Seq
	case TagMapping:
		out := make([]ID, 0, 2*len(p.Mapping))
		for _, e := range p.Mapping {
			out = append(out, e.Key, e.Value)
		}
		return out
	default:
		return nil
	}
}
