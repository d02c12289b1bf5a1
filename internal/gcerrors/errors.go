// Package gcerrors defines the error kinds and stable boundary return
// codes shared by the collector and its facade.
package gcerrors

import "fmt"

// Kind is a stable error category, independent of its message text.
type Kind int

const (
	// KindInternal covers broken invariants: a structural bug in the
	// collector itself, not a caller mistake.
	KindInternal Kind = iota
	KindAlreadyTracked
	KindNotTracked
	KindCollectionInProgress
	KindInvalidGeneration
	KindAllocationFailed
	KindReferenceCountError
)

func (k Kind) String() string {
	switch k {
	case KindAlreadyTracked:
		return "AlreadyTracked"
	case KindNotTracked:
		return "NotTracked"
	case KindCollectionInProgress:
		return "CollectionInProgress"
	case KindInvalidGeneration:
		return "InvalidGeneration"
	case KindAllocationFailed:
		return "AllocationFailed"
	case KindReferenceCountError:
		return "ReferenceCountError"
	default:
		return "Internal"
	}
}

// Error is the error type returned by every collector and facade
// operation that can fail.
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string {
	if e.msg == "" {
		return e.kind.String()
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

// Kind reports the stable category of the error.
func (e *Error) Kind() Kind { return e.kind }

// Is lets errors.Is match on Kind alone, so callers can write
// errors.Is(err, gcerrors.NotTracked) without comparing messages.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.kind == e.kind
}

func newKind(k Kind) *Error { return &Error{kind: k} }

// Sentinel errors for the kinds that never carry a dynamic message.
var (
	AlreadyTracked       = newKind(KindAlreadyTracked)
	NotTracked           = newKind(KindNotTracked)
	CollectionInProgress = newKind(KindCollectionInProgress)
)

// InvalidGeneration reports a generation index outside [0, 2].
func InvalidGeneration(idx int) *Error {
	return &Error{kind: KindInvalidGeneration, msg: fmt.Sprintf("generation %d out of range", idx)}
}

// Internal wraps a broken-invariant message.
func Internal(format string, args ...interface{}) *Error {
	return &Error{kind: KindInternal, msg: fmt.Sprintf(format, args...)}
}

// AllocationFailed reports that the host-side allocator could not
// satisfy a request the collector needed to make on its behalf.
func AllocationFailed(format string, args ...interface{}) *Error {
	return &Error{kind: KindAllocationFailed, msg: fmt.Sprintf(format, args...)}
}

// ReferenceCountError reports a refcount invariant violation (e.g.
// saturating decrement below zero).
func ReferenceCountError(format string, args ...interface{}) *Error {
	return &Error{kind: KindReferenceCountError, msg: fmt.Sprintf(format, args...)}
}

// ReturnCode is the stable cross-boundary integer code from spec §6.
type ReturnCode int32

const (
	Success                    ReturnCode = 0
	ReturnAlreadyTracked       ReturnCode = -1
	ReturnNotTracked           ReturnCode = -2
	ReturnCollectionInProgress ReturnCode = -3
	ReturnInvalidGeneration    ReturnCode = -4
	ReturnInternal             ReturnCode = -5
)

// ToReturnCode maps an error (possibly nil) onto the stable boundary
// return code. Unrecognized error kinds fold into ReturnInternal, the
// way the Rust reference mapped every non-enumerated GCError variant.
func ToReturnCode(err error) ReturnCode {
	if err == nil {
		return Success
	}
	e, ok := err.(*Error)
	if !ok {
		return ReturnInternal
	}
	switch e.kind {
	case KindAlreadyTracked:
		return ReturnAlreadyTracked
	case KindNotTracked:
		return ReturnNotTracked
	case KindCollectionInProgress:
		return ReturnCollectionInProgress
	case KindInvalidGeneration:
		return ReturnInvalidGeneration
	default:
		return ReturnInternal
	}
}
