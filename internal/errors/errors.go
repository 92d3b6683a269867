package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an error so transports and callers can decide how to react
type Kind int

const (
	ErrInternal Kind = iota
	ErrNotFound
	ErrValidation
	ErrConflict
	// ErrDataGap is missing or partial player/team data. Always recovered locally.
	ErrDataGap
	// ErrCapabilityUnavailable is a failed or timed out text-generation or behavior call.
	ErrCapabilityUnavailable
	// ErrStateCorruption is a persisted draft that fails invariant checks. Fatal for that draft only.
	ErrStateCorruption
	// ErrCandidateExhaustion is a strategy filter that produced no players.
	ErrCandidateExhaustion
	// ErrConcurrentTick is a tick attempted while a prior one is unresolved.
	ErrConcurrentTick
)

func (k Kind) String() string {
	switch k {
	case ErrNotFound:
		return "not_found"
	case ErrValidation:
		return "validation"
	case ErrConflict:
		return "conflict"
	case ErrDataGap:
		return "data_gap"
	case ErrCapabilityUnavailable:
		return "capability_unavailable"
	case ErrStateCorruption:
		return "state_corruption"
	case ErrCandidateExhaustion:
		return "candidate_exhaustion"
	case ErrConcurrentTick:
		return "concurrent_tick"
	default:
		return "internal"
	}
}

// Error is an application-level error with a kind for classification
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func StateCorruptionf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrStateCorruption, Message: fmt.Sprintf(format, args...)}
}

func ConcurrentTickf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrConcurrentTick, Message: fmt.Sprintf(format, args...)}
}

func CandidateExhaustionf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrCandidateExhaustion, Message: fmt.Sprintf(format, args...)}
}

func CapabilityUnavailable(capability string, err error) *Error {
	return &Error{Kind: ErrCapabilityUnavailable, Message: capability + " unavailable", Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: ErrInternal, Message: "internal error", Err: err}
}

// Wrap wraps an error with additional context
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or ErrInternal
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ErrInternal
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

func IsNotFound(err error) bool { return Is(err, ErrNotFound) }

func IsStateCorruption(err error) bool { return Is(err, ErrStateCorruption) }

func IsConcurrentTick(err error) bool { return Is(err, ErrConcurrentTick) }
