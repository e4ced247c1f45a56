/*
DESCRIPTION
  decodeerr.go declares the error taxonomy shared across the codestream
  core's packages, per the propagation policy of spec.md §7: inner helpers
  return a typed outcome, and the first fatal error surfaces to the frame
  driver, which aborts the frame and discards any half-written grids.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

// Package decodeerr provides the shared error taxonomy used by every
// decoding package in this module, so that a frame driver several layers
// up the call stack can tell a non-fatal short read apart from a fatal
// bitstream violation without string-matching.
package decodeerr

import "github.com/pkg/errors"

// Kind classifies a decode error per spec.md §7's taxonomy.
type Kind int

const (
	// NeedMoreInput means the bit cursor exceeded the buffer in a
	// streaming context. Non-fatal: the caller may retry with more data.
	NeedMoreInput Kind = iota
	// MalformedBitstream means an invariant was broken: a bad final rANS
	// state, bad code lengths, an out-of-range enum, and so on.
	MalformedBitstream
	// UnsupportedFeature means a reserved value or an unimplemented
	// baseline feature (e.g. RAW dequant mode) was signalled.
	UnsupportedFeature
	// ResourceExceeded means a structural bound was exceeded: tree
	// depth/node count, histogram alphabet size, TOC entry count.
	ResourceExceeded
	// Internal means an unreachable branch of the state machine was
	// taken; it indicates a bug in the decoder itself.
	Internal
)

func (k Kind) String() string {
	switch k {
	case NeedMoreInput:
		return "need more input"
	case MalformedBitstream:
		return "malformed bitstream"
	case UnsupportedFeature:
		return "unsupported feature"
	case ResourceExceeded:
		return "resource exceeded"
	case Internal:
		return "internal error"
	default:
		return "unknown error"
	}
}

// Error is a typed decode outcome carrying a Kind alongside the wrapped
// cause and the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.String()
	}
	return e.Op + ": " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Fatal reports whether errors of this kind abort the frame, per the
// table in spec.md §7 (only NeedMoreInput is non-fatal).
func (e *Error) Fatal() bool { return e.Kind != NeedMoreInput }

// New constructs an *Error, wrapping cause with github.com/pkg/errors so a
// stack trace is attached the first time a raw error crosses a package
// boundary.
func New(kind Kind, op string, cause error) *Error {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return &Error{Kind: kind, Op: op, Err: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	de, ok := err.(*Error)
	if !ok {
		return false
	}
	return de.Kind == kind
}
