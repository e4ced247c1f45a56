/*
DESCRIPTION
  errors.go re-exports the decodeerr taxonomy at the package API boundary,
  so callers of the public Decoder never need to import an internal
  package to tell a non-fatal NeedMoreInput apart from a fatal error.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package jxlcore

import "github.com/jxlcore/jxlcore/internal/decodeerr"

// Kind classifies a decode error per spec.md §7's taxonomy.
type Kind = decodeerr.Kind

// The error kinds a Decoder can report.
const (
	KindNeedMoreInput      = decodeerr.NeedMoreInput
	KindMalformedBitstream = decodeerr.MalformedBitstream
	KindUnsupportedFeature = decodeerr.UnsupportedFeature
	KindResourceExceeded   = decodeerr.ResourceExceeded
	KindInternal           = decodeerr.Internal
)

// DecodeError is the concrete error type returned by Decoder methods.
type DecodeError = decodeerr.Error

// IsKind reports whether err is a *DecodeError of the given kind.
func IsKind(err error, kind Kind) bool { return decodeerr.Is(err, kind) }
