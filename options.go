/*
DESCRIPTION
  options.go provides functional configuration options for Decoder, the
  same pattern container/mts's options.go uses for its encoder, in place
  of an external config file.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package jxlcore

import "github.com/ausocean/utils/logging"

// Option configures a Decoder at construction time.
type Option func(*Decoder)

// WithLogger injects a logging.Logger, the same interface the teacher's
// cmd/* binaries construct via logging.New(...). Decode emits one
// Debug-level record of the decoded size header through it; section
// dispatch and TOC parsing are not logged.
func WithLogger(l logging.Logger) Option {
	return func(d *Decoder) { d.logger = l }
}

// WithMaxTocEntries overrides the default resource bound on TOC size,
// guarding against a crafted numGroups/numDcGroups blowing up section
// bookkeeping.
func WithMaxTocEntries(n int) Option {
	return func(d *Decoder) { d.maxTocEntries = n }
}

// WithCancel installs a cooperative cancellation flag. Decode checks it
// before each frame; it is not consulted between group decodes.
func WithCancel(cancelled func() bool) Option {
	return func(d *Decoder) { d.cancelled = cancelled }
}
