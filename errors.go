// Package gamegfx reads and writes the proprietary image, tileset and
// palette formats used by a family of early-1990s DOS games. It presents
// every format through one uniform in-memory representation (Point, Rect,
// a palette and an 8-bit indexed pixel/mask buffer) so editors and
// converters never need to know the on-disk layout.
package gamegfx

import "errors"

// Error kinds, per spec §7. Handlers wrap one of these with fmt.Errorf and
// %w so callers can classify a failure with errors.Is without caring which
// handler produced it.
var (
	// ErrInvalidFormat means a signature, length or dimension check failed
	// while opening a stream. No mutation is performed before this is
	// returned.
	ErrInvalidFormat = errors.New("gamegfx: invalid format")

	// ErrInvariantViolation means the caller asked for something the
	// format cannot represent (resizing a fixed-size tile, an
	// out-of-range palette index, a width that isn't a multiple of the
	// format's required alignment).
	ErrInvariantViolation = errors.New("gamegfx: invariant violation")

	// ErrStreamError wraps a failure reported by the underlying stream
	// capability. It is propagated, not replaced.
	ErrStreamError = errors.New("gamegfx: stream error")

	// ErrIncompleteRead means the stream was shorter than the format
	// expected. Decoders that can still produce a meaningful partial
	// image do so and report this as a warning rather than failing; see
	// the Warnings field of image.Image.
	ErrIncompleteRead = errors.New("gamegfx: incomplete read")

	// ErrUnsupportedFeature is never returned from normal operation; it
	// exists so a probe can classify a stream as DefinitelyNo without
	// raising.
	ErrUnsupportedFeature = errors.New("gamegfx: unsupported feature")
)
