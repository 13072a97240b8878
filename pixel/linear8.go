package pixel

import (
	"fmt"

	"github.com/flga/gamegfx"
)

// DecodeLinear8 implements spec §4.D.4: pixels[i] = stream[offset+i]. Mask
// is all-opaque; VGA chunky has no transparency plane.
func DecodeLinear8(data []byte, w, h int) (*Buffer, error) {
	buf := New(w, h)
	n := w * h
	if len(data) < n {
		copy(buf.Pixels, data)
		return buf, fmt.Errorf("pixel: linear8 truncated, got %d of %d bytes: %w", len(data), n, gamegfx.ErrIncompleteRead)
	}
	copy(buf.Pixels, data[:n])
	return buf, nil
}

// EncodeLinear8 is the inverse of DecodeLinear8; the mask is dropped.
func EncodeLinear8(buf *Buffer) []byte {
	out := make([]byte, len(buf.Pixels))
	copy(out, buf.Pixels)
	return out
}
