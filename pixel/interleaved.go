package pixel

import (
	"fmt"

	"github.com/flga/gamegfx"
)

// DecodeByteInterleaved implements spec §4.D.6 (Shadow Warrior beta):
// four separate streams, one per plane. Plane p holds columns
// x ≡ p (mod 4); within the plane, pixels are stored row-major in
// natural order.
func DecodeByteInterleaved(planes [4][]byte, w, h int) (*Buffer, error) {
	buf := New(w, h)
	for p := 0; p < 4; p++ {
		cols := colsForPlane(w, p)
		data := planes[p]
		need := cols * h
		if len(data) < need {
			return buf, fmt.Errorf("pixel: byte-interleaved plane %d truncated, got %d of %d: %w", p, len(data), need, gamegfx.ErrIncompleteRead)
		}
		i := 0
		for y := 0; y < h; y++ {
			for c := 0; c < cols; c++ {
				x := c*4 + p
				buf.Pixels[y*w+x] = data[i]
				i++
			}
		}
	}
	return buf, nil
}

// EncodeByteInterleaved is the inverse of DecodeByteInterleaved.
func EncodeByteInterleaved(buf *Buffer) [4][]byte {
	w, h := buf.W, buf.H
	var planes [4][]byte
	for p := 0; p < 4; p++ {
		cols := colsForPlane(w, p)
		out := make([]byte, 0, cols*h)
		for y := 0; y < h; y++ {
			for c := 0; c < cols; c++ {
				x := c*4 + p
				out = append(out, buf.Pixels[y*w+x])
			}
		}
		planes[p] = out
	}
	return planes
}

// colsForPlane returns how many of w's columns fall into plane p (x%4==p).
func colsForPlane(w, p int) int {
	cols := w / 4
	if w%4 > p {
		cols++
	}
	return cols
}
