package pixel

import (
	"fmt"

	"github.com/flga/gamegfx"
)

// DecodeModeX implements spec §4.D.5: the file is four contiguous planes
// of W/4*H bytes each; pixel (x,y) lives in plane x%4 at offset
// y*(W/4)+x/4. Width must be a multiple of 4.
func DecodeModeX(data []byte, w, h int) (*Buffer, error) {
	if w%4 != 0 {
		return nil, fmt.Errorf("pixel: mode-X width %d not a multiple of 4: %w", w, gamegfx.ErrInvariantViolation)
	}
	buf := New(w, h)
	planeStride := w / 4
	planeSize := planeStride * h
	for plane := 0; plane < 4; plane++ {
		base := plane * planeSize
		for y := 0; y < h; y++ {
			for qx := 0; qx < planeStride; qx++ {
				src := base + y*planeStride + qx
				if src >= len(data) {
					return buf, fmt.Errorf("pixel: mode-X truncated at byte %d: %w", src, gamegfx.ErrIncompleteRead)
				}
				x := qx*4 + plane
				buf.Pixels[y*w+x] = data[src]
			}
		}
	}
	return buf, nil
}

// EncodeModeX is the inverse of DecodeModeX.
func EncodeModeX(buf *Buffer) ([]byte, error) {
	w, h := buf.W, buf.H
	if w%4 != 0 {
		return nil, fmt.Errorf("pixel: mode-X width %d not a multiple of 4: %w", w, gamegfx.ErrInvariantViolation)
	}
	planeStride := w / 4
	out := make([]byte, planeStride*h*4)
	for plane := 0; plane < 4; plane++ {
		base := plane * planeStride * h
		for y := 0; y < h; y++ {
			for qx := 0; qx < planeStride; qx++ {
				x := qx*4 + plane
				out[base+y*planeStride+qx] = buf.Pixels[y*w+x]
			}
		}
	}
	return out, nil
}
