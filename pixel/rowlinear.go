package pixel

import (
	"fmt"

	"github.com/flga/gamegfx"
)

// DecodeRowLinearCGA implements spec §4.D.3: each byte packs 4 pixels at
// 2 bits each, MSB-first, the two CGA colour bits (Green, Blue per CGA
// bit assignment) living side by side in the same byte rather than in
// separate planes. Used for Catacomb CGA.
func DecodeRowLinearCGA(data []byte, w, h int) (*Buffer, error) {
	buf := New(w, h)
	stride := (w + 3) / 4
	pos := 0
	for y := 0; y < h; y++ {
		for cell := 0; cell < stride; cell++ {
			if pos >= len(data) {
				return buf, fmt.Errorf("pixel: row-linear CGA truncated at byte %d: %w", pos, gamegfx.ErrIncompleteRead)
			}
			b := data[pos]
			pos++
			base := cell * 4
			count := 4
			if base+4 > w {
				count = w - base
			}
			for px := 0; px < count; px++ {
				shift := uint(6 - px*2)
				buf.Pixels[y*w+base+px] = (b >> shift) & 0x03
			}
		}
	}
	return buf, nil
}

// EncodeRowLinearCGA is the inverse of DecodeRowLinearCGA. Pixel indices
// above 3 are masked to their low 2 bits (CGA has no other colours).
func EncodeRowLinearCGA(buf *Buffer) []byte {
	w, h := buf.W, buf.H
	stride := (w + 3) / 4
	out := make([]byte, 0, h*stride)
	for y := 0; y < h; y++ {
		for cell := 0; cell < stride; cell++ {
			base := cell * 4
			count := 4
			if base+4 > w {
				count = w - base
			}
			var c byte
			for px := 0; px < count; px++ {
				shift := uint(6 - px*2)
				c |= (buf.Pixels[y*w+base+px] & 0x03) << shift
			}
			out = append(out, c)
		}
	}
	return out
}
