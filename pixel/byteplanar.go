package pixel

import (
	"fmt"

	"github.com/flga/gamegfx"
)

// rowStride returns the number of bytes one row of w pixels occupies when
// packed 8-per-byte MSB-first.
func rowStride(w int) int { return (w + 7) / 8 }

// DecodeBytePlanar implements spec §4.D.1: each plane's bytes are stored
// consecutively, rows concatenated within a plane, 8 pixels per byte
// MSB-first.
func DecodeBytePlanar(data []byte, w, h int, layout Layout) (*Buffer, error) {
	buf := New(w, h)
	stride := rowStride(w)
	planeSize := h * stride
	pos := 0
	for _, role := range layout {
		if role == Unused {
			continue
		}
		if role == Blank {
			pos += planeSize
			continue
		}
		rule, ok := rules[role]
		if !ok {
			return buf, fmt.Errorf("pixel: unknown plane role %d: %w", role, gamegfx.ErrInvariantViolation)
		}
		target := buf.Pixels
		if rule.mask {
			target = buf.Mask
		}
		for y := 0; y < h; y++ {
			for cell := 0; cell < stride; cell++ {
				if pos >= len(data) {
					return buf, fmt.Errorf("pixel: byteplanar truncated at plane byte %d: %w", pos, gamegfx.ErrIncompleteRead)
				}
				b := data[pos]
				pos++
				base := cell * 8
				bits := 8
				if base+8 > w {
					bits = w - base
				}
				for bit := 0; bit < bits; bit++ {
					srcBit := (b>>(7-bit))&1 == 1
					if rule.on(srcBit) {
						target[y*w+base+bit] |= rule.value
					}
				}
			}
		}
	}
	return buf, nil
}

// EncodeBytePlanar is the inverse of DecodeBytePlanar. Padding bits beyond
// w in the last byte of a row are cleared, except for Opaque-typed
// planes, where they are written so the padding decodes back as
// transparent — which bit that is depends on the role's swap polarity
// (rules[Opaque0].swap is false so transparent is bit 1; rules[Opaque1]
// is inverted so transparent is bit 0, i.e. already clear).
func EncodeBytePlanar(buf *Buffer, layout Layout) []byte {
	w, h := buf.W, buf.H
	stride := rowStride(w)
	planeSize := h * stride
	var out []byte
	for _, role := range layout {
		if role == Unused {
			continue
		}
		if role == Blank {
			out = append(out, make([]byte, planeSize)...)
			continue
		}
		rule := rules[role]
		source := buf.Pixels
		if rule.mask {
			source = buf.Mask
		}
		isOpaquePlane := role == Opaque0 || role == Opaque1
		for y := 0; y < h; y++ {
			for cell := 0; cell < stride; cell++ {
				base := cell * 8
				bits := 8
				if base+8 > w {
					bits = w - base
				}
				var c byte
				for bit := 0; bit < bits; bit++ {
					on := source[y*w+base+bit]&rule.value != 0
					if on != rule.swap {
						c |= 0x80 >> uint(bit)
					}
				}
				if bits < 8 && isOpaquePlane && !rule.swap {
					for bit := bits; bit < 8; bit++ {
						c |= 0x80 >> uint(bit)
					}
				}
				out = append(out, c)
			}
		}
	}
	return out
}
