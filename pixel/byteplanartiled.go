package pixel

import (
	"fmt"

	"github.com/flga/gamegfx"
)

// DecodeBytePlanarTiled implements spec §4.D.2: pixels are stored in 8x8
// chunks; the file lays out tile (0,0)'s planes, then tile (1,0)'s, and
// so on in row-major chunk order. Only defined for dimensions that are
// multiples of 8.
func DecodeBytePlanarTiled(data []byte, w, h int, layout Layout) (*Buffer, error) {
	if w%8 != 0 || h%8 != 0 {
		return nil, fmt.Errorf("pixel: byteplanar-tiled needs dims multiple of 8, got %dx%d: %w", w, h, gamegfx.ErrInvariantViolation)
	}
	buf := New(w, h)
	pos := 0
	tilesX, tilesY := w/8, h/8
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			ox, oy := tx*8, ty*8
			for _, role := range layout {
				if role == Unused {
					continue
				}
				if role == Blank {
					pos += 8
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
				for row := 0; row < 8; row++ {
					if pos >= len(data) {
						return buf, fmt.Errorf("pixel: byteplanar-tiled truncated at byte %d: %w", pos, gamegfx.ErrIncompleteRead)
					}
					b := data[pos]
					pos++
					for bit := 0; bit < 8; bit++ {
						srcBit := (b>>(7-bit))&1 == 1
						if rule.on(srcBit) {
							px, py := ox+bit, oy+row
							target[py*w+px] |= rule.value
						}
					}
				}
			}
		}
	}
	return buf, nil
}

// EncodeBytePlanarTiled is the inverse of DecodeBytePlanarTiled.
func EncodeBytePlanarTiled(buf *Buffer, layout Layout) ([]byte, error) {
	w, h := buf.W, buf.H
	if w%8 != 0 || h%8 != 0 {
		return nil, fmt.Errorf("pixel: byteplanar-tiled needs dims multiple of 8, got %dx%d: %w", w, h, gamegfx.ErrInvariantViolation)
	}
	var out []byte
	tilesX, tilesY := w/8, h/8
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			ox, oy := tx*8, ty*8
			for _, role := range layout {
				if role == Unused {
					continue
				}
				if role == Blank {
					out = append(out, make([]byte, 8)...)
					continue
				}
				rule := rules[role]
				source := buf.Pixels
				if rule.mask {
					source = buf.Mask
				}
				for row := 0; row < 8; row++ {
					var c byte
					for bit := 0; bit < 8; bit++ {
						px, py := ox+bit, oy+row
						on := source[py*w+px]&rule.value != 0
						if on != rule.swap {
							c |= 0x80 >> uint(bit)
						}
					}
					out = append(out, c)
				}
			}
		}
	}
	return out, nil
}
