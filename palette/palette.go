// Package palette implements spec §4.B: a 1-256 entry RGBA palette and
// the 6-bit/8-bit VGA DAC conversions the DOS games stored on disk.
package palette

import (
	"fmt"
	"image/color"

	"github.com/flga/gamegfx"
)

// Entry is one palette slot. Alpha is almost always 255; index 0 is
// transparent for some games (Zone 66, Halloween Harry) — that is
// recorded by the handler that loads the palette, not by Entry itself.
type Entry struct {
	R, G, B, A uint8
}

// RGBA returns the entry as a standard library color.
func (e Entry) RGBA() color.RGBA { return color.RGBA{R: e.R, G: e.G, B: e.B, A: e.A} }

// Palette is an ordered sequence of 1-256 entries.
type Palette []Entry

// expand6 turns a 6-bit DAC value (0-63, with 64 tolerated as a sloppy
// 63) into an 8-bit channel by duplicating the top two bits into the
// bottom two, per spec §4.B.
func expand6(v uint8) uint8 {
	if v > 63 {
		v = 63
	}
	return v<<2 | v>>4
}

// truncate8 is the inverse of expand6 for writing.
func truncate8(v uint8) uint8 { return v >> 2 }

// Load6 reads count 6-bit RGB triplets (3*count bytes) and depth-expands
// them to 8-bit channels.
func Load6(data []byte, count int) (Palette, error) {
	return load(data, count, true)
}

// Load8 reads count pre-expanded 8-bit RGB triplets verbatim, for
// palette files that store full-range values instead of the usual 6-bit
// DAC range (VinylSCR's .pal supplement).
func Load8(data []byte, count int) (Palette, error) {
	return load(data, count, false)
}

func load(data []byte, count int, sixBit bool) (Palette, error) {
	need := count * 3
	if len(data) < need {
		return nil, fmt.Errorf("palette: need %d bytes, have %d: %w", need, len(data), gamegfx.ErrIncompleteRead)
	}
	pal := make(Palette, count)
	for i := 0; i < count; i++ {
		r, g, b := data[i*3], data[i*3+1], data[i*3+2]
		if sixBit {
			r, g, b = expand6(r), expand6(g), expand6(b)
		}
		pal[i] = Entry{R: r, G: g, B: b, A: 255}
	}
	return pal, nil
}

// Store6 truncates each entry to a 6-bit DAC value and writes count*3
// bytes.
func (p Palette) Store6() []byte { return p.store(true) }

// Store8 writes each entry's channels verbatim.
func (p Palette) Store8() []byte { return p.store(false) }

func (p Palette) store(sixBit bool) []byte {
	out := make([]byte, len(p)*3)
	for i, e := range p {
		r, g, b := e.R, e.G, e.B
		if sixBit {
			r, g, b = truncate8(r), truncate8(g), truncate8(b)
		}
		out[i*3], out[i*3+1], out[i*3+2] = r, g, b
	}
	return out
}

// ColorPalette converts to a standard library color.Palette, for callers
// that want to hand a decoded image to anything in the image ecosystem
// (PNG encoders, golden-image diffing).
func (p Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, len(p))
	for i, e := range p {
		cp[i] = e.RGBA()
	}
	return cp
}
