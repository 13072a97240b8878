package formats

import (
	"bytes"
	"fmt"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/palette"
	"github.com/flga/gamegfx/stream"
)

// PaletteFormat is a supplemented feature (SPEC_FULL.md's "palette as a
// standalone format"): a handful of games store their palette as its
// own addressable file rather than only as a supplementary stream for
// an image/tileset. It is kept separate from Handler since a palette
// file has no pixel dimensions to report.
type PaletteFormat interface {
	Code() string
	FriendlyName() string
	Probe(s stream.Stream) Certainty
	Load(s stream.Stream) (palette.Palette, error)
	Save(s stream.Stream, p palette.Palette) error
}

// Palette8 is the plain 256-entry, 6-bit-per-channel VGA DAC palette
// file with no header at all, grounded on img-palette.cpp — the
// simplest possible standalone palette resource, a bare ".pal" file.
// The image and tileset handlers in this package don't go through it:
// they read their palette supplements themselves or take a palette from
// the caller.
type Palette8 struct{}

func (Palette8) Code() string         { return "pal-vga-raw" }
func (Palette8) FriendlyName() string { return "Raw VGA palette" }

func (Palette8) Probe(s stream.Stream) Certainty {
	if s.Size() == 768 {
		return PossiblyYes
	}
	return DefinitelyNo
}

func (Palette8) Load(s stream.Stream) (palette.Palette, error) {
	data, err := s.Read(0, int(s.Size()))
	if err != nil && int64(len(data)) < s.Size() {
		return nil, fmt.Errorf("formats/palette: %w", gamegfx.ErrIncompleteRead)
	}
	return palette.Load6(data, 256)
}

func (Palette8) Save(s stream.Stream, p palette.Palette) error {
	data := p.Store6()
	if err := s.Truncate(int64(len(data))); err != nil {
		return err
	}
	return s.Write(0, data)
}

const harryGMFSig = "\x11SubZero Game File"
const harryPalOffset = 0x1D

// HarryGMF reads the 6-bit VGA palette embedded inside a Halloween
// Harry level file, grounded on pal-gmf-harry.cpp: a fixed signature,
// then the palette at a fixed offset, left otherwise untouched (the
// rest of the level data isn't addressed by this handler). Per
// pal-gmf-harry's own colour-range sanity check, every channel byte
// must be <= 0x40 for the probe to accept the stream.
type HarryGMF struct{}

func (HarryGMF) Code() string         { return "pal-gmf-harry" }
func (HarryGMF) FriendlyName() string { return "Halloween Harry VGA palette" }

func (HarryGMF) Probe(s stream.Stream) Certainty {
	if s.Size() < harryPalOffset+768 {
		return DefinitelyNo
	}
	sig, err := s.Read(0, len(harryGMFSig))
	if err != nil || !bytes.Equal(sig, []byte(harryGMFSig)) {
		return DefinitelyNo
	}
	pal, err := s.Read(harryPalOffset, 768)
	if err != nil {
		return DefinitelyNo
	}
	for _, b := range pal {
		if b > 0x40 {
			return DefinitelyNo
		}
	}
	return DefinitelyYes
}

func (HarryGMF) Load(s stream.Stream) (palette.Palette, error) {
	data, err := s.Read(harryPalOffset, 768)
	if err != nil {
		return nil, fmt.Errorf("formats/harry: reading palette: %w", gamegfx.ErrIncompleteRead)
	}
	return palette.Load6(data, 256)
}

func (HarryGMF) Save(s stream.Stream, p palette.Palette) error {
	return s.Write(harryPalOffset, p.Store6())
}
