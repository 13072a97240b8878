package formats

import (
	"encoding/binary"
	"fmt"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/image"
	"github.com/flga/gamegfx/palette"
	"github.com/flga/gamegfx/stream"
	"github.com/flga/gamegfx/tileset"
)

const gotHeaderLen = 6

// GOT implements spec §4.H's God of Thunder tileset handler: a stream
// of variable-sized VGA mode-X planar tiles with no separate index —
// the FAT is reconstructed by walking {width_in_quads, height, unused,
// pixel_bytes} records end to end, grounded on tls-got.cpp.
type GOT struct{}

func (GOT) Code() string         { return "tls-got" }
func (GOT) FriendlyName() string { return "God of Thunder tileset" }
func (GOT) Extensions() []string { return nil }
func (GOT) Games() []string      { return []string{"God of Thunder"} }

func (GOT) Probe(s stream.Stream) Certainty {
	size := s.Size()
	if size == 0 {
		return PossiblyYes
	}
	var off int64
	for size-off > 6 {
		hdr, err := s.Read(off, 4)
		if err != nil {
			return DefinitelyNo
		}
		width := int64(binary.LittleEndian.Uint16(hdr[0:2])) * 4
		height := int64(binary.LittleEndian.Uint16(hdr[2:4]))
		if width > 320 || height > 200 {
			return DefinitelyNo
		}
		total := width*height + gotHeaderLen
		if total > size-off {
			return DefinitelyNo
		}
		off += total
	}
	return DefinitelyYes
}

func (h GOT) buildEntries(s stream.Stream) ([]*tileset.Entry, error) {
	size := s.Size()
	var off int64
	var entries []*tileset.Entry
	i := 0
	for size-off > 6 {
		hdr, err := s.Read(off, 4)
		if err != nil {
			return nil, fmt.Errorf("formats/got: reading tile header: %w", gamegfx.ErrIncompleteRead)
		}
		width := int64(binary.LittleEndian.Uint16(hdr[0:2])) * 4
		height := int64(binary.LittleEndian.Uint16(hdr[2:4]))
		pixelLen := width * height
		entries = append(entries, &tileset.Entry{
			Index: i, Offset: off, HeaderSize: gotHeaderLen,
			StoredSize: pixelLen, RealSize: pixelLen,
			TypeTag: "tile/got", Valid: true,
		})
		off += gotHeaderLen + pixelLen
		i++
	}
	return entries, nil
}

func (h GOT) Open(s stream.Stream, supps Supps) (Opened, error) {
	entries, err := h.buildEntries(s)
	if err != nil {
		return Opened{}, err
	}
	t := tileset.NewFAT(s, tileset.VariableSizer{})
	t.Load(entries)
	return Opened{Tileset: t}, nil
}

func (h GOT) Create(s stream.Stream, supps Supps) (Opened, error) {
	if err := s.Truncate(0); err != nil {
		return Opened{}, err
	}
	t := tileset.NewFAT(s, tileset.VariableSizer{})
	return Opened{Tileset: t}, nil
}

func (GOT) RequiredSupps(filename string) map[Role]string {
	return map[Role]string{RolePalette: "palette"}
}

// OpenTile reads e's 4-byte width/height record (ignoring the trailing
// 2 unused header bytes) and returns the VGA mode-X planar Image over
// its region, with the palette's transparent-colour indices (0 and 15)
// forced to alpha 0 as Tileset_GOT::open does.
func (h GOT) OpenTile(t *tileset.Tileset, e *tileset.Entry, pal palette.Palette) (*image.Image, error) {
	region := t.Open(e)
	// Region offsets are relative to e.Offset+e.HeaderSize; the 4 header
	// bytes we need sit just before that, hence the negative offset.
	hdr, err := region.Read(-gotHeaderLen, 4)
	if err != nil {
		return nil, fmt.Errorf("formats/got: reading tile dims: %w", gamegfx.ErrIncompleteRead)
	}
	width := int32(binary.LittleEndian.Uint16(hdr[0:2])) * 4
	height := int32(binary.LittleEndian.Uint16(hdr[2:4]))

	img := image.New(region, 0, 0, e.StoredSize, gamegfx.VGA, width, height,
		image.ModeX{}, gamegfx.SetDimensions)
	if len(pal) > 0 {
		p := make(palette.Palette, len(pal))
		copy(p, pal)
		if len(p) > 0 {
			p[0].A = 0
		}
		if len(p) > 15 {
			p[15].A = 0
		}
		img.SetPaletteLoaded(p)
	}
	return img, nil
}
