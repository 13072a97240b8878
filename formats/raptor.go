package formats

import (
	"encoding/binary"
	"fmt"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/image"
	"github.com/flga/gamegfx/palette"
	"github.com/flga/gamegfx/stream"
)

const raptorDataOffset = 20

// RaptorPIC implements spec §4.H's standalone Raptor PIC image format,
// grounded on img-pic-raptor.cpp: a 20-byte header of five little-endian
// uint32s (three unused, then width and height) followed by raw VGA
// linear chunky pixel data, one byte per pixel.
type RaptorPIC struct{}

func (RaptorPIC) Code() string         { return "img-pic-raptor" }
func (RaptorPIC) FriendlyName() string { return "Raptor PIC image" }
func (RaptorPIC) Extensions() []string { return []string{"pic"} }
func (RaptorPIC) Games() []string      { return []string{"Raptor"} }

func (RaptorPIC) Probe(s stream.Stream) Certainty {
	size := s.Size()
	if size < raptorDataOffset {
		return DefinitelyNo
	}
	hdr, err := s.Read(0, raptorDataOffset)
	if err != nil {
		return DefinitelyNo
	}
	width := int64(binary.LittleEndian.Uint32(hdr[12:16]))
	height := int64(binary.LittleEndian.Uint32(hdr[16:20]))
	if width*height+raptorDataOffset != size {
		return DefinitelyNo
	}
	return DefinitelyYes
}

func (h RaptorPIC) Open(s stream.Stream, supps Supps) (Opened, error) {
	hdr, err := s.Read(0, raptorDataOffset)
	if err != nil {
		return Opened{}, fmt.Errorf("formats/raptor: reading header: %w", gamegfx.ErrIncompleteRead)
	}
	width := int32(binary.LittleEndian.Uint32(hdr[12:16]))
	height := int32(binary.LittleEndian.Uint32(hdr[16:20]))

	img := image.New(s, 0, raptorDataOffset, int64(width)*int64(height), gamegfx.VGA, width, height,
		image.Linear8{}, 0)
	if p, ok := supps[RolePalette]; ok {
		pal, err := loadVGAPalette(p)
		if err == nil {
			img.SetPaletteLoaded(pal)
		}
	}
	return Opened{Image: img}, nil
}

func (h RaptorPIC) Create(s stream.Stream, supps Supps) (Opened, error) {
	if err := s.Truncate(raptorDataOffset); err != nil {
		return Opened{}, err
	}
	var hdr [raptorDataOffset]byte
	binary.LittleEndian.PutUint32(hdr[0:4], 1)
	if err := s.Write(0, hdr[:]); err != nil {
		return Opened{}, err
	}
	img := image.New(s, 0, raptorDataOffset, 0, gamegfx.VGA, 0, 0, image.Linear8{}, gamegfx.SetDimensions)
	return Opened{Image: img}, nil
}

func (RaptorPIC) RequiredSupps(filename string) map[Role]string {
	return map[Role]string{RolePalette: "palette.pic"}
}

func loadVGAPalette(s stream.Stream) (palette.Palette, error) {
	data, err := s.Read(0, int(s.Size()))
	if err != nil && len(data) == 0 {
		return nil, err
	}
	return palette.Load6(data, 256)
}
