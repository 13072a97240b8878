package formats

import (
	"encoding/binary"
	"fmt"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/image"
	"github.com/flga/gamegfx/palette"
	"github.com/flga/gamegfx/pixel"
	"github.com/flga/gamegfx/stream"
)

// sw93Codec adapts pixel.DecodeByteInterleaved/EncodeByteInterleaved
// (spec §4.D.6) to image.Codec for Shadow Warrior Beta's single-stream
// variant: each of the 4 planes is prefixed by its own 1-byte column
// count (planeWidth) rather than that count being derived purely from
// image width, grounded on img-sw93beta-planar.cpp's convert()/
// convert(newContent,newMask).
type sw93Codec struct{}

func (c sw93Codec) Decode(data []byte, w, h int) (*pixel.Buffer, error) {
	var planes [4][]byte
	pos := 0
	for p := 0; p < 4; p++ {
		if pos >= len(data) {
			return nil, fmt.Errorf("formats/sw93beta: missing plane %d: %w", p, gamegfx.ErrIncompleteRead)
		}
		planeWidth := int(data[pos])
		pos++
		planeSize := planeWidth * h
		if pos+planeSize > len(data) {
			return nil, fmt.Errorf("formats/sw93beta: plane %d truncated: %w", p, gamegfx.ErrIncompleteRead)
		}
		planes[p] = data[pos : pos+planeSize]
		pos += planeSize
	}
	return pixel.DecodeByteInterleaved(planes, w, h)
}

func (c sw93Codec) Encode(buf *pixel.Buffer) ([]byte, error) {
	planes := pixel.EncodeByteInterleaved(buf)
	var out []byte
	for p := 0; p < 4; p++ {
		cols := 0
		if buf.H > 0 {
			cols = len(planes[p]) / buf.H
		}
		out = append(out, byte(cols))
		out = append(out, planes[p]...)
	}
	return out, nil
}

// SW93BetaPlanar implements spec §4.H's Shadow Warrior (1993 Beta)
// planar image handler, grounded on img-sw93beta-planar.cpp: a 3-byte
// header (height u8, width u16) followed by the 4 self-describing
// interleaved planes above.
type SW93BetaPlanar struct{}

func (SW93BetaPlanar) Code() string         { return "img-sw93beta-planar" }
func (SW93BetaPlanar) FriendlyName() string { return "Shadow Warrior 1993 Beta Planar image" }
func (SW93BetaPlanar) Extensions() []string { return []string{"138"} }
func (SW93BetaPlanar) Games() []string      { return []string{"Shadow Warrior 1993 Beta"} }

func (SW93BetaPlanar) Probe(s stream.Stream) Certainty {
	size := s.Size()
	if size < 7 {
		return DefinitelyNo
	}
	hdr, err := s.Read(0, 3)
	if err != nil {
		return DefinitelyNo
	}
	height := int64(hdr[0])
	offset := int64(3)
	for p := 0; p < 4; p++ {
		if offset >= size {
			return DefinitelyNo
		}
		pw, err := s.Read(offset, 1)
		if err != nil {
			return DefinitelyNo
		}
		offset++
		planeSize := int64(pw[0]) * height
		offset += planeSize
		if offset > size {
			return DefinitelyNo
		}
	}
	if offset != size {
		return DefinitelyNo
	}
	return DefinitelyYes
}

func (h SW93BetaPlanar) Open(s stream.Stream, supps Supps) (Opened, error) {
	hdr, err := s.Read(0, 3)
	if err != nil {
		return Opened{}, fmt.Errorf("formats/sw93beta: reading header: %w", gamegfx.ErrIncompleteRead)
	}
	height := int32(hdr[0])
	width := int32(binary.LittleEndian.Uint16(hdr[1:3]))

	img := image.New(s, 0, 3, s.Size()-3, gamegfx.VGA, width, height,
		sw93Codec{}, gamegfx.HasPalette|gamegfx.SetDimensions)
	if p, ok := supps[RolePalette]; ok {
		data, err := p.Read(0, int(p.Size()))
		if err == nil {
			if pal, perr := palette.Load6(data, 256); perr == nil {
				img.SetPaletteLoaded(pal)
			}
		}
	}
	return Opened{Image: img}, nil
}

func (h SW93BetaPlanar) Create(s stream.Stream, supps Supps) (Opened, error) {
	if err := s.Truncate(7); err != nil {
		return Opened{}, err
	}
	if err := s.Write(0, make([]byte, 7)); err != nil {
		return Opened{}, err
	}
	img := image.New(s, 0, 3, 4, gamegfx.VGA, 0, 0, sw93Codec{}, gamegfx.HasPalette|gamegfx.SetDimensions)
	return Opened{Image: img}, nil
}

func (SW93BetaPlanar) RequiredSupps(filename string) map[Role]string {
	return map[Role]string{RolePalette: "Palette1.134"}
}
