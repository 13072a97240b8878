package formats

import (
	"encoding/binary"
	"fmt"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/image"
	"github.com/flga/gamegfx/pixel"
	"github.com/flga/gamegfx/stream"
	"github.com/flga/gamegfx/tileset"
)

const (
	mbFirstTileOffset = 1
	mbEFATEntryLen    = 2
	mbMinImageLen     = 13
	mbWideFlag        = 1 << 6
)

// BashSprite implements spec §4.H's Monster Bash sprite handler,
// grounded on tls-bash-sprite.cpp and img-bash-sprite.cpp: a leading
// 0xFF signature, then records each framed by a 16-bit length and a
// trailing 0x00 terminator byte, each holding a 12-byte embedded header
// (flags, y, x, reserved, hotspot, hit rect) ahead of 5-plane masked EGA
// pixel data. This grounds spec §8's S4 scenario (hotspot+hitrect caps
// on a variable-size sprite tileset).
type BashSprite struct{}

func (BashSprite) Code() string         { return "tls-bash-sprite" }
func (BashSprite) FriendlyName() string { return "Monster Bash Sprite" }
func (BashSprite) Extensions() []string { return []string{"spr"} }
func (BashSprite) Games() []string      { return []string{"Monster Bash"} }

func (BashSprite) Probe(s stream.Stream) Certainty {
	size := s.Size()
	if size < 1 {
		return DefinitelyNo
	}
	sig, err := s.Read(0, 1)
	if err != nil || sig[0] != 0xFF {
		return DefinitelyNo
	}
	remaining := size - 1
	offset := int64(1)
	for remaining >= mbEFATEntryLen {
		lenBytes, err := s.Read(offset, 2)
		if err != nil {
			return DefinitelyNo
		}
		lenBlock := int64(binary.LittleEndian.Uint16(lenBytes))
		offset += 2
		remaining -= 2
		if lenBlock < mbMinImageLen || lenBlock > remaining {
			return DefinitelyNo
		}
		last, err := s.Read(offset+lenBlock-1, 1)
		if err != nil || last[0] != 0x00 {
			return DefinitelyNo
		}
		offset += lenBlock
		remaining -= lenBlock
	}
	return DefinitelyYes
}

func (h BashSprite) buildEntries(s stream.Stream) ([]*tileset.Entry, error) {
	size := s.Size()
	if size < 1 {
		return nil, fmt.Errorf("formats/bashsprite: empty stream: %w", gamegfx.ErrInvalidFormat)
	}
	remaining := size - 1
	offset := int64(mbFirstTileOffset)
	var entries []*tileset.Entry
	i := 0
	for remaining >= mbEFATEntryLen {
		lenBytes, err := s.Read(offset, 2)
		if err != nil {
			return nil, fmt.Errorf("formats/bashsprite: reading block length: %w", gamegfx.ErrIncompleteRead)
		}
		lenBlock := int64(binary.LittleEndian.Uint16(lenBytes))
		remaining -= 2
		e := &tileset.Entry{
			Index: i, Offset: offset, StoredSize: lenBlock, RealSize: lenBlock,
			HeaderSize: mbEFATEntryLen, TypeTag: "tile/bash-sprite", Valid: true,
		}
		entries = append(entries, e)
		if lenBlock > remaining {
			break
		}
		offset += lenBlock + mbEFATEntryLen
		remaining -= lenBlock
		i++
	}
	return entries, nil
}

func (h BashSprite) Open(s stream.Stream, supps Supps) (Opened, error) {
	entries, err := h.buildEntries(s)
	if err != nil {
		return Opened{}, err
	}
	t := tileset.NewFAT(s, tileset.VariableSizer{})
	t.Load(entries)
	return Opened{Tileset: t}, nil
}

func (h BashSprite) Create(s stream.Stream, supps Supps) (Opened, error) {
	if err := s.Truncate(1); err != nil {
		return Opened{}, err
	}
	if err := s.Write(0, []byte{0xFF}); err != nil {
		return Opened{}, err
	}
	t := tileset.NewFAT(s, tileset.VariableSizer{})
	return Opened{Tileset: t}, nil
}

func (BashSprite) RequiredSupps(filename string) map[Role]string { return nil }

func bashSpriteLayout() pixel.Layout {
	return pixel.Layout{pixel.Blue1, pixel.Green1, pixel.Red1, pixel.Intensity1, pixel.Opaque1}
}

// SpriteFrame wraps an *image.Image with Monster Bash's 12-byte embedded
// header, keeping flags/dimensions/hotspot/hit-rect bytes in sync on
// every mutation the way a handler's resize-hook would in the original.
type SpriteFrame struct {
	*image.Image
	flags byte
}

// OpenSprite parses e's embedded header and returns the decorated Image.
func (h BashSprite) OpenSprite(t *tileset.Tileset, e *tileset.Entry) (*SpriteFrame, error) {
	region := t.Open(e)
	hdr, err := region.Read(0, 12)
	if err != nil {
		return nil, fmt.Errorf("formats/bashsprite: reading header: %w", gamegfx.ErrIncompleteRead)
	}
	flags := hdr[0]
	y, x := int32(hdr[1]), int32(hdr[2])
	hotX := -int32(int16(binary.LittleEndian.Uint16(hdr[4:6])))
	hotY := -int32(int16(binary.LittleEndian.Uint16(hdr[6:8])))
	hitX := int32(binary.LittleEndian.Uint16(hdr[8:10]))
	hitY := int32(binary.LittleEndian.Uint16(hdr[10:12]))

	pixelLen := e.StoredSize - 12 - 1 // embedded header, minus trailing 0x00 terminator
	img := image.New(region, 0, 12, pixelLen, gamegfx.EGA, x, y,
		image.BytePlanar{Layout: bashSpriteLayout()},
		gamegfx.SetDimensions|gamegfx.HasHotspot|gamegfx.HasHitRect)
	if err := img.SetHotspot(gamegfx.Point{X: hotX, Y: hotY}); err != nil {
		return nil, err
	}
	if err := img.SetHitRect(gamegfx.Point{X: hitX, Y: hitY}); err != nil {
		return nil, err
	}
	return &SpriteFrame{Image: img, flags: flags}, nil
}

// SetDimensions overrides image.Image's to additionally rewrite the
// embedded header's y/x/flags bytes, mirroring
// Image_BashSprite::dimensions(const Point&).
func (f *SpriteFrame) SetDimensions(p gamegfx.Point) error {
	if err := f.Image.SetDimensions(p); err != nil {
		return err
	}
	if p.X > 64 {
		f.flags |= mbWideFlag
	} else {
		f.flags &^= mbWideFlag
	}
	return f.Image.Stream.Write(0, []byte{f.flags, byte(p.Y), byte(p.X)})
}

// SetHotspot overrides image.Image's to rewrite the embedded,
// sign-inverted hotspot fields.
func (f *SpriteFrame) SetHotspot(p gamegfx.Point) error {
	if err := f.Image.SetHotspot(p); err != nil {
		return err
	}
	var buf [4]byte
	binary.LittleEndian.PutUint16(buf[0:2], uint16(int16(-p.X)))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(int16(-p.Y)))
	return f.Image.Stream.Write(4, buf[:])
}

// SetHitRect overrides image.Image's to rewrite the embedded hit-rect
// fields.
func (f *SpriteFrame) SetHitRect(p gamegfx.Point) error {
	if err := f.Image.SetHitRect(p); err != nil {
		return err
	}
	var buf [4]byte
	binary.LittleEndian.PutUint16(buf[0:2], uint16(p.X))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(p.Y))
	return f.Image.Stream.Write(8, buf[:])
}
