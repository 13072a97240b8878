package formats

import (
	"encoding/binary"
	"fmt"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/image"
	"github.com/flga/gamegfx/stream"
	"github.com/flga/gamegfx/tileset"
)

const (
	chrTileWidth  = 16
	chrTileHeight = 16
	chrTileSize   = chrTileWidth * chrTileHeight
	chrNumTiles   = 255
)

// HarryCHR implements spec §4.H's Halloween Harry .CHR tileset handler,
// grounded on tls-harry-chr.cpp: a flat array of fixed 16x16 raw VGA
// chunky tiles, up to 255 of them, with no index at all.
type HarryCHR struct{}

func (HarryCHR) Code() string         { return "tls-harry-chr" }
func (HarryCHR) FriendlyName() string { return "Halloween Harry CHR tileset" }
func (HarryCHR) Extensions() []string { return []string{"chr"} }
func (HarryCHR) Games() []string      { return []string{"Alien Carnage", "Halloween Harry"} }

func (HarryCHR) Probe(s stream.Stream) Certainty {
	size := s.Size()
	if size == chrTileSize*chrNumTiles {
		return DefinitelyYes
	}
	if size%chrTileSize != 0 {
		return DefinitelyNo
	}
	return PossiblyYes
}

func (h HarryCHR) buildEntries(s stream.Stream) []*tileset.Entry {
	n := s.Size() / chrTileSize
	entries := make([]*tileset.Entry, n)
	for i := int64(0); i < n; i++ {
		entries[i] = &tileset.Entry{
			Index: int(i), Offset: i * chrTileSize,
			StoredSize: chrTileSize, RealSize: chrTileSize,
			TypeTag: "tile/harry-chr", Valid: true,
		}
	}
	return entries
}

func (h HarryCHR) Open(s stream.Stream, supps Supps) (Opened, error) {
	t := tileset.NewFAT(s, tileset.FixedSizer{Size: chrTileSize})
	t.Load(h.buildEntries(s))
	return Opened{Tileset: t}, nil
}

func (h HarryCHR) Create(s stream.Stream, supps Supps) (Opened, error) {
	if err := s.Truncate(0); err != nil {
		return Opened{}, err
	}
	t := tileset.NewFAT(s, tileset.FixedSizer{Size: chrTileSize})
	return Opened{Tileset: t}, nil
}

func (HarryCHR) RequiredSupps(filename string) map[Role]string {
	// "missionX.chr" -> "mXz1.gmf"
	name := "m"
	if n := len(filename); n >= 5 {
		name += string(filename[n-5])
	}
	name += "z1.gmf"
	return map[Role]string{RolePalette: name}
}

// OpenTile returns the raw VGA chunky Image over e's region.
func (HarryCHR) OpenTile(t *tileset.Tileset, e *tileset.Entry) *image.Image {
	region := t.Open(e)
	return image.New(region, 0, 0, e.StoredSize, gamegfx.VGA, chrTileWidth, chrTileHeight,
		image.Linear8{}, 0)
}

const hsbHeaderLen = 8

// HarryHSB implements spec §4.H's Halloween Harry .HSB tileset handler,
// grounded on tls-harry-hsb.cpp: a walked stream of variable-size raw
// VGA tiles, each framed by an 8-byte header (two unknown fields, then
// width/height, all little-endian 16-bit).
type HarryHSB struct{}

func (HarryHSB) Code() string         { return "tls-harry-hsb" }
func (HarryHSB) FriendlyName() string { return "Halloween Harry HSB tileset" }
func (HarryHSB) Extensions() []string { return []string{"hsb"} }
func (HarryHSB) Games() []string      { return []string{"Alien Carnage", "Halloween Harry"} }

func (HarryHSB) Probe(s stream.Stream) Certainty {
	size := s.Size()
	if size == 0 {
		return PossiblyYes
	}
	if size < hsbHeaderLen {
		return DefinitelyNo
	}
	var pos int64
	for pos < size {
		hdr, err := s.Read(pos, hsbHeaderLen)
		if err != nil {
			return DefinitelyNo
		}
		width := int64(binary.LittleEndian.Uint16(hdr[4:6]))
		height := int64(binary.LittleEndian.Uint16(hdr[6:8]))
		pos += width*height + hsbHeaderLen
		if pos > size {
			return DefinitelyNo
		}
	}
	return DefinitelyYes
}

func (h HarryHSB) buildEntries(s stream.Stream) ([]*tileset.Entry, error) {
	size := s.Size()
	var pos int64
	var entries []*tileset.Entry
	i := 0
	for pos < size {
		hdr, err := s.Read(pos, hsbHeaderLen)
		if err != nil {
			return nil, fmt.Errorf("formats/harry: reading hsb header: %w", gamegfx.ErrIncompleteRead)
		}
		width := int64(binary.LittleEndian.Uint16(hdr[4:6]))
		height := int64(binary.LittleEndian.Uint16(hdr[6:8]))
		entries = append(entries, &tileset.Entry{
			Index: i, Offset: pos, HeaderSize: hsbHeaderLen,
			StoredSize: width * height, RealSize: width * height,
			TypeTag: "tile/harry-hsb", Valid: true,
		})
		pos += hsbHeaderLen + width*height
		i++
	}
	return entries, nil
}

func (h HarryHSB) Open(s stream.Stream, supps Supps) (Opened, error) {
	entries, err := h.buildEntries(s)
	if err != nil {
		return Opened{}, err
	}
	t := tileset.NewFAT(s, tileset.VariableSizer{})
	t.Load(entries)
	return Opened{Tileset: t}, nil
}

func (h HarryHSB) Create(s stream.Stream, supps Supps) (Opened, error) {
	if err := s.Truncate(0); err != nil {
		return Opened{}, err
	}
	t := tileset.NewFAT(s, tileset.VariableSizer{})
	return Opened{Tileset: t}, nil
}

func (HarryHSB) RequiredSupps(filename string) map[Role]string { return nil }

// OpenTile reads e's 8-byte header for width/height and returns the raw
// VGA chunky Image over its pixel region.
func (h HarryHSB) OpenTile(t *tileset.Tileset, e *tileset.Entry) (*image.Image, error) {
	region := t.Open(e)
	hdr, err := region.Read(-hsbHeaderLen, hsbHeaderLen)
	if err != nil {
		return nil, fmt.Errorf("formats/harry: reading tile dims: %w", gamegfx.ErrIncompleteRead)
	}
	width := int32(binary.LittleEndian.Uint16(hdr[4:6]))
	height := int32(binary.LittleEndian.Uint16(hdr[6:8]))
	return image.New(region, 0, 0, e.StoredSize, gamegfx.VGA, width, height,
		image.Linear8{}, gamegfx.SetDimensions), nil
}
