package formats

import (
	"encoding/binary"
	"fmt"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/image"
	"github.com/flga/gamegfx/palette"
	"github.com/flga/gamegfx/pixel"
	"github.com/flga/gamegfx/stream"
	"github.com/flga/gamegfx/tileset"
)

const (
	z66FATOffset       = 4
	z66FATEntryLen     = 4
	z66FirstTileOffset = 4
	z66SafetyMaxTiles  = 4096
	z66FullScreenSize  = 64000 // 320x200, stored headerless
)

// zone66Codec implements Zone 66's bespoke per-tile RLE image format,
// grounded on img-zone66_tile.cpp's convert()/convert(newContent,
// newMask): runs of literal pixel bytes framed by a length byte, plus
// three control codes (0xFD skip-N-pixels, 0xFE end-of-line, 0xFF
// end-of-image). This has nothing in common with the rle package's
// Captain Comic filters, which use an entirely different control byte
// scheme.
type zone66Codec struct{}

func (zone66Codec) Decode(data []byte, w, h int) (*pixel.Buffer, error) {
	buf := pixel.New(w, h)
	size := w * h
	pos, i, y := 0, 0, 0
	for i < size && pos < len(data) {
		code := data[pos]
		pos++
		switch code {
		case 0x00:
			return buf, fmt.Errorf("formats/zone66: invalid control code 0x00: %w", gamegfx.ErrInvalidFormat)
		case 0xFF:
			i = size
		case 0xFE:
			y++
			i = y * w
		case 0xFD:
			if pos >= len(data) {
				return buf, fmt.Errorf("formats/zone66: truncated skip code: %w", gamegfx.ErrIncompleteRead)
			}
			n := int(data[pos])
			pos++
			i += n
		default:
			n := int(code)
			if i+n > size || pos+n > len(data) {
				return buf, fmt.Errorf("formats/zone66: literal run past end of image: %w", gamegfx.ErrIncompleteRead)
			}
			copy(buf.Pixels[i:i+n], data[pos:pos+n])
			pos += n
			i += n
		}
	}
	return buf, nil
}

// Encode is a correct, if not byte-optimal, inverse of Decode: every
// run of zero pixels of length > 1 becomes a 0xFD skip, everything else
// is written as literal runs capped at 252 bytes (0xFD-0xFF are
// control codes, so they can't be literal lengths), and each row ends
// with 0xFE except the last, which instead falls through to the
// trailing 0xFF. The original's encoder additionally hunts for the
// last non-blank pixel to avoid emitting trailing 0xFE's; skipping that
// optimization still round-trips correctly, just with a few more
// harmless end-of-line markers on mostly-blank tiles.
func (zone66Codec) Encode(buf *pixel.Buffer) ([]byte, error) {
	var out []byte
	for y := 0; y < buf.H; y++ {
		row := buf.Pixels[y*buf.W : (y+1)*buf.W]
		x := 0
		for x < len(row) {
			if row[x] == 0 {
				n := 0
				for x+n < len(row) && row[x+n] == 0 && n < 255 {
					n++
				}
				if n > 1 {
					out = append(out, 0xFD, byte(n))
					x += n
					continue
				}
			}
			n := 0
			for x+n < len(row) && n < 0xFC {
				// stop a literal run at the start of a >1-length blank run
				if row[x+n] == 0 {
					blanks := 0
					for x+n+blanks < len(row) && row[x+n+blanks] == 0 {
						blanks++
					}
					if blanks > 1 {
						break
					}
				}
				n++
			}
			if n == 0 {
				n = 1
			}
			out = append(out, byte(n))
			out = append(out, row[x:x+n]...)
			x += n
		}
		if y != buf.H-1 {
			out = append(out, 0xFE)
		}
	}
	out = append(out, 0xFF)
	return out, nil
}

// Zone66 implements spec §4.H's Zone 66 tileset handler (§8's S3
// scenario: offset-table FAT whose entries are relative to the end of
// the table itself), grounded on tls-zone66.cpp/.hpp and
// img-zone66_tile.cpp/.hpp. Tiles sized exactly 64000 bytes are
// headerless full-screen 320x200 raw VGA frames; everything else is a
// {width,height}-prefixed zone66Codec image.
type Zone66 struct{}

func (Zone66) Code() string         { return "tls-zone66" }
func (Zone66) FriendlyName() string { return "Zone 66 tileset" }
func (Zone66) Extensions() []string { return []string{"z66"} }
func (Zone66) Games() []string      { return []string{"Zone 66"} }

func (Zone66) Probe(s stream.Stream) Certainty {
	size := s.Size()
	if size < z66FirstTileOffset {
		return DefinitelyNo
	}
	hdr, err := s.Read(0, 4)
	if err != nil {
		return DefinitelyNo
	}
	numFiles := binary.LittleEndian.Uint32(hdr)
	if numFiles == 0 && size > 8 {
		return DefinitelyNo
	}
	var lastOffset uint32
	for i := uint32(0); i < numFiles; i++ {
		off, err := s.Read(z66FATOffset+int64(i)*z66FATEntryLen, 4)
		if err != nil {
			return DefinitelyNo
		}
		offset := binary.LittleEndian.Uint32(off)
		if i == 0 && offset != 0 {
			return DefinitelyNo
		}
		if offset < lastOffset {
			return DefinitelyNo
		}
		if int64(numFiles+1)*4+int64(offset) > size {
			return DefinitelyNo
		}
		lastOffset = offset
	}
	return DefinitelyYes
}

func (h Zone66) buildEntries(s stream.Stream) ([]*tileset.Entry, error) {
	size := s.Size()
	if size < z66FirstTileOffset {
		return nil, fmt.Errorf("formats/zone66: stream too short: %w", gamegfx.ErrInvalidFormat)
	}
	hdr, err := s.Read(0, 4)
	if err != nil {
		return nil, fmt.Errorf("formats/zone66: reading tile count: %w", gamegfx.ErrIncompleteRead)
	}
	numFiles := binary.LittleEndian.Uint32(hdr)
	if numFiles > z66SafetyMaxTiles {
		return nil, fmt.Errorf("formats/zone66: too many tiles: %w", gamegfx.ErrInvalidFormat)
	}
	if numFiles == 0 {
		return nil, nil
	}
	fatSize := int64(numFiles+1) * z66FATEntryLen
	offsets := make([]uint32, numFiles)
	for i := uint32(0); i < numFiles; i++ {
		off, err := s.Read(z66FATOffset+int64(i)*z66FATEntryLen, 4)
		if err != nil {
			return nil, fmt.Errorf("formats/zone66: reading FAT entry %d: %w", i, gamegfx.ErrIncompleteRead)
		}
		offsets[i] = binary.LittleEndian.Uint32(off)
	}
	entries := make([]*tileset.Entry, numFiles)
	for i := uint32(0); i < numFiles; i++ {
		start := fatSize + int64(offsets[i])
		var end int64
		if i+1 == numFiles {
			end = size
		} else {
			end = fatSize + int64(offsets[i+1])
		}
		tag := "tile/zone66"
		if end-start == z66FullScreenSize {
			tag = "image/vga-raw-fullscreen"
		}
		entries[i] = &tileset.Entry{
			Index: int(i), Offset: start, StoredSize: end - start, RealSize: end - start,
			TypeTag: tag, Valid: true,
		}
	}
	return entries, nil
}

func (h Zone66) Open(s stream.Stream, supps Supps) (Opened, error) {
	entries, err := h.buildEntries(s)
	if err != nil {
		return Opened{}, err
	}
	t := tileset.NewFAT(s, tileset.VariableSizer{})
	t.Load(entries)
	h.attachFlush(t)
	return Opened{Tileset: t}, nil
}

func (h Zone66) Create(s stream.Stream, supps Supps) (Opened, error) {
	if err := s.Truncate(4); err != nil {
		return Opened{}, err
	}
	if err := s.Write(0, []byte{0, 0, 0, 0}); err != nil {
		return Opened{}, err
	}
	t := tileset.NewFAT(s, tileset.VariableSizer{})
	h.attachFlush(t)
	return Opened{Tileset: t}, nil
}

// attachFlush installs the FlushFunc that rewrites the leading u32 tile
// count plus offset table (tls-zone66.cpp's on-disk FAT) so it matches
// the Tileset's current entries. Insert/Remove/Resize/Move only ever
// touch the tile data region they know about; the table itself grows or
// shrinks by one 4-byte slot per tile, which FlushFunc reconciles by
// resizing the table in place and re-basing every entry's Offset.
func (h Zone66) attachFlush(t *tileset.Tileset) {
	fatSize := func(n int) int64 { return int64(n+1) * z66FATEntryLen }
	current := fatSize(len(t.Files()))
	t.FlushFunc = func(t *tileset.Tileset) error {
		files := t.Files()
		newSize := fatSize(len(files))
		if delta := newSize - current; delta > 0 {
			if err := t.Stream.Insert(0, delta); err != nil {
				return fmt.Errorf("formats/zone66: growing FAT: %w", gamegfx.ErrStreamError)
			}
			for _, e := range files {
				e.Offset += delta
			}
		} else if delta < 0 {
			if err := t.Stream.Remove(0, -delta); err != nil {
				return fmt.Errorf("formats/zone66: shrinking FAT: %w", gamegfx.ErrStreamError)
			}
			for _, e := range files {
				e.Offset += delta
			}
		}
		current = newSize

		hdr := make([]byte, newSize)
		binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(files)))
		for i, e := range files {
			off := z66FATOffset + int64(i)*z66FATEntryLen
			binary.LittleEndian.PutUint32(hdr[off:off+4], uint32(e.Offset-newSize))
		}
		return t.Stream.Write(0, hdr)
	}
}

func (Zone66) RequiredSupps(filename string) map[Role]string {
	return map[Role]string{RolePalette: "mpal.z66"}
}

// OpenTile returns the per-entry Image: a raw VGA linear 320x200 frame
// for full-screen entries, or a zone66Codec image with its own embedded
// {width,height} header otherwise.
func (Zone66) OpenTile(t *tileset.Tileset, e *tileset.Entry, pal palette.Palette) (*image.Image, error) {
	region := t.Open(e)
	var img *image.Image
	if e.StoredSize == z66FullScreenSize {
		img = image.New(region, 0, 0, e.StoredSize, gamegfx.VGA, 320, 200, image.Linear8{}, 0)
	} else {
		hdr, err := region.Read(0, 4)
		if err != nil {
			return nil, fmt.Errorf("formats/zone66: reading tile dims: %w", gamegfx.ErrIncompleteRead)
		}
		width := int32(binary.LittleEndian.Uint16(hdr[0:2]))
		height := int32(binary.LittleEndian.Uint16(hdr[2:4]))
		img = image.New(region, 0, 4, e.StoredSize-4, gamegfx.VGA, width, height,
			zone66Codec{}, gamegfx.SetDimensions|gamegfx.HasPalette)
	}
	if len(pal) > 0 {
		p := make(palette.Palette, len(pal))
		copy(p, pal)
		if len(p) > 0 {
			p[0].A = 0
		}
		img.SetPaletteLoaded(p)
	}
	return img, nil
}
