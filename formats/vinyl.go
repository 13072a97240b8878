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
	vinylWidth  = 320
	vinylHeight = 200
)

// VinylSCR implements spec §4.H's Vinyl Goddess From Mars full-screen
// SCR format, grounded on img-scr-vinyl.cpp: a fixed 320x200, 16-colour
// planar VGA screen with no embedded header at all — dimensions are a
// format constant, not stored on disk.
type VinylSCR struct{}

func (VinylSCR) Code() string         { return "img-scr-vinyl" }
func (VinylSCR) FriendlyName() string { return "Vinyl Goddess From Mars SCR image" }
func (VinylSCR) Extensions() []string { return []string{"scr"} }
func (VinylSCR) Games() []string      { return []string{"Vinyl Goddess From Mars"} }

func (VinylSCR) Probe(s stream.Stream) Certainty {
	if s.Size() != vinylWidth*vinylHeight/8*4 {
		return DefinitelyNo
	}
	return Unsure
}

func vinylLayout() pixel.Layout {
	return pixel.Layout{pixel.Blue1, pixel.Green1, pixel.Red1, pixel.Intensity1}
}

func (VinylSCR) Open(s stream.Stream, supps Supps) (Opened, error) {
	img := image.New(s, 0, 0, s.Size(), gamegfx.VGA, vinylWidth, vinylHeight,
		image.BytePlanar{Layout: vinylLayout()}, 0)
	if p, ok := supps[RolePalette]; ok {
		data, err := p.Read(0, int(p.Size()))
		if err == nil || len(data) > 0 {
			if pal, perr := palette.Load8(data, 256); perr == nil {
				img.SetPaletteLoaded(pal)
			}
		}
	}
	return Opened{Image: img}, nil
}

func (h VinylSCR) Create(s stream.Stream, supps Supps) (Opened, error) {
	size := int64(vinylWidth) / 8 * vinylHeight * 4
	if err := s.Truncate(size); err != nil {
		return Opened{}, err
	}
	img := image.New(s, 0, 0, size, gamegfx.VGA, vinylWidth, vinylHeight,
		image.BytePlanar{Layout: vinylLayout()}, 0)
	return Opened{Image: img}, nil
}

func (VinylSCR) RequiredSupps(filename string) map[Role]string {
	return map[Role]string{RolePalette: trimExt(filename) + ".pal"}
}

func trimExt(filename string) string {
	for i := len(filename) - 1; i >= 0 && filename[i] != '/'; i-- {
		if filename[i] == '.' {
			return filename[:i]
		}
	}
	return filename
}

const (
	vgfmTileCountOffset = 0
	vgfmFirstTileOffset = 2
	vgfmEntryHeaderLen  = 2
	vgfmSafetyMaxTiles  = 4096
	vgfmTileWidth       = 16
	vgfmTileHeight      = 16
	vgfmSolidBodyLen    = 128
	vgfmMaskedBodyLen   = 192
	vgfmGroupsPerTile   = 64
	vgfmDictEntryLen    = 4
)

// VGFM implements Vinyl Goddess From Mars's dictionary-compressed
// tileset, grounded on tls-vinyl.cpp/.hpp — a separate, far more
// involved format from the flat VinylSCR screen above despite sharing a
// game. Every tile is a fixed 16x16 image, walked as an 8x8 grid of 2x2
// pixel blocks; each block is stored as an index into a 4-byte-per-code
// pixel dictionary shared by every tile in the file, plus an optional
// mask byte for tiles that aren't fully opaque. The dictionary lives in
// one trailing, length-prefixed region after the last tile and is
// compacted on flush: codes no longer referenced by any tile are
// dropped and the rest renumbered, shrinking the file.
type VGFM struct{}

func (VGFM) Code() string         { return "tls-vgfm" }
func (VGFM) FriendlyName() string { return "Vinyl Goddess From Mars tileset" }
func (VGFM) Extensions() []string { return []string{"vgfm"} }
func (VGFM) Games() []string      { return []string{"Vinyl Goddess From Mars"} }

// vgfmDictOffset is the absolute offset of the dictionary's u16le
// length prefix: right after the last tile, or right after the tile
// count header if there are no tiles yet.
func vgfmDictOffset(files []*tileset.Entry) int64 {
	if len(files) == 0 {
		return vgfmFirstTileOffset
	}
	last := files[len(files)-1]
	return last.Offset + last.HeaderSize + last.StoredSize
}

func (VGFM) Probe(s stream.Stream) Certainty {
	size := s.Size()
	if size < vgfmFirstTileOffset+2 {
		return DefinitelyNo
	}
	hdr, err := s.Read(vgfmTileCountOffset, 2)
	if err != nil {
		return DefinitelyNo
	}
	count := int(binary.LittleEndian.Uint16(hdr))
	if count > vgfmSafetyMaxTiles {
		return DefinitelyNo
	}
	off := int64(vgfmFirstTileOffset)
	for i := 0; i < count; i++ {
		if off+2 > size {
			return DefinitelyNo
		}
		lenHdr, err := s.Read(off, 2)
		if err != nil {
			return DefinitelyNo
		}
		bodyLen := int64(binary.LittleEndian.Uint16(lenHdr))
		if bodyLen != vgfmSolidBodyLen && bodyLen != vgfmMaskedBodyLen {
			return DefinitelyNo
		}
		off += vgfmEntryHeaderLen + bodyLen
	}
	if off+2 > size {
		return DefinitelyNo
	}
	dictHdr, err := s.Read(off, 2)
	if err != nil {
		return DefinitelyNo
	}
	dictLen := int64(binary.LittleEndian.Uint16(dictHdr))
	if off+2+dictLen != size {
		return DefinitelyNo
	}
	return DefinitelyYes
}

func (VGFM) buildEntries(s stream.Stream) ([]*tileset.Entry, error) {
	hdr, err := s.Read(vgfmTileCountOffset, 2)
	if err != nil {
		return nil, fmt.Errorf("formats/vinyl: reading tile count: %w", gamegfx.ErrIncompleteRead)
	}
	count := int(binary.LittleEndian.Uint16(hdr))
	if count > vgfmSafetyMaxTiles {
		return nil, fmt.Errorf("formats/vinyl: tile count %d exceeds safety limit: %w", count, gamegfx.ErrInvalidFormat)
	}
	off := int64(vgfmFirstTileOffset)
	entries := make([]*tileset.Entry, 0, count)
	for i := 0; i < count; i++ {
		lenHdr, err := s.Read(off, 2)
		if err != nil {
			return nil, fmt.Errorf("formats/vinyl: reading tile %d size: %w", i, gamegfx.ErrIncompleteRead)
		}
		bodyLen := int64(binary.LittleEndian.Uint16(lenHdr))
		if bodyLen != vgfmSolidBodyLen && bodyLen != vgfmMaskedBodyLen {
			return nil, fmt.Errorf("formats/vinyl: tile %d has unrecognised size marker %d: %w", i, bodyLen, gamegfx.ErrInvalidFormat)
		}
		entries = append(entries, &tileset.Entry{
			Index: i, Offset: off, HeaderSize: vgfmEntryHeaderLen,
			StoredSize: bodyLen, RealSize: bodyLen,
			TypeTag: "tile/vgfm", Valid: true,
		})
		off += vgfmEntryHeaderLen + bodyLen
	}
	return entries, nil
}

func (h VGFM) Open(s stream.Stream, supps Supps) (Opened, error) {
	entries, err := h.buildEntries(s)
	if err != nil {
		return Opened{}, err
	}
	t := tileset.NewFAT(s, tileset.VariableSizer{})
	t.Load(entries)
	h.attachFlush(t)
	return Opened{Tileset: t}, nil
}

func (h VGFM) Create(s stream.Stream, supps Supps) (Opened, error) {
	if err := s.Truncate(4); err != nil {
		return Opened{}, err
	}
	if err := s.Write(0, []byte{0, 0, 0, 0}); err != nil { // 0 tiles, empty dictionary
		return Opened{}, err
	}
	t := tileset.NewFAT(s, tileset.VariableSizer{})
	h.attachFlush(t)
	return Opened{Tileset: t}, nil
}

func (VGFM) RequiredSupps(filename string) map[Role]string {
	return map[Role]string{RolePalette: trimExt(filename) + ".pal"}
}

// attachFlush keeps the tile-count header in sync with Insert/Remove
// (the per-tile framing needs no other repair: unlike Zone 66 there's
// no separate offset table, tiles are walked by their own length
// markers) and runs dictionary compaction: any code no longer
// referenced by a tile is dropped and the rest renumbered in place.
func (VGFM) attachFlush(t *tileset.Tileset) {
	t.FlushFunc = func(t *tileset.Tileset) error {
		files := t.Files()

		cnt := make([]byte, 2)
		binary.LittleEndian.PutUint16(cnt, uint16(len(files)))
		if err := t.Stream.Write(vgfmTileCountOffset, cnt); err != nil {
			return fmt.Errorf("formats/vinyl: writing tile count: %w", gamegfx.ErrStreamError)
		}

		dictOff := vgfmDictOffset(files)
		dictLenHdr, err := t.Stream.Read(dictOff, 2)
		if err != nil {
			return fmt.Errorf("formats/vinyl: reading dictionary length: %w", gamegfx.ErrIncompleteRead)
		}
		dictLen := int(binary.LittleEndian.Uint16(dictLenHdr))
		dictBytes, err := t.Stream.Read(dictOff+2, dictLen)
		if err != nil {
			return fmt.Errorf("formats/vinyl: reading dictionary: %w", gamegfx.ErrIncompleteRead)
		}
		numCodes := dictLen / vgfmDictEntryLen

		type codeRef struct {
			byteOff int64
			code    int
		}
		used := make([]bool, numCodes)
		var refs []codeRef
		for _, e := range files {
			body, err := t.Stream.Read(e.Offset+e.HeaderSize, int(e.StoredSize))
			if err != nil {
				return fmt.Errorf("formats/vinyl: reading tile body: %w", gamegfx.ErrIncompleteRead)
			}
			stride, codeOff := 2, 0
			if e.StoredSize == vgfmMaskedBodyLen {
				stride, codeOff = 3, 1
			}
			for g := 0; g < vgfmGroupsPerTile; g++ {
				pos := g * stride
				code := int(binary.LittleEndian.Uint16(body[pos+codeOff : pos+codeOff+2]))
				if code < numCodes {
					used[code] = true
				}
				refs = append(refs, codeRef{byteOff: e.Offset + e.HeaderSize + int64(pos+codeOff), code: code})
			}
		}

		allUsed := true
		for _, u := range used {
			if !u {
				allUsed = false
				break
			}
		}
		if allUsed {
			return nil
		}

		remap := make([]int, numCodes)
		compacted := make([]byte, 0, dictLen)
		for code := 0; code < numCodes; code++ {
			if !used[code] {
				remap[code] = -1
				continue
			}
			remap[code] = len(compacted) / vgfmDictEntryLen
			compacted = append(compacted, dictBytes[code*4:code*4+4]...)
		}

		for _, r := range refs {
			if r.code >= numCodes || remap[r.code] < 0 {
				continue
			}
			newCode := make([]byte, 2)
			binary.LittleEndian.PutUint16(newCode, uint16(remap[r.code]))
			if err := t.Stream.Write(r.byteOff, newCode); err != nil {
				return fmt.Errorf("formats/vinyl: rewriting code reference: %w", gamegfx.ErrStreamError)
			}
		}

		if delta := int64(len(compacted)) - int64(dictLen); delta < 0 {
			if err := t.Stream.Remove(dictOff+2+int64(len(compacted)), -delta); err != nil {
				return fmt.Errorf("formats/vinyl: shrinking dictionary: %w", gamegfx.ErrStreamError)
			}
		}
		newLenHdr := make([]byte, 2)
		binary.LittleEndian.PutUint16(newLenHdr, uint16(len(compacted)))
		if err := t.Stream.Write(dictOff, newLenHdr); err != nil {
			return fmt.Errorf("formats/vinyl: writing dictionary length: %w", gamegfx.ErrStreamError)
		}
		if err := t.Stream.Write(dictOff+2, compacted); err != nil {
			return fmt.Errorf("formats/vinyl: writing dictionary: %w", gamegfx.ErrStreamError)
		}
		return nil
	}
}

// OpenTile returns the per-entry Image for one 16x16 tile. pal may be
// nil; callers that have a supplementary palette load it the same way
// every other indexed handler in this package does.
func (VGFM) OpenTile(t *tileset.Tileset, e *tileset.Entry, pal palette.Palette) *image.Image {
	region := t.Open(e)
	codec := vinylCodec{
		s:      t.Stream,
		dictAt: func() int64 { return vgfmDictOffset(t.Files()) },
	}
	img := image.New(region, 0, 0, e.StoredSize, gamegfx.VGA, vgfmTileWidth, vgfmTileHeight, codec, 0)
	if len(pal) > 0 {
		img.SetPaletteLoaded(pal)
	}
	return img
}

// vinylCodec implements the per-tile block/dictionary codec. Unlike
// every other Codec in this package it can't work from its entry's
// bytes alone — every tile shares one dictionary region elsewhere in
// the stream — so it carries the backing stream directly and a closure
// that locates that region at call time (its offset moves as tiles are
// inserted/removed ahead of it).
type vinylCodec struct {
	s      stream.Stream
	dictAt func() int64
}

func (c vinylCodec) readDict() ([]byte, error) {
	off := c.dictAt()
	lenHdr, err := c.s.Read(off, 2)
	if err != nil {
		return nil, fmt.Errorf("formats/vinyl: reading dictionary length: %w", gamegfx.ErrIncompleteRead)
	}
	n := int(binary.LittleEndian.Uint16(lenHdr))
	data, err := c.s.Read(off+2, n)
	if err != nil {
		return nil, fmt.Errorf("formats/vinyl: reading dictionary: %w", gamegfx.ErrIncompleteRead)
	}
	return data, nil
}

// vgfmBlockOrigin maps one of the 64 four-pixel groups to the top-left
// corner of its 2x2 block: tiles are walked as an 8x8 grid of blocks,
// row-major, matching the dictionary's 4-byte-per-code granularity.
func vgfmBlockOrigin(g int) (x, y int) {
	bx, by := g%8, g/8
	return bx * 2, by * 2
}

func (c vinylCodec) Decode(data []byte, w, h int) (*pixel.Buffer, error) {
	buf := pixel.New(w, h)
	masked := len(data) == vgfmMaskedBodyLen
	stride, codeOff := 2, 0
	if masked {
		stride, codeOff = 3, 1
	}
	dict, err := c.readDict()
	if err != nil {
		return buf, err
	}
	numCodes := len(dict) / vgfmDictEntryLen
	for g := 0; g < vgfmGroupsPerTile; g++ {
		pos := g * stride
		if pos+stride > len(data) {
			return buf, fmt.Errorf("formats/vinyl: truncated tile body: %w", gamegfx.ErrIncompleteRead)
		}
		code := int(binary.LittleEndian.Uint16(data[pos+codeOff : pos+codeOff+2]))
		if code >= numCodes {
			return buf, fmt.Errorf("formats/vinyl: dictionary code %d out of range: %w", code, gamegfx.ErrInvalidFormat)
		}
		px := dict[code*4 : code*4+4]
		maskByte := byte(0xFF) // solid tiles: every sub-pixel opaque
		if masked {
			maskByte = data[pos]
		}
		ox, oy := vgfmBlockOrigin(g)
		for j := 0; j < 4; j++ {
			x, y := ox+j%2, oy+j/2
			m := byte(0)
			if (maskByte>>j)&1 == 0 {
				m = pixel.Transparent
			}
			buf.Set(x, y, px[j], m)
		}
	}
	return buf, nil
}

func (c vinylCodec) Encode(buf *pixel.Buffer) ([]byte, error) {
	masked := false
	for _, m := range buf.Mask {
		if m&pixel.Transparent != 0 {
			masked = true
			break
		}
	}

	dict, err := c.readDict()
	if err != nil {
		return nil, err
	}
	local := append([]byte{}, dict...)
	find := func(px [4]byte) int {
		for i := 0; i+4 <= len(local); i += 4 {
			if local[i] == px[0] && local[i+1] == px[1] && local[i+2] == px[2] && local[i+3] == px[3] {
				return i / 4
			}
		}
		return -1
	}

	bodyLen, stride, codeOff := vgfmSolidBodyLen, 2, 0
	if masked {
		bodyLen, stride, codeOff = vgfmMaskedBodyLen, 3, 1
	}
	body := make([]byte, bodyLen)
	for g := 0; g < vgfmGroupsPerTile; g++ {
		ox, oy := vgfmBlockOrigin(g)
		var px [4]byte
		var maskByte byte
		for j := 0; j < 4; j++ {
			x, y := ox+j%2, oy+j/2
			v, m := buf.At(x, y)
			px[j] = v
			if m&pixel.Transparent == 0 {
				maskByte |= 1 << j
			}
		}
		code := find(px)
		if code < 0 {
			local = append(local, px[0], px[1], px[2], px[3])
			code = len(local)/4 - 1
		}
		pos := g * stride
		if masked {
			body[pos] = maskByte
		}
		binary.LittleEndian.PutUint16(body[pos+codeOff:pos+codeOff+2], uint16(code))
	}

	if len(local) > len(dict) {
		off := c.dictAt()
		grown := local[len(dict):]
		if err := c.s.Insert(off+2+int64(len(dict)), int64(len(grown))); err != nil {
			return nil, fmt.Errorf("formats/vinyl: growing dictionary: %w", gamegfx.ErrStreamError)
		}
		if err := c.s.Write(off+2+int64(len(dict)), grown); err != nil {
			return nil, fmt.Errorf("formats/vinyl: writing new dictionary entries: %w", gamegfx.ErrStreamError)
		}
		newLenHdr := make([]byte, 2)
		binary.LittleEndian.PutUint16(newLenHdr, uint16(len(local)))
		if err := c.s.Write(off, newLenHdr); err != nil {
			return nil, fmt.Errorf("formats/vinyl: updating dictionary length: %w", gamegfx.ErrStreamError)
		}
	}
	return body, nil
}
