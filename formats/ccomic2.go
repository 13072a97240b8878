package formats

import (
	"encoding/binary"
	"fmt"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/image"
	"github.com/flga/gamegfx/rle"
	"github.com/flga/gamegfx/stream"
	"github.com/flga/gamegfx/tileset"
)

const (
	cc2TileWidth  = 16
	cc2TileHeight = 16
	cc2HeaderLen  = 6 // three little-endian attribute counters
	cc2TileSize   = int64(cc2TileWidth/8*cc2TileHeight) * 4
)

// transformer is the shape both rle.Decoder2 and rle.Encoder2 share.
type transformer interface {
	Transform(in, out []byte) (consumed, produced int)
}

// runTransform drains t over in completely, growing the output as
// needed. Both rle filters are designed to be called repeatedly with
// small buffers and signal completion by returning (0,0), per package
// rle's restartable contract.
func runTransform(t transformer, in []byte) []byte {
	var out []byte
	scratch := make([]byte, 4096)
	for {
		consumed, produced := t.Transform(in, scratch)
		out = append(out, scratch[:produced]...)
		in = in[consumed:]
		if consumed == 0 && produced == 0 {
			break
		}
	}
	return out
}

// ccomic2Stream presents Captain Comic II's RLE-compressed backing file
// (filter_ccomic2_unrle/filter_ccomic2_rle) as a plain random-access
// Stream holding the decompressed bytes, so the ordinary fixed-tile-size
// FAT machinery (shared with CComic) can work directly on it. It keeps
// the whole decompressed image in memory and recompresses it back into
// the real backing stream after every mutation, mirroring
// stream::filtered's transparent passthrough in tls-ccomic2.cpp without
// needing a general streaming-filter abstraction of our own.
type ccomic2Stream struct {
	raw   stream.Stream
	plain *stream.Mem
}

func newCComic2Stream(raw stream.Stream) (*ccomic2Stream, error) {
	var data []byte
	if raw.Size() > 0 {
		var err error
		data, err = raw.Read(0, int(raw.Size()))
		if err != nil && len(data) == 0 {
			return nil, fmt.Errorf("formats/ccomic2: reading compressed stream: %w", gamegfx.ErrIncompleteRead)
		}
	}
	dec := rle.NewDecoder2(cc2HeaderLen)
	plain := runTransform(dec, data)
	return &ccomic2Stream{raw: raw, plain: stream.NewMem(plain)}, nil
}

func (s *ccomic2Stream) sync() error {
	enc := rle.NewEncoder2(cc2HeaderLen)
	compressed := runTransform(enc, s.plain.Bytes())
	if err := s.raw.Truncate(int64(len(compressed))); err != nil {
		return err
	}
	return s.raw.Write(0, compressed)
}

func (s *ccomic2Stream) Size() int64 { return s.plain.Size() }
func (s *ccomic2Stream) Read(offset int64, length int) ([]byte, error) {
	return s.plain.Read(offset, length)
}

func (s *ccomic2Stream) Write(offset int64, data []byte) error {
	if err := s.plain.Write(offset, data); err != nil {
		return err
	}
	return s.sync()
}

func (s *ccomic2Stream) Insert(offset, length int64) error {
	if err := s.plain.Insert(offset, length); err != nil {
		return err
	}
	return s.sync()
}

func (s *ccomic2Stream) Remove(offset, length int64) error {
	if err := s.plain.Remove(offset, length); err != nil {
		return err
	}
	return s.sync()
}

func (s *ccomic2Stream) Truncate(size int64) error {
	if err := s.plain.Truncate(size); err != nil {
		return err
	}
	return s.sync()
}

// CComic2 implements spec §4.H's Captain Comic II tileset handler,
// grounded on tls-ccomic2.cpp: the same fixed 16x16, 4-plane EGA tile
// layout as CComic, but with the whole file RLE-compressed
// (filter-ccomic2.cpp) ahead of a 6-byte header of three attribute
// counters (last blocking/standing/underwater tile index) instead of
// CComic's 4 reserved bytes.
type CComic2 struct{}

func (CComic2) Code() string         { return "tls-ccomic2" }
func (CComic2) FriendlyName() string { return "Captain Comic II Tileset" }
func (CComic2) Extensions() []string { return []string{"0"} }
func (CComic2) Games() []string      { return []string{"Captain Comic 2"} }

// Probe mirrors TilesetType_CComic2::isInstance: without decompressing,
// it can only sanity-check the three little-endian attribute counters
// (0xFFFF meaning "none", otherwise capped at 512) ahead of the
// compressed tile data, so it never claims more than Unsure.
func (CComic2) Probe(s stream.Stream) Certainty {
	size := s.Size()
	if size > 65535 {
		return DefinitelyNo
	}
	if size < cc2HeaderLen {
		return DefinitelyNo
	}
	hdr, err := s.Read(0, cc2HeaderLen)
	if err != nil {
		return DefinitelyNo
	}
	for i := 0; i < 3; i++ {
		v := binary.LittleEndian.Uint16(hdr[i*2 : i*2+2])
		if v != 0xFFFF && v > 512 {
			return DefinitelyNo
		}
	}
	return Unsure
}

func (h CComic2) buildEntries(plain *ccomic2Stream) []*tileset.Entry {
	total := plain.Size() - cc2HeaderLen
	if total < 0 {
		return nil
	}
	n := total / cc2TileSize
	entries := make([]*tileset.Entry, n)
	for i := int64(0); i < n; i++ {
		entries[i] = &tileset.Entry{
			Index: int(i), Offset: cc2HeaderLen + i*cc2TileSize,
			StoredSize: cc2TileSize, RealSize: cc2TileSize,
			TypeTag: "tile/ccomic2", Valid: true,
		}
	}
	return entries
}

func (h CComic2) Open(s stream.Stream, supps Supps) (Opened, error) {
	plain, err := newCComic2Stream(s)
	if err != nil {
		return Opened{}, err
	}
	t := tileset.NewFAT(plain, tileset.FixedSizer{Size: cc2TileSize})
	t.Load(h.buildEntries(plain))
	return Opened{Tileset: t}, nil
}

func (h CComic2) Create(s stream.Stream, supps Supps) (Opened, error) {
	hdr := make([]byte, cc2HeaderLen)
	binary.LittleEndian.PutUint16(hdr[0:2], 0xFFFF)
	binary.LittleEndian.PutUint16(hdr[2:4], 0xFFFF)
	binary.LittleEndian.PutUint16(hdr[4:6], 0xFFFF)
	plain := &ccomic2Stream{raw: s, plain: stream.NewMem(hdr)}
	if err := plain.sync(); err != nil {
		return Opened{}, err
	}
	t := tileset.NewFAT(plain, tileset.FixedSizer{Size: cc2TileSize})
	return Opened{Tileset: t}, nil
}

func (CComic2) RequiredSupps(filename string) map[Role]string { return nil }

// OpenTile mirrors Tileset_CComic2::openImage: a byte-planar EGA image
// with no mask plane (Captain Comic II never uses the masked/sprite
// variant this format type exposed for the original Captain Comic).
func (CComic2) OpenTile(t *tileset.Tileset, e *tileset.Entry) *image.Image {
	region := t.Open(e)
	return image.New(region, 0, 0, e.StoredSize, gamegfx.EGA, cc2TileWidth, cc2TileHeight,
		image.BytePlanar{Layout: ccScreenLayout}, 0)
}
