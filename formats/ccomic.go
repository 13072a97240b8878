package formats

import (
	"fmt"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/image"
	"github.com/flga/gamegfx/pixel"
	"github.com/flga/gamegfx/stream"
	"github.com/flga/gamegfx/tileset"
)

// ccTileWidth, ccTileHeight are Captain Comic's fixed tile dimensions,
// grounded on tls-ccomic.cpp's CCA_TILE_WIDTH/CCA_TILE_HEIGHT.
const (
	ccTileWidth  = 16
	ccTileHeight = 16
)

// CComic implements spec §4.H's Captain Comic tileset handler, grounded
// on tls-ccomic.cpp: fixed 128-byte (solid, 4-plane) or 160-byte
// (masked, 5-plane sprite) tiles with no per-entry index. The solid
// variant starts with a 4-byte header (reserved for a future tile count,
// never actually used); the masked variant has no header. The FAT is
// reconstructed by walking fixed-size steps from the end of the header.
type CComic struct {
	// Masked selects the 5-plane sprite variant (tls-ccomic-sprite) with
	// an Opaque1 mask plane, vs. the 4-plane solid tileset variant.
	Masked bool
}

func (h CComic) numPlanes() int {
	if h.Masked {
		return 5
	}
	return 4
}

func (h CComic) headerLen() int64 {
	if h.Masked {
		return 0
	}
	return 4
}

func (h CComic) tileSize() int64 {
	return int64(ccTileWidth/8*ccTileHeight) * int64(h.numPlanes())
}

func (h CComic) Code() string {
	if h.Masked {
		return "tls-ccomic-sprite"
	}
	return "tls-ccomic"
}

func (h CComic) FriendlyName() string {
	if h.Masked {
		return "Captain Comic Sprite"
	}
	return "Captain Comic Tileset"
}

func (h CComic) Extensions() []string { return []string{"tt2"} }
func (h CComic) Games() []string      { return []string{"Captain Comic"} }

func (h CComic) Probe(s stream.Stream) Certainty {
	size := s.Size()
	if h.Masked {
		if size%160 == 0 {
			return PossiblyYes
		}
		return DefinitelyNo
	}
	if size%128 == 4 {
		return PossiblyYes
	}
	return DefinitelyNo
}

func (h CComic) layout() pixel.Layout {
	mask := pixel.Unused
	if h.Masked {
		mask = pixel.Opaque1
	}
	return pixel.Layout{pixel.Blue1, pixel.Green1, pixel.Red1, pixel.Intensity1, mask}
}

func (h CComic) buildEntries(s stream.Stream) ([]*tileset.Entry, error) {
	lenHeader := h.headerLen()
	tileSize := h.tileSize()
	total := s.Size() - lenHeader
	if total < 0 {
		return nil, fmt.Errorf("formats/ccomic: stream shorter than header: %w", gamegfx.ErrInvalidFormat)
	}
	n := total / tileSize
	entries := make([]*tileset.Entry, n)
	for i := int64(0); i < n; i++ {
		entries[i] = &tileset.Entry{
			Index: int(i), Offset: lenHeader + i*tileSize,
			StoredSize: tileSize, RealSize: tileSize,
			TypeTag: "tile/ccomic", Valid: true,
		}
	}
	return entries, nil
}

func (h CComic) openTileset(s stream.Stream) (*tileset.Tileset, error) {
	entries, err := h.buildEntries(s)
	if err != nil {
		return nil, err
	}
	t := tileset.NewFAT(s, tileset.FixedSizer{Size: h.tileSize()})
	t.Load(entries)
	return t, nil
}

func (h CComic) Open(s stream.Stream, supps Supps) (Opened, error) {
	t, err := h.openTileset(s)
	if err != nil {
		return Opened{}, err
	}
	return Opened{Tileset: t}, nil
}

func (h CComic) Create(s stream.Stream, supps Supps) (Opened, error) {
	if !h.Masked {
		if err := s.Truncate(0); err != nil {
			return Opened{}, err
		}
		if err := s.Insert(0, 4); err != nil {
			return Opened{}, err
		}
	}
	t := tileset.NewFAT(s, tileset.FixedSizer{Size: h.tileSize()})
	return Opened{Tileset: t}, nil
}

func (h CComic) RequiredSupps(filename string) map[Role]string { return nil }

// OpenTile constructs the per-entry Image for a Captain Comic tile,
// mirroring Tileset_CComic::openImage: a byte-planar image over the
// entry's Region with no embedded header and the EGA colour depth.
func (h CComic) OpenTile(t *tileset.Tileset, e *tileset.Entry) *image.Image {
	region := t.Open(e)
	return image.New(region, 0, 0, e.StoredSize, gamegfx.EGA, ccTileWidth, ccTileHeight,
		image.BytePlanar{Layout: h.layout()}, 0)
}
