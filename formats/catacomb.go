package formats

import (
	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/image"
	"github.com/flga/gamegfx/stream"
	"github.com/flga/gamegfx/tileset"
)

const (
	catTileWidth  = 8
	catTileHeight = 8
	catCGATileSize = 16
	catINumTiles  = 1462
	catIINumTiles = 1618
)

// CatacombCGA implements spec §4.H's Catacomb/Catacomb II CGA tileset
// handler, grounded on tls-catacomb.cpp: a flat array of fixed 8x8,
// 2bpp row-linear CGA tiles with no index at all, identified purely by
// exact file length (1462 or 1618 tiles).
type CatacombCGA struct{}

func (CatacombCGA) Code() string         { return "tls-catacomb-cga" }
func (CatacombCGA) FriendlyName() string { return "Catacomb CGA Tileset" }
func (CatacombCGA) Extensions() []string { return []string{"cat", "ca2"} }
func (CatacombCGA) Games() []string      { return []string{"Catacomb", "Catacomb II"} }

func (CatacombCGA) Probe(s stream.Stream) Certainty {
	size := s.Size()
	if size == catINumTiles*catCGATileSize || size == catIINumTiles*catCGATileSize {
		return DefinitelyYes
	}
	return DefinitelyNo
}

func (h CatacombCGA) buildEntries(s stream.Stream) []*tileset.Entry {
	n := s.Size() / catCGATileSize
	entries := make([]*tileset.Entry, n)
	for i := int64(0); i < n; i++ {
		entries[i] = &tileset.Entry{
			Index: int(i), Offset: i * catCGATileSize,
			StoredSize: catCGATileSize, RealSize: catCGATileSize,
			TypeTag: "tile/catacomb", Valid: true,
		}
	}
	return entries
}

func (h CatacombCGA) Open(s stream.Stream, supps Supps) (Opened, error) {
	t := tileset.NewFAT(s, tileset.FixedSizer{Size: catCGATileSize})
	t.Load(h.buildEntries(s))
	return Opened{Tileset: t}, nil
}

func (h CatacombCGA) Create(s stream.Stream, supps Supps) (Opened, error) {
	if err := s.Truncate(0); err != nil {
		return Opened{}, err
	}
	t := tileset.NewFAT(s, tileset.FixedSizer{Size: catCGATileSize})
	return Opened{Tileset: t}, nil
}

func (CatacombCGA) RequiredSupps(filename string) map[Role]string { return nil }

// OpenTile returns the CGA row-linear Image over e's region.
func (h CatacombCGA) OpenTile(t *tileset.Tileset, e *tileset.Entry) *image.Image {
	region := t.Open(e)
	return image.New(region, 0, 0, e.StoredSize, gamegfx.CGA, catTileWidth, catTileHeight,
		image.RowLinearCGA{}, 0)
}
