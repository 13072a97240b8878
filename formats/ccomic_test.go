package formats

import (
	"testing"

	"github.com/flga/gamegfx/stream"
)

func TestCComicProbeAndEntries(t *testing.T) {
	tileSize := int(ccTileWidth / 8 * ccTileHeight * 4) // 4 planes, solid
	data := make([]byte, 4+tileSize*3)
	s := stream.NewMem(data)

	h := CComic{Masked: false}
	if got := h.Probe(s); got != PossiblyYes {
		t.Fatalf("Probe() = %v, want PossiblyYes", got)
	}

	opened, err := h.Open(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	files := opened.Tileset.Files()
	if len(files) != 3 {
		t.Fatalf("len(Files()) = %d, want 3", len(files))
	}
	for i, e := range files {
		if e.Offset != int64(4+i*tileSize) {
			t.Errorf("entry %d offset = %d, want %d", i, e.Offset, 4+i*tileSize)
		}
	}
}

func TestCComicOpenTileRoundtrip(t *testing.T) {
	tileSize := int(ccTileWidth / 8 * ccTileHeight * 4)
	data := make([]byte, 4+tileSize)
	for i := range data[4:] {
		data[4+i] = byte(i)
	}
	s := stream.NewMem(data)
	h := CComic{Masked: false}
	opened, err := h.Open(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	e := opened.Tileset.Files()[0]
	img := h.OpenTile(opened.Tileset, e)
	if dims := img.Dimensions(); dims.X != ccTileWidth || dims.Y != ccTileHeight {
		t.Fatalf("Dimensions() = %v", dims)
	}
	buf, err := img.ToPixels()
	if err != nil {
		t.Fatal(err)
	}
	if err := img.FromPixels(buf); err != nil {
		t.Fatal(err)
	}
	got, err := s.Read(4, tileSize)
	if err != nil {
		t.Fatal(err)
	}
	for i := range got {
		if got[i] != data[4+i] {
			t.Fatalf("roundtrip byte %d = %x, want %x", i, got[i], data[4+i])
		}
	}
}

func TestCComicMaskedCode(t *testing.T) {
	if (CComic{Masked: true}).Code() == (CComic{Masked: false}).Code() {
		t.Fatal("masked and solid variants must have distinct codes")
	}
}
