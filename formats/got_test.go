package formats

import (
	"encoding/binary"
	"testing"

	"github.com/flga/gamegfx/palette"
	"github.com/flga/gamegfx/stream"
)

func gotTile(widthQuads, height uint16, pixels []byte) []byte {
	hdr := make([]byte, gotHeaderLen)
	binary.LittleEndian.PutUint16(hdr[0:2], widthQuads)
	binary.LittleEndian.PutUint16(hdr[2:4], height)
	return append(hdr, pixels...)
}

func TestGOTProbeAndEntries(t *testing.T) {
	// 2 tiles: 4x2 (widthQuads=1) and 8x1 (widthQuads=2)
	t1 := gotTile(1, 2, make([]byte, 4*2))
	t2 := gotTile(2, 1, make([]byte, 8*1))
	data := append(append([]byte{}, t1...), t2...)
	s := stream.NewMem(data)

	h := GOT{}
	if got := h.Probe(s); got != DefinitelyYes {
		t.Fatalf("Probe() = %v, want DefinitelyYes", got)
	}

	opened, err := h.Open(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	files := opened.Tileset.Files()
	if len(files) != 2 {
		t.Fatalf("len(Files()) = %d, want 2", len(files))
	}
	if files[0].StoredSize != 8 || files[1].StoredSize != 8 {
		t.Fatalf("unexpected stored sizes: %d, %d", files[0].StoredSize, files[1].StoredSize)
	}
}

func TestGOTOpenTileDimsAndPaletteAlpha(t *testing.T) {
	pixels := make([]byte, 4*2)
	for i := range pixels {
		pixels[i] = byte(i + 1)
	}
	data := gotTile(1, 2, pixels)
	s := stream.NewMem(data)
	h := GOT{}
	opened, err := h.Open(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	e := opened.Tileset.Files()[0]

	pal := make(palette.Palette, 256)
	for i := range pal {
		pal[i].A = 255
	}
	img, err := h.OpenTile(opened.Tileset, e, pal)
	if err != nil {
		t.Fatal(err)
	}
	if dims := img.Dimensions(); dims.X != 4 || dims.Y != 2 {
		t.Fatalf("Dimensions() = %v, want 4x2", dims)
	}
	gotPal, ok := img.Palette()
	if !ok {
		t.Fatal("Palette() ok = false")
	}
	if gotPal[0].A != 0 || gotPal[15].A != 0 {
		t.Fatalf("transparent indices not zeroed: %+v, %+v", gotPal[0], gotPal[15])
	}
	if gotPal[1].A != 255 {
		t.Fatalf("unrelated index clobbered: %+v", gotPal[1])
	}
}

func TestGOTEmptyStreamIsPossiblyYes(t *testing.T) {
	if got := (GOT{}).Probe(stream.NewMem(nil)); got != PossiblyYes {
		t.Fatalf("Probe(empty) = %v, want PossiblyYes", got)
	}
}
