package formats

import (
	"encoding/binary"
	"testing"

	"github.com/flga/gamegfx/stream"
)

func TestHarryCHRProbeAndEntries(t *testing.T) {
	data := make([]byte, chrTileSize*3)
	s := stream.NewMem(data)
	h := HarryCHR{}
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
	img := h.OpenTile(opened.Tileset, files[0])
	if dims := img.Dimensions(); dims.X != chrTileWidth || dims.Y != chrTileHeight {
		t.Fatalf("Dimensions() = %v", dims)
	}
}

func TestHarryCHRProbeExactCount(t *testing.T) {
	data := make([]byte, chrTileSize*chrNumTiles)
	if got := (HarryCHR{}).Probe(stream.NewMem(data)); got != DefinitelyYes {
		t.Fatalf("Probe() = %v, want DefinitelyYes", got)
	}
}

func TestHarryCHRRequiredSupps(t *testing.T) {
	got := (HarryCHR{}).RequiredSupps("mission3.chr")
	if got[RolePalette] != "m3z1.gmf" {
		t.Fatalf("RequiredSupps() = %q, want m3z1.gmf", got[RolePalette])
	}
}

func hsbRecord(unk1, unk2, width, height uint16, pixels []byte) []byte {
	hdr := make([]byte, hsbHeaderLen)
	binary.LittleEndian.PutUint16(hdr[0:2], unk1)
	binary.LittleEndian.PutUint16(hdr[2:4], unk2)
	binary.LittleEndian.PutUint16(hdr[4:6], width)
	binary.LittleEndian.PutUint16(hdr[6:8], height)
	return append(hdr, pixels...)
}

func TestHarryHSBProbeAndEntries(t *testing.T) {
	r1 := hsbRecord(0, 0, 4, 2, make([]byte, 8))
	r2 := hsbRecord(0, 0, 3, 3, make([]byte, 9))
	data := append(append([]byte{}, r1...), r2...)
	s := stream.NewMem(data)

	h := HarryHSB{}
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
	if files[0].StoredSize != 8 || files[1].StoredSize != 9 {
		t.Fatalf("unexpected stored sizes: %d, %d", files[0].StoredSize, files[1].StoredSize)
	}

	img, err := h.OpenTile(opened.Tileset, files[1])
	if err != nil {
		t.Fatal(err)
	}
	if dims := img.Dimensions(); dims.X != 3 || dims.Y != 3 {
		t.Fatalf("Dimensions() = %v, want 3x3", dims)
	}
}

func TestHarryHSBEmptyStreamIsPossiblyYes(t *testing.T) {
	if got := (HarryHSB{}).Probe(stream.NewMem(nil)); got != PossiblyYes {
		t.Fatalf("Probe(empty) = %v, want PossiblyYes", got)
	}
}
