package formats

import (
	"encoding/binary"
	"testing"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/stream"
)

// bashBlock builds one Monster Bash sprite record: a 12-byte header
// followed by pixelLen pixel bytes and a trailing 0x00 terminator, all
// framed by its own 2-byte little-endian length prefix.
func bashBlock(flags, y, x byte, hotX, hotY, hitX, hitY int16, pixelLen int) []byte {
	hdr := make([]byte, 12)
	hdr[0] = flags
	hdr[1] = y
	hdr[2] = x
	binary.LittleEndian.PutUint16(hdr[4:6], uint16(hotX))
	binary.LittleEndian.PutUint16(hdr[6:8], uint16(hotY))
	binary.LittleEndian.PutUint16(hdr[8:10], uint16(hitX))
	binary.LittleEndian.PutUint16(hdr[10:12], uint16(hitY))
	body := append(hdr, make([]byte, pixelLen)...)
	body = append(body, 0x00)

	lenPrefix := make([]byte, 2)
	binary.LittleEndian.PutUint16(lenPrefix, uint16(len(body)))
	return append(lenPrefix, body...)
}

func TestBashSpriteProbeAndOpenSprite(t *testing.T) {
	pixelLen := 4 * 8 * 5 // 160 bytes, more than the 8x10 frame below needs (1 byte/row * 10 rows * 5 planes = 50)
	block := bashBlock(0, 10, 8, -3, -2, 7, 9, pixelLen)
	data := append([]byte{0xFF}, block...)
	s := stream.NewMem(data)

	h := BashSprite{}
	if got := h.Probe(s); got != DefinitelyYes {
		t.Fatalf("Probe() = %v, want DefinitelyYes", got)
	}

	opened, err := h.Open(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	files := opened.Tileset.Files()
	if len(files) != 1 {
		t.Fatalf("len(Files()) = %d, want 1", len(files))
	}

	frame, err := h.OpenSprite(opened.Tileset, files[0])
	if err != nil {
		t.Fatal(err)
	}
	if dims := frame.Dimensions(); dims.X != 8 || dims.Y != 10 {
		t.Fatalf("Dimensions() = %v, want 8x10", dims)
	}
	if hs := frame.Hotspot(); hs.X != 3 || hs.Y != 2 {
		t.Fatalf("Hotspot() = %v, want (3,2)", hs)
	}
	if hr := frame.HitRect(); hr.X != 7 || hr.Y != 9 {
		t.Fatalf("HitRect() = %v, want (7,9)", hr)
	}
}

// TestBashSpriteHeaderLayoutGolden checks the embedded header byte layout
// against a literal sprite header: 16x16 dimensions, hotspot (1,-1), hit
// rect (0,1).
func TestBashSpriteHeaderLayoutGolden(t *testing.T) {
	want := []byte{0x00, 0x10, 0x10, 0x00, 0xFF, 0xFF, 0x01, 0x00, 0x00, 0x00, 0x01, 0x00}

	pixelLen := 2 * 16 * 5 // (16/8 bytes/row) * 16 rows * 5 planes
	s := stream.NewMem(nil)
	h := BashSprite{}
	opened, err := h.Create(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	ts := opened.Tileset

	e, err := ts.Insert(nil, int64(12+pixelLen+1), int64(12+pixelLen+1), mbEFATEntryLen, "tile/bash-sprite", 0)
	if err != nil {
		t.Fatal(err)
	}

	frame, err := h.OpenSprite(ts, e)
	if err != nil {
		t.Fatal(err)
	}
	if err := frame.SetDimensions(gamegfx.Point{X: 16, Y: 16}); err != nil {
		t.Fatal(err)
	}
	if err := frame.SetHotspot(gamegfx.Point{X: 1, Y: -1}); err != nil {
		t.Fatal(err)
	}
	if err := frame.SetHitRect(gamegfx.Point{X: 0, Y: 1}); err != nil {
		t.Fatal(err)
	}

	got, err := frame.Image.Stream.Read(0, 12)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range want {
		if got[i] != b {
			t.Fatalf("header byte %d = %#x, want %#x (header = % x)", i, got[i], b, got)
		}
	}
}

func TestBashSpriteSetDimensionsRewritesHeader(t *testing.T) {
	pixelLen := 4 * 8 * 5
	block := bashBlock(0, 10, 8, 0, 0, 0, 0, pixelLen)
	data := append([]byte{0xFF}, block...)
	s := stream.NewMem(data)

	h := BashSprite{}
	opened, err := h.Open(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	frame, err := h.OpenSprite(opened.Tileset, opened.Tileset.Files()[0])
	if err != nil {
		t.Fatal(err)
	}
	if err := frame.SetDimensions(gamegfx.Point{X: 70, Y: 10}); err != nil {
		t.Fatal(err)
	}
	// header lives at region offset 0, which is entry.Offset+HeaderSize (2)
	hdr, err := s.Read(1+2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if hdr[0]&mbWideFlag == 0 {
		t.Fatal("wide flag not set after SetDimensions(70,...)")
	}
	if hdr[2] != 70 {
		t.Fatalf("rewritten x byte = %d, want 70", hdr[2])
	}
}
