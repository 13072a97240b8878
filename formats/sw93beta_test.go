package formats

import (
	"encoding/binary"
	"testing"

	"github.com/flga/gamegfx/pixel"
	"github.com/flga/gamegfx/stream"
)

func sw93File(width, height int) []byte {
	buf := pixel.New(width, height)
	for i := range buf.Pixels {
		buf.Pixels[i] = byte(i % 16)
	}
	planes := pixel.EncodeByteInterleaved(buf)
	hdr := make([]byte, 3)
	hdr[0] = byte(height)
	binary.LittleEndian.PutUint16(hdr[1:3], uint16(width))
	out := append([]byte{}, hdr...)
	for p := 0; p < 4; p++ {
		cols := 0
		if height > 0 {
			cols = len(planes[p]) / height
		}
		out = append(out, byte(cols))
		out = append(out, planes[p]...)
	}
	return out
}

func TestSW93BetaPlanarProbeAndRoundtrip(t *testing.T) {
	data := sw93File(8, 4)
	s := stream.NewMem(data)
	h := SW93BetaPlanar{}
	if got := h.Probe(s); got != DefinitelyYes {
		t.Fatalf("Probe() = %v, want DefinitelyYes", got)
	}

	opened, err := h.Open(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if dims := opened.Image.Dimensions(); dims.X != 8 || dims.Y != 4 {
		t.Fatalf("Dimensions() = %v, want 8x4", dims)
	}
	buf, err := opened.Image.ToPixels()
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range buf.Pixels {
		if want := byte(i % 16); b != want {
			t.Fatalf("pixel %d = %d, want %d", i, b, want)
		}
	}
	if err := opened.Image.FromPixels(buf); err != nil {
		t.Fatal(err)
	}
}

func TestSW93BetaPlanarProbeRejectsTruncated(t *testing.T) {
	data := sw93File(8, 4)
	if got := (SW93BetaPlanar{}).Probe(stream.NewMem(data[:len(data)-1])); got != DefinitelyNo {
		t.Fatalf("Probe(truncated) = %v, want DefinitelyNo", got)
	}
}
