package formats

import (
	"testing"

	"github.com/flga/gamegfx/pixel"
	"github.com/flga/gamegfx/stream"
)

func TestCComicScreenRoundtrip(t *testing.T) {
	s := stream.NewMem(nil)
	h := CComicScreen{}
	opened, err := h.Create(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	img := opened.Image
	if dims := img.Dimensions(); dims.X != ccScreenWidth || dims.Y != ccScreenHeight {
		t.Fatalf("Dimensions() = %v, want 320x200", dims)
	}

	buf, err := img.ToPixels()
	if err != nil {
		t.Fatal(err)
	}
	// paint a simple pattern: diagonal stripe plus a long run of a
	// repeated colour, exercising both the encoder's repeat and literal
	// paths.
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			if x < 50 {
				buf.Pixels[y*buf.W+x] = 0x0F
			} else if x == y%buf.W {
				buf.Pixels[y*buf.W+x] = 0x03
			}
		}
	}
	if err := img.FromPixels(buf); err != nil {
		t.Fatal(err)
	}

	if got := h.Probe(s); got != DefinitelyYes {
		t.Fatalf("Probe() after FromPixels = %v, want DefinitelyYes", got)
	}

	reopened, err := h.Open(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := reopened.Image.ToPixels()
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range got.Pixels {
		if b != buf.Pixels[i] {
			t.Fatalf("pixel %d = %d, want %d", i, b, buf.Pixels[i])
		}
	}
}

func TestCComicScreenProbeRejectsGarbage(t *testing.T) {
	s := stream.NewMem([]byte{1})
	if got := (CComicScreen{}).Probe(s); got != DefinitelyNo {
		t.Fatalf("Probe() = %v, want DefinitelyNo", got)
	}
}

func TestCComicScreenCodecDecodesEmptyPlanes(t *testing.T) {
	c := ccomicScreenCodec{}
	blank := pixel.New(ccScreenWidth, ccScreenHeight)
	data, err := c.Encode(blank)
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Decode(data, ccScreenWidth, ccScreenHeight)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range got.Pixels {
		if b != 0 {
			t.Fatalf("pixel %d = %d, want 0", i, b)
		}
	}
}
