package image

import (
	"errors"
	"fmt"
	"testing"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/palette"
	"github.com/flga/gamegfx/pixel"
	"github.com/flga/gamegfx/stream"
)

// stubCodec always returns err from Decode, regardless of data, so tests
// can drive ToPixels' warning-vs-error classification directly.
type stubCodec struct{ err error }

func (c stubCodec) Decode(data []byte, w, h int) (*pixel.Buffer, error) {
	return pixel.New(w, h), c.err
}

func (stubCodec) Encode(buf *pixel.Buffer) ([]byte, error) { return nil, nil }

func TestNewAndDimensions(t *testing.T) {
	s := stream.NewMem(make([]byte, 16))
	img := New(s, 0, 0, 16, gamegfx.VGA, 4, 4, Linear8{}, 0)
	if dims := img.Dimensions(); dims.X != 4 || dims.Y != 4 {
		t.Fatalf("Dimensions() = %v, want 4x4", dims)
	}
	if img.Depth() != gamegfx.VGA {
		t.Fatalf("Depth() = %v, want VGA", img.Depth())
	}
}

func TestToPixelsFromPixelsRoundtrip(t *testing.T) {
	data := make([]byte, 16)
	for i := range data {
		data[i] = byte(i + 1)
	}
	s := stream.NewMem(data)
	img := New(s, 0, 0, 16, gamegfx.VGA, 4, 4, Linear8{}, 0)

	buf, err := img.ToPixels()
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range buf.Pixels {
		if b != data[i] {
			t.Fatalf("pixel %d = %d, want %d", i, b, data[i])
		}
	}

	for i := range buf.Pixels {
		buf.Pixels[i] = 0xEE
	}
	if err := img.FromPixels(buf); err != nil {
		t.Fatal(err)
	}
	got, err := s.Read(0, 16)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range got {
		if b != 0xEE {
			t.Fatalf("stream byte %d = %x after FromPixels, want 0xEE", i, b)
		}
	}
}

func TestToPixelsIsIdempotentUntilMutation(t *testing.T) {
	data := make([]byte, 4)
	s := stream.NewMem(data)
	img := New(s, 0, 0, 4, gamegfx.VGA, 2, 2, Linear8{}, 0)
	buf1, err := img.ToPixels()
	if err != nil {
		t.Fatal(err)
	}
	buf2, err := img.ToPixels()
	if err != nil {
		t.Fatal(err)
	}
	if buf1 != buf2 {
		t.Fatal("ToPixels() returned a different buffer on a second call with no mutation")
	}
}

func TestSetDimensionsGatedByCaps(t *testing.T) {
	s := stream.NewMem(make([]byte, 4))
	fixed := New(s, 0, 0, 4, gamegfx.VGA, 2, 2, Linear8{}, 0)
	if err := fixed.SetDimensions(gamegfx.Point{X: 3, Y: 3}); err == nil {
		t.Fatal("SetDimensions() on a fixed-size image did not error")
	}

	resizable := New(s, 0, 0, 4, gamegfx.VGA, 2, 2, Linear8{}, gamegfx.SetDimensions)
	if err := resizable.SetDimensions(gamegfx.Point{X: 3, Y: 3}); err != nil {
		t.Fatal(err)
	}
	if dims := resizable.Dimensions(); dims.X != 3 || dims.Y != 3 {
		t.Fatalf("Dimensions() after SetDimensions = %v, want 3x3", dims)
	}
}

func TestSetPaletteGatedByCaps(t *testing.T) {
	s := stream.NewMem(make([]byte, 4))
	pal := make(palette.Palette, 4)
	noPalette := New(s, 0, 0, 4, gamegfx.VGA, 2, 2, Linear8{}, 0)
	if err := noPalette.SetPalette(pal); err == nil {
		t.Fatal("SetPalette() without SetPalette cap did not error")
	}

	withPalette := New(s, 0, 0, 4, gamegfx.VGA, 2, 2, Linear8{}, gamegfx.SetPalette)
	if err := withPalette.SetPalette(pal); err != nil {
		t.Fatal(err)
	}
	got, ok := withPalette.Palette()
	if !ok || len(got) != 4 {
		t.Fatalf("Palette() = %v, %v", got, ok)
	}
}

func TestSetHotspotAndHitRectGatedByCaps(t *testing.T) {
	s := stream.NewMem(make([]byte, 4))
	img := New(s, 0, 0, 4, gamegfx.VGA, 2, 2, Linear8{}, gamegfx.HasHotspot|gamegfx.HasHitRect)
	if err := img.SetHotspot(gamegfx.Point{X: 1, Y: 2}); err != nil {
		t.Fatal(err)
	}
	if hs := img.Hotspot(); hs.X != 1 || hs.Y != 2 {
		t.Fatalf("Hotspot() = %v, want (1,2)", hs)
	}
	if err := img.SetHitRect(gamegfx.Point{X: 3, Y: 4}); err != nil {
		t.Fatal(err)
	}
	if hr := img.HitRect(); hr.X != 3 || hr.Y != 4 {
		t.Fatalf("HitRect() = %v, want (3,4)", hr)
	}

	noCaps := New(s, 0, 0, 4, gamegfx.VGA, 2, 2, Linear8{}, 0)
	if err := noCaps.SetHotspot(gamegfx.Point{}); err == nil {
		t.Fatal("SetHotspot() without HasHotspot cap did not error")
	}
	if err := noCaps.SetHitRect(gamegfx.Point{}); err == nil {
		t.Fatal("SetHitRect() without HasHitRect cap did not error")
	}
}

func TestSetPaletteLoadedBypassesCaps(t *testing.T) {
	s := stream.NewMem(make([]byte, 4))
	img := New(s, 0, 0, 4, gamegfx.VGA, 2, 2, Linear8{}, 0)
	pal := make(palette.Palette, 2)
	img.SetPaletteLoaded(pal)
	got, ok := img.Palette()
	if !ok || len(got) != 2 {
		t.Fatalf("Palette() after SetPaletteLoaded = %v, %v", got, ok)
	}
	if !img.Caps().Has(gamegfx.HasPalette) {
		t.Fatal("SetPaletteLoaded did not set HasPalette cap")
	}
}

func TestToPixelsSurfacesIncompleteReadAsWarning(t *testing.T) {
	s := stream.NewMem(make([]byte, 4))
	decErr := fmt.Errorf("formats/stub: truncated: %w", gamegfx.ErrIncompleteRead)
	img := New(s, 0, 0, 4, gamegfx.VGA, 2, 2, stubCodec{err: decErr}, 0)

	buf, err := img.ToPixels()
	if err != nil {
		t.Fatalf("ToPixels() = %v, want nil error for a recoverable incomplete read", err)
	}
	if buf == nil {
		t.Fatal("ToPixels() returned a nil buffer alongside a recovered warning")
	}
	if len(img.Warnings) != 1 || !errors.Is(img.Warnings[0], gamegfx.ErrIncompleteRead) {
		t.Fatalf("Warnings = %v, want one wrapping ErrIncompleteRead", img.Warnings)
	}
}

func TestToPixelsPropagatesOtherDecodeErrors(t *testing.T) {
	s := stream.NewMem(make([]byte, 4))
	decErr := fmt.Errorf("formats/stub: bad signature: %w", gamegfx.ErrInvalidFormat)
	img := New(s, 0, 0, 4, gamegfx.VGA, 2, 2, stubCodec{err: decErr}, 0)

	if _, err := img.ToPixels(); !errors.Is(err, gamegfx.ErrInvalidFormat) {
		t.Fatalf("ToPixels() = %v, want ErrInvalidFormat propagated instead of swallowed", err)
	}
	if len(img.Warnings) != 0 {
		t.Fatalf("Warnings = %v, want none for a hard decode error", img.Warnings)
	}
}

func TestFromPixelsRejectsDimensionMismatch(t *testing.T) {
	s := stream.NewMem(make([]byte, 4))
	img := New(s, 0, 0, 4, gamegfx.VGA, 2, 2, Linear8{}, 0)
	if err := img.FromPixels(pixel.New(3, 3)); err == nil {
		t.Fatal("FromPixels() with mismatched buffer dims did not error")
	}
}
