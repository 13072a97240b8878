package views

import (
	"testing"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/pixel"
)

func TestSubImageToPixelsExtractsViewport(t *testing.T) {
	parent := pixel.New(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			parent.Pixels[y*4+x] = byte(y*4 + x)
		}
	}
	s := &SubImage{
		Parent:   parent,
		Viewport: gamegfx.Rect{Point: gamegfx.Point{X: 1, Y: 1}, Width: 2, Height: 2},
	}
	buf, err := s.ToPixels()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{5, 6, 9, 10}
	for i, b := range buf.Pixels {
		if b != want[i] {
			t.Fatalf("pixel %d = %d, want %d", i, b, want[i])
		}
	}
}

func TestSubImageFromPixelsSplicesAndNotifies(t *testing.T) {
	parent := pixel.New(4, 4)
	called := false
	s := &SubImage{
		Parent:   parent,
		Viewport: gamegfx.Rect{Point: gamegfx.Point{X: 1, Y: 1}, Width: 2, Height: 2},
		Sink:     CallbackSink(func() error { called = true; return nil }),
	}
	buf := pixel.New(2, 2)
	for i := range buf.Pixels {
		buf.Pixels[i] = 0xFF
	}
	if err := s.FromPixels(buf); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("Sink.Changed() was not called")
	}
	if parent.Pixels[1*4+1] != 0xFF || parent.Pixels[2*4+2] != 0xFF {
		t.Fatalf("parent not spliced: %v", parent.Pixels)
	}
	if parent.Pixels[0] != 0 {
		t.Fatal("FromPixels wrote outside the viewport")
	}
}

func TestSubImageFromPixelsRejectsWrongSize(t *testing.T) {
	parent := pixel.New(4, 4)
	s := &SubImage{Parent: parent, Viewport: gamegfx.Rect{Width: 2, Height: 2}}
	if err := s.FromPixels(pixel.New(3, 3)); err == nil {
		t.Fatal("FromPixels() with mismatched size did not error")
	}
}
