package views

import (
	"fmt"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/pixel"
)

// Sink is notified when a SubImage's FromPixels commits a viewport
// write back into the parent, so the parent can persist itself, per
// image-sub.cpp's fnImageChanged callback.
type Sink interface {
	Changed() error
}

// NopSink ignores the notification — for callers that keep the parent
// buffer in memory only and persist it some other way.
type NopSink struct{}

func (NopSink) Changed() error { return nil }

// CallbackSink adapts a plain func() error to Sink.
type CallbackSink func() error

func (f CallbackSink) Changed() error { return f() }

// SubImage is a rectangular viewport into a parent pixel buffer,
// grounded on image-sub.cpp's Image_Sub: reads extract the viewport
// rectangle, writes splice it back into the parent and then fire Sink.
type SubImage struct {
	Parent   *pixel.Buffer
	Viewport gamegfx.Rect
	Sink     Sink
}

// Dimensions returns the viewport's own size.
func (s *SubImage) Dimensions() gamegfx.Point {
	return gamegfx.Point{X: s.Viewport.Width, Y: s.Viewport.Height}
}

func (s *SubImage) extract(source []byte) []byte {
	vw, vh := int(s.Viewport.Width), int(s.Viewport.Height)
	vx, vy := int(s.Viewport.X), int(s.Viewport.Y)
	fullW := s.Parent.W
	dst := make([]byte, vw*vh)
	for y := 0; y < vh; y++ {
		srcOff := (vy+y)*fullW + vx
		copy(dst[y*vw:(y+1)*vw], source[srcOff:srcOff+vw])
	}
	return dst
}

// ToPixels returns the viewport's own index/mask buffer.
func (s *SubImage) ToPixels() (*pixel.Buffer, error) {
	vw, vh := int(s.Viewport.Width), int(s.Viewport.Height)
	return &pixel.Buffer{
		W: vw, H: vh,
		Pixels: s.extract(s.Parent.Pixels),
		Mask:   s.extract(s.Parent.Mask),
	}, nil
}

// FromPixels splices buf back into the parent's viewport rectangle and
// notifies Sink.
func (s *SubImage) FromPixels(buf *pixel.Buffer) error {
	vw, vh := int(s.Viewport.Width), int(s.Viewport.Height)
	if buf.W != vw || buf.H != vh {
		return fmt.Errorf("views: sub-image buffer is %dx%d, viewport is %dx%d: %w", buf.W, buf.H, vw, vh, gamegfx.ErrInvariantViolation)
	}
	vx, vy := int(s.Viewport.X), int(s.Viewport.Y)
	fullW := s.Parent.W
	for y := 0; y < vh; y++ {
		dstOff := (vy+y)*fullW + vx
		copy(s.Parent.Pixels[dstOff:dstOff+vw], buf.Pixels[y*vw:(y+1)*vw])
		copy(s.Parent.Mask[dstOff:dstOff+vw], buf.Mask[y*vw:(y+1)*vw])
	}
	if s.Sink != nil {
		return s.Sink.Changed()
	}
	return nil
}
