// Package image implements spec §4.F: a per-format image handler that
// wraps a pixel codec (package pixel) over a region of a byte stream,
// exposing dimensions, palette, capability flags and cached pixel/mask
// accessors.
package image

import (
	"errors"
	"fmt"
	stdimage "image"
	"log"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/palette"
	"github.com/flga/gamegfx/pixel"
	"github.com/flga/gamegfx/stream"
)

// Logger receives a line whenever ToPixels has to settle for a partial
// decode. Overridable per package the way the teacher's nes package
// logs straight to the standard logger rather than threading one
// through every call.
var Logger = log.Default()

// Codec is the single-stream-region half of spec §4.D: it knows how to
// turn dims bytes at an Image's stream region into a pixel.Buffer and
// back. Byte-interleaved images (§4.D.6) work on four separate plane
// blocks, so their handler supplies a Codec that splits one region into
// those blocks and joins them again (formats' sw93Codec).
type Codec interface {
	Decode(data []byte, w, h int) (*pixel.Buffer, error)
	Encode(buf *pixel.Buffer) ([]byte, error)
}

// Image is the generic composition spec §9's Design Notes call for:
// capability composition instead of an inheritance chain. One Image
// value serves every pixel-layout family by holding whichever Codec its
// handler constructed it with.
type Image struct {
	Stream stream.Stream
	// Offset and HeaderLen locate the pixel data: the region
	// [Offset+HeaderLen, Offset+HeaderLen+Length) is the codec's input.
	// HeaderLen bytes of embedded per-image header (if any) are left
	// alone by ToPixels/FromPixels; a handler rewrites them separately
	// when dimensions change.
	Offset, HeaderLen, Length int64

	caps  gamegfx.CapSet
	depth gamegfx.ColourDepth
	w, h  int32

	pal     palette.Palette
	hasPal  bool
	hotspot gamegfx.Point
	hitRect gamegfx.Point

	Codec Codec

	cache *pixel.Buffer
	dirty bool

	// Warnings is set by the most recent ToPixels call that had to
	// settle for a partial decode (a short read the codec could still
	// make a meaningful image out of, per spec §7). Inspect with
	// errors.Is(w, gamegfx.ErrIncompleteRead); nil on a clean decode.
	Warnings []error
}

// New constructs an Image over a stream region. w,h are required even
// though some formats also store them on disk, because generic Image
// doesn't know how to parse a header — the handler does that and passes
// the result in.
func New(s stream.Stream, offset, headerLen, length int64, depth gamegfx.ColourDepth, w, h int32, codec Codec, caps gamegfx.CapSet) *Image {
	return &Image{
		Stream: s, Offset: offset, HeaderLen: headerLen, Length: length,
		depth: depth, w: w, h: h, Codec: codec, caps: caps, dirty: true,
	}
}

func (img *Image) Caps() gamegfx.CapSet        { return img.caps }
func (img *Image) Depth() gamegfx.ColourDepth  { return img.depth }
func (img *Image) Dimensions() gamegfx.Point   { return gamegfx.Point{X: img.w, Y: img.h} }
func (img *Image) Palette() (palette.Palette, bool) { return img.pal, img.hasPal }
func (img *Image) Hotspot() gamegfx.Point      { return img.hotspot }
func (img *Image) HitRect() gamegfx.Point      { return img.hitRect }

// SetDimensions resizes the image. Per spec §4.F, pixel data becomes
// undefined (callers must call FromPixels afterwards); the underlying
// stream region is not touched here since the new byte length depends on
// the codec, which only FromPixels knows how to compute.
func (img *Image) SetDimensions(p gamegfx.Point) error {
	if !img.caps.Has(gamegfx.SetDimensions) {
		return fmt.Errorf("image: dimensions are fixed for this format: %w", gamegfx.ErrInvariantViolation)
	}
	img.w, img.h = p.X, p.Y
	img.cache = nil
	img.dirty = true
	return nil
}

// SetPalette replaces the image's palette, if the format supports an
// embedded one.
func (img *Image) SetPalette(p palette.Palette) error {
	if !img.caps.Has(gamegfx.SetPalette) {
		return fmt.Errorf("image: palette is not settable for this format: %w", gamegfx.ErrInvariantViolation)
	}
	img.pal, img.hasPal = p, true
	return nil
}

// SetPaletteLoaded records a palette read from disk without checking the
// SetPalette capability — used by handlers during open().
func (img *Image) SetPaletteLoaded(p palette.Palette) {
	img.pal, img.hasPal = p, true
	img.caps |= gamegfx.HasPalette
}

func (img *Image) SetHotspot(p gamegfx.Point) error {
	if !img.caps.Has(gamegfx.HasHotspot) {
		return fmt.Errorf("image: no hotspot support for this format: %w", gamegfx.ErrInvariantViolation)
	}
	img.hotspot = p
	return nil
}

func (img *Image) SetHitRect(p gamegfx.Point) error {
	if !img.caps.Has(gamegfx.HasHitRect) {
		return fmt.Errorf("image: no hit-rect support for this format: %w", gamegfx.ErrInvariantViolation)
	}
	img.hitRect = p
	return nil
}

// ToPixels decodes the image, caching the result until the next
// FromPixels or SetDimensions call (spec §8 property 2: idempotence).
func (img *Image) ToPixels() (*pixel.Buffer, error) {
	if img.cache != nil && !img.dirty {
		return img.cache, nil
	}
	img.Warnings = nil
	data, _ := img.Stream.Read(img.Offset+img.HeaderLen, int(img.Length))
	buf, decErr := img.Codec.Decode(data, int(img.w), int(img.h))
	if decErr != nil {
		if !errors.Is(decErr, gamegfx.ErrIncompleteRead) {
			return nil, decErr
		}
		// The codec could still make a meaningful partial image out of
		// a short read: log it and hand back the partial buffer
		// instead of failing the caller outright.
		Logger.Printf("image: partial decode: %v", decErr)
		img.Warnings = append(img.Warnings, decErr)
	}
	img.cache = buf
	img.dirty = false
	return buf, nil
}

// FromPixels encodes buf through the codec and writes it into the
// underlying stream region, growing or shrinking the region as needed.
func (img *Image) FromPixels(buf *pixel.Buffer) error {
	if buf.W != int(img.w) || buf.H != int(img.h) {
		return fmt.Errorf("image: buffer is %dx%d, image is %dx%d: %w", buf.W, buf.H, img.w, img.h, gamegfx.ErrInvariantViolation)
	}
	data, err := img.Codec.Encode(buf)
	if err != nil {
		return err
	}
	start := img.Offset + img.HeaderLen
	if int64(len(data)) != img.Length {
		if int64(len(data)) > img.Length {
			if err := img.Stream.Insert(start+img.Length, int64(len(data))-img.Length); err != nil {
				return fmt.Errorf("image: growing region: %w", gamegfx.ErrStreamError)
			}
		} else {
			if err := img.Stream.Remove(start+int64(len(data)), img.Length-int64(len(data))); err != nil {
				return fmt.Errorf("image: shrinking region: %w", gamegfx.ErrStreamError)
			}
		}
		img.Length = int64(len(data))
	}
	if err := img.Stream.Write(start, data); err != nil {
		return fmt.Errorf("image: writing pixel data: %w", gamegfx.ErrStreamError)
	}
	img.cache = buf
	img.dirty = false
	return nil
}

// Snapshot decodes the image and returns it as a standard library
// image.Paletted, for callers that want to hand a tile to anything in
// the image ecosystem (PNG encoding, golden-image diffing in tests).
func (img *Image) Snapshot() (*stdimage.Paletted, error) {
	buf, err := img.ToPixels()
	if err != nil {
		return nil, err
	}
	pal := img.pal
	if !img.hasPal {
		pal = nil
	}
	out := stdimage.NewPaletted(stdimage.Rect(0, 0, buf.W, buf.H), pal.ColorPalette())
	copy(out.Pix, buf.Pixels)
	return out, nil
}
