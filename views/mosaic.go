// Package views implements spec §4.I's composed views: Mosaic (an
// image assembled from a grid of tileset entries), SubImage (a
// viewport into a larger image) and VirtualTileset (a tileset
// synthesised from a list of standalone images).
package views

import (
	"fmt"
	stdimage "image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/image"
	"github.com/flga/gamegfx/pixel"
	"github.com/flga/gamegfx/tileset"
)

// asGray views a flat index/mask byte plane as a stdlib image.Gray so
// the standard library's image/draw can blit rectangles of it without any colour
// conversion — each byte is copied verbatim, exactly as
// Image_FromTileset::doConversion's per-row memcpy does.
func asGray(plane []byte, w, h int) *stdimage.Gray {
	return &stdimage.Gray{Pix: plane, Stride: w, Rect: stdimage.Rect(0, 0, w, h)}
}

// Mosaic presents a rectangular grid of a Tileset's entries as a single
// Image, grounded on image-from_tileset.cpp. Every entry in the grid
// must decode to the same dimensions — the tileset's own dimensions,
// since no other value is topologically possible.
type Mosaic struct {
	Tileset      *tileset.Tileset
	OpenTile     func(e *tileset.Entry) (*image.Image, error)
	First        int
	Span         int
	TileW, TileH int
	DimsInTiles  gamegfx.Point
}

// Dimensions returns the mosaic's pixel size.
func (m *Mosaic) Dimensions() gamegfx.Point {
	return gamegfx.Point{X: int32(m.TileW) * m.DimsInTiles.X, Y: int32(m.TileH) * m.DimsInTiles.Y}
}

func (m *Mosaic) tileAt(x, y int) (*image.Image, error) {
	files := m.Tileset.Files()
	idx := m.First + y*m.Span + x
	if idx < 0 || idx >= len(files) {
		return nil, fmt.Errorf("views: mosaic tile (%d,%d) index %d out of range: %w", x, y, idx, gamegfx.ErrInvariantViolation)
	}
	return m.OpenTile(files[idx])
}

// ToPixels blits every constituent tile into one composite buffer.
func (m *Mosaic) ToPixels() (*pixel.Buffer, error) {
	dims := m.Dimensions()
	out := pixel.New(int(dims.X), int(dims.Y))
	dstPix := asGray(out.Pixels, int(dims.X), int(dims.Y))
	dstMask := asGray(out.Mask, int(dims.X), int(dims.Y))

	for ty := 0; ty < int(m.DimsInTiles.Y); ty++ {
		for tx := 0; tx < int(m.DimsInTiles.X); tx++ {
			tile, err := m.tileAt(tx, ty)
			if err != nil {
				return nil, err
			}
			buf, err := tile.ToPixels()
			if err != nil {
				return nil, err
			}
			srcPix := asGray(buf.Pixels, m.TileW, m.TileH)
			srcMask := asGray(buf.Mask, m.TileW, m.TileH)
			dstOrigin := stdimage.Pt(tx*m.TileW, ty*m.TileH)
			dstRect := stdimage.Rect(dstOrigin.X, dstOrigin.Y, dstOrigin.X+m.TileW, dstOrigin.Y+m.TileH)
			draw.Draw(dstPix, dstRect, srcPix, stdimage.Pt(0, 0), draw.Src)
			draw.Draw(dstMask, dstRect, srcMask, stdimage.Pt(0, 0), draw.Src)
		}
	}
	return out, nil
}

// FromPixels cuts the composite buffer back into individual tiles and
// writes each one back via its own Image.
func (m *Mosaic) FromPixels(buf *pixel.Buffer) error {
	dims := m.Dimensions()
	if buf.W != int(dims.X) || buf.H != int(dims.Y) {
		return fmt.Errorf("views: mosaic buffer is %dx%d, want %dx%d: %w", buf.W, buf.H, dims.X, dims.Y, gamegfx.ErrInvariantViolation)
	}
	srcPix := asGray(buf.Pixels, buf.W, buf.H)
	srcMask := asGray(buf.Mask, buf.W, buf.H)

	for ty := 0; ty < int(m.DimsInTiles.Y); ty++ {
		for tx := 0; tx < int(m.DimsInTiles.X); tx++ {
			tile, err := m.tileAt(tx, ty)
			if err != nil {
				return err
			}
			tileBuf := pixel.New(m.TileW, m.TileH)
			dstPix := asGray(tileBuf.Pixels, m.TileW, m.TileH)
			dstMask := asGray(tileBuf.Mask, m.TileW, m.TileH)
			srcOrigin := stdimage.Pt(tx*m.TileW, ty*m.TileH)
			srcRect := stdimage.Rect(srcOrigin.X, srcOrigin.Y, srcOrigin.X+m.TileW, srcOrigin.Y+m.TileH)
			draw.Draw(dstPix, dstPix.Bounds(), srcPix, srcRect.Min, draw.Src)
			draw.Draw(dstMask, dstMask.Bounds(), srcMask, srcRect.Min, draw.Src)
			if err := tile.FromPixels(tileBuf); err != nil {
				return err
			}
		}
	}
	return nil
}

// Scale resamples src's pixel indices into a w x h buffer using
// golang.org/x/image/draw's nearest-neighbour scaler; the returned mask
// is left all-opaque. Spec §4.I's mosaic itself never needs resampling
// (every tile shares the tileset's dimensions), but composing a Mosaic's
// output for a caller that wants a thumbnail is a natural extra view,
// and it is the one place this module uses x/image/draw (the mosaic
// blits above use the standard library's draw.Draw).
func Scale(src *pixel.Buffer, w, h int) *pixel.Buffer {
	out := pixel.New(w, h)
	srcPix := asGray(src.Pixels, src.W, src.H)
	dstPix := asGray(out.Pixels, w, h)
	xdraw.NearestNeighbor.Scale(dstPix, dstPix.Bounds(), srcPix, srcPix.Bounds(), xdraw.Src, nil)
	return out
}
