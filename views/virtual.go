package views

import (
	"fmt"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/image"
)

// SplitMode selects how VirtualTileset carves its source images into
// tiles, per spec §4.I's tileset-from-image-list.
type SplitMode int

const (
	// SingleTile treats each source image as exactly one tile.
	SingleTile SplitMode = iota
	// UniformGrid subdivides each source image into a fixed TileW x
	// TileH grid, grounded on tls-harry-chr.cpp's flat 16x16 grid over
	// one big raw VGA image.
	UniformGrid
	// ExplicitRects carves caller-supplied rectangles out of each source
	// image, grounded on tls-harry-hsb.cpp's backdrop layout table.
	ExplicitRects
)

// VirtualEntry addresses one tile of a VirtualTileset: the index into
// Images and the rectangle within that image.
type VirtualEntry struct {
	ImageIndex int
	Rect       gamegfx.Rect
}

// VirtualTileset synthesises a tileset from one or more standalone
// images without any FAT or backing stream of its own — every
// operation is computed from the source images' own pixel data.
type VirtualTileset struct {
	Images       []*image.Image
	Mode         SplitMode
	TileW, TileH int32        // UniformGrid
	Rects        []gamegfx.Rect // ExplicitRects, applied to every image
}

// Entries enumerates every tile this tileset exposes, in image-then-
// row-then-column order.
func (v *VirtualTileset) Entries() ([]VirtualEntry, error) {
	var out []VirtualEntry
	for i, img := range v.Images {
		dims := img.Dimensions()
		switch v.Mode {
		case SingleTile:
			out = append(out, VirtualEntry{ImageIndex: i, Rect: gamegfx.Rect{Point: gamegfx.Point{}, Width: dims.X, Height: dims.Y}})
		case UniformGrid:
			if v.TileW <= 0 || v.TileH <= 0 {
				return nil, fmt.Errorf("views: UniformGrid needs a positive tile size: %w", gamegfx.ErrInvariantViolation)
			}
			for y := int32(0); y+v.TileH <= dims.Y; y += v.TileH {
				for x := int32(0); x+v.TileW <= dims.X; x += v.TileW {
					out = append(out, VirtualEntry{ImageIndex: i, Rect: gamegfx.Rect{Point: gamegfx.Point{X: x, Y: y}, Width: v.TileW, Height: v.TileH}})
				}
			}
		case ExplicitRects:
			for _, r := range v.Rects {
				out = append(out, VirtualEntry{ImageIndex: i, Rect: r})
			}
		default:
			return nil, fmt.Errorf("views: unknown split mode %d: %w", v.Mode, gamegfx.ErrInvariantViolation)
		}
	}
	return out, nil
}

// Open returns a SubImage over e's rectangle, backed by the decoded
// parent image. Writing through it mutates the parent's pixel cache and
// re-encodes the parent image via its Sink.
func (v *VirtualTileset) Open(e VirtualEntry) (*SubImage, error) {
	if e.ImageIndex < 0 || e.ImageIndex >= len(v.Images) {
		return nil, fmt.Errorf("views: image index %d out of range: %w", e.ImageIndex, gamegfx.ErrInvariantViolation)
	}
	img := v.Images[e.ImageIndex]
	buf, err := img.ToPixels()
	if err != nil {
		return nil, err
	}
	return &SubImage{
		Parent:   buf,
		Viewport: e.Rect,
		Sink:     CallbackSink(func() error { return img.FromPixels(buf) }),
	}, nil
}
