package image

import "github.com/flga/gamegfx/pixel"

// BytePlanar adapts pixel.DecodeBytePlanar/EncodeBytePlanar (spec
// §4.D.1) to the Codec interface.
type BytePlanar struct{ Layout pixel.Layout }

func (c BytePlanar) Decode(data []byte, w, h int) (*pixel.Buffer, error) {
	return pixel.DecodeBytePlanar(data, w, h, c.Layout)
}

func (c BytePlanar) Encode(buf *pixel.Buffer) ([]byte, error) {
	return pixel.EncodeBytePlanar(buf, c.Layout), nil
}

// BytePlanarTiled adapts pixel.DecodeBytePlanarTiled/EncodeBytePlanarTiled
// (spec §4.D.2) to the Codec interface.
type BytePlanarTiled struct{ Layout pixel.Layout }

func (c BytePlanarTiled) Decode(data []byte, w, h int) (*pixel.Buffer, error) {
	return pixel.DecodeBytePlanarTiled(data, w, h, c.Layout)
}

func (c BytePlanarTiled) Encode(buf *pixel.Buffer) ([]byte, error) {
	return pixel.EncodeBytePlanarTiled(buf, c.Layout)
}

// RowLinearCGA adapts pixel.DecodeRowLinearCGA/EncodeRowLinearCGA (spec
// §4.D.3) to the Codec interface.
type RowLinearCGA struct{}

func (RowLinearCGA) Decode(data []byte, w, h int) (*pixel.Buffer, error) {
	return pixel.DecodeRowLinearCGA(data, w, h)
}

func (RowLinearCGA) Encode(buf *pixel.Buffer) ([]byte, error) {
	return pixel.EncodeRowLinearCGA(buf), nil
}

// Linear8 adapts pixel.DecodeLinear8/EncodeLinear8 (spec §4.D.4) to the
// Codec interface.
type Linear8 struct{}

func (Linear8) Decode(data []byte, w, h int) (*pixel.Buffer, error) {
	return pixel.DecodeLinear8(data, w, h)
}

func (Linear8) Encode(buf *pixel.Buffer) ([]byte, error) {
	return pixel.EncodeLinear8(buf), nil
}

// ModeX adapts pixel.DecodeModeX/EncodeModeX (spec §4.D.5) to the Codec
// interface.
type ModeX struct{}

func (ModeX) Decode(data []byte, w, h int) (*pixel.Buffer, error) {
	return pixel.DecodeModeX(data, w, h)
}

func (ModeX) Encode(buf *pixel.Buffer) ([]byte, error) {
	return pixel.EncodeModeX(buf)
}
