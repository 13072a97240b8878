// Package pixel implements spec §3's pixel buffer and §4.D's family of
// codecs that translate it to and from the on-disk EGA/VGA byte layouts.
package pixel

// Mask bit flags, per spec §3.
const (
	Transparent byte = 1 << 0
	Touch       byte = 1 << 1
)

// Buffer is a rectangular W x H indexed pixel image plus its parallel
// mask. pixels[y*W+x] is the palette index; mask[y*W+x] carries the
// Transparent/Touch flags. A pixel is opaque iff mask&Transparent == 0.
type Buffer struct {
	W, H   int
	Pixels []byte
	Mask   []byte
}

// New allocates a zeroed buffer of the given dimensions.
func New(w, h int) *Buffer {
	n := w * h
	return &Buffer{W: w, H: h, Pixels: make([]byte, n), Mask: make([]byte, n)}
}

// At returns the palette index and mask byte at (x,y).
func (b *Buffer) At(x, y int) (index, mask byte) {
	i := y*b.W + x
	return b.Pixels[i], b.Mask[i]
}

// Set writes the palette index and mask byte at (x,y).
func (b *Buffer) Set(x, y int, index, mask byte) {
	i := y*b.W + x
	b.Pixels[i] = index
	b.Mask[i] = mask
}

// Opaque reports whether (x,y) is not marked transparent.
func (b *Buffer) Opaque(x, y int) bool {
	_, m := b.At(x, y)
	return m&Transparent == 0
}
