package formats

import (
	"fmt"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/image"
	"github.com/flga/gamegfx/pixel"
	"github.com/flga/gamegfx/rle"
	"github.com/flga/gamegfx/stream"
)

const (
	ccScreenWidth  = 320
	ccScreenHeight = 200
)

var ccScreenLayout = pixel.Layout{pixel.Blue1, pixel.Green1, pixel.Red1, pixel.Intensity1, pixel.Unused, pixel.Unused}

// ccomicScreenCodec adapts rle.ComicDecoder/ComicEncoder plus
// BytePlanar to a single Codec, grounded on img-ccomic.cpp: a 320x200
// EGA image stored as four independently RLE-compressed 8000-byte
// planes (rle.PlaneLen), one after another, with no overall length
// prefix other than what each plane's own header carries.
type ccomicScreenCodec struct{}

func (ccomicScreenCodec) Decode(data []byte, w, h int) (*pixel.Buffer, error) {
	planar := make([]byte, 4*rle.PlaneLen)
	d := rle.NewComicDecoder()
	_, produced := d.Transform(data, planar)
	if produced != len(planar) {
		return pixel.New(w, h), fmt.Errorf("formats/ccomic: truncated RLE stream, decoded %d of %d bytes: %w", produced, len(planar), gamegfx.ErrIncompleteRead)
	}
	return pixel.DecodeBytePlanar(planar, w, h, ccScreenLayout)
}

func (ccomicScreenCodec) Encode(buf *pixel.Buffer) ([]byte, error) {
	planar := pixel.EncodeBytePlanar(buf, ccScreenLayout)
	return runTransform(rle.NewComicEncoder(), planar), nil
}

// CComicScreen implements spec §4.H's Captain Comic full-screen image
// handler, grounded on img-ccomic.cpp: a fixed 320x200 EGA frame whose
// four colour planes are each compressed with Captain Comic's per-plane
// RLE scheme (package rle), distinct from the uncompressed tiles CComic
// handles.
type CComicScreen struct{}

func (CComicScreen) Code() string         { return "img-ccomic" }
func (CComicScreen) FriendlyName() string { return "Captain Comic full-screen image" }
func (CComicScreen) Extensions() []string { return []string{"ega"} }
func (CComicScreen) Games() []string      { return []string{"Captain Comic"} }

func (CComicScreen) Probe(s stream.Stream) Certainty {
	size := s.Size()
	if size < 2 {
		return DefinitelyNo
	}
	hdr, err := s.Read(0, int(size))
	if err != nil {
		return DefinitelyNo
	}
	planar := make([]byte, 4*rle.PlaneLen)
	d := rle.NewComicDecoder()
	consumed, produced := d.Transform(hdr, planar)
	if produced != len(planar) {
		return DefinitelyNo
	}
	if int64(consumed) != size {
		return DefinitelyNo
	}
	return DefinitelyYes
}

func (CComicScreen) Open(s stream.Stream, supps Supps) (Opened, error) {
	img := image.New(s, 0, 0, s.Size(), gamegfx.EGA, ccScreenWidth, ccScreenHeight,
		ccomicScreenCodec{}, 0)
	return Opened{Image: img}, nil
}

func (CComicScreen) Create(s stream.Stream, supps Supps) (Opened, error) {
	if err := s.Truncate(0); err != nil {
		return Opened{}, err
	}
	blank := pixel.New(ccScreenWidth, ccScreenHeight)
	data, err := (ccomicScreenCodec{}).Encode(blank)
	if err != nil {
		return Opened{}, err
	}
	if err := s.Insert(0, int64(len(data))); err != nil {
		return Opened{}, err
	}
	if err := s.Write(0, data); err != nil {
		return Opened{}, err
	}
	img := image.New(s, 0, 0, s.Size(), gamegfx.EGA, ccScreenWidth, ccScreenHeight,
		ccomicScreenCodec{}, 0)
	return Opened{Image: img}, nil
}

func (CComicScreen) RequiredSupps(filename string) map[Role]string { return nil }
