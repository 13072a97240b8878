package formats

import (
	"path/filepath"
	"strings"

	"github.com/flga/gamegfx"
	"github.com/flga/gamegfx/image"
	"github.com/flga/gamegfx/stream"
)

const (
	tvFogWidth  = 256
	tvFogHeight = 16
	tvFogSize   = tvFogWidth * tvFogHeight
)

// TVFog implements Terminal Velocity's fog mapping table, grounded on
// img-tv-fog.cpp: a fixed 256x16 raw VGA chunky image whose first row is
// always the identity ramp 0..255, repeated down every subsequent row on
// a freshly created file.
type TVFog struct{}

func (TVFog) Code() string         { return "img-tv-fog" }
func (TVFog) FriendlyName() string { return "Terminal Velocity fog map" }
func (TVFog) Extensions() []string { return []string{"fog"} }
func (TVFog) Games() []string      { return []string{"Terminal Velocity"} }

// Probe mirrors ImageType_TVFog::isInstance: the file must be exactly
// 4096 bytes and its first 256 bytes must be the identity ramp.
func (TVFog) Probe(s stream.Stream) Certainty {
	if s.Size() != tvFogSize {
		return DefinitelyNo
	}
	start, err := s.Read(0, 256)
	if err != nil {
		return DefinitelyNo
	}
	for i, b := range start {
		if int(b) != i {
			return DefinitelyNo
		}
	}
	return DefinitelyYes
}

func (TVFog) Open(s stream.Stream, supps Supps) (Opened, error) {
	img := image.New(s, 0, 0, s.Size(), gamegfx.VGA, tvFogWidth, tvFogHeight,
		image.Linear8{}, 0)
	if p, ok := supps[RolePalette]; ok {
		pal, err := loadVGAPalette(p)
		if err == nil {
			img.SetPaletteLoaded(pal)
		}
	}
	return Opened{Image: img}, nil
}

func (TVFog) Create(s stream.Stream, supps Supps) (Opened, error) {
	if err := s.Truncate(tvFogSize); err != nil {
		return Opened{}, err
	}
	data := make([]byte, tvFogSize)
	for i := range data {
		data[i] = byte(i % 256)
	}
	if err := s.Write(0, data); err != nil {
		return Opened{}, err
	}
	img := image.New(s, 0, 0, tvFogSize, gamegfx.VGA, tvFogWidth, tvFogHeight,
		image.Linear8{}, 0)
	return Opened{Image: img}, nil
}

// RequiredSupps mirrors getRequiredSupps: the palette lives alongside
// the fog file with the same base name and a .act extension.
func (TVFog) RequiredSupps(filename string) map[Role]string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return map[Role]string{RolePalette: base + ".act"}
}
