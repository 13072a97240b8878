package formats

import (
	"testing"

	"github.com/flga/gamegfx/stream"
)

func TestTVFogCreateAndProbe(t *testing.T) {
	s := stream.NewMem(nil)
	h := TVFog{}
	opened, err := h.Create(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if dims := opened.Image.Dimensions(); dims.X != tvFogWidth || dims.Y != tvFogHeight {
		t.Fatalf("Dimensions() = %v, want %dx%d", dims, tvFogWidth, tvFogHeight)
	}
	if got := h.Probe(s); got != DefinitelyYes {
		t.Fatalf("Probe() after Create = %v, want DefinitelyYes", got)
	}

	buf, err := opened.Image.ToPixels()
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range buf.Pixels {
		if want := byte(i % 256); b != want {
			t.Fatalf("pixel %d = %d, want %d", i, b, want)
		}
	}
}

func TestTVFogProbeRejectsWrongSize(t *testing.T) {
	s := stream.NewMem(make([]byte, 100))
	if got := (TVFog{}).Probe(s); got != DefinitelyNo {
		t.Fatalf("Probe() = %v, want DefinitelyNo", got)
	}
}

func TestTVFogProbeRejectsNonIdentityRamp(t *testing.T) {
	data := make([]byte, tvFogSize)
	data[5] = 0xFF
	s := stream.NewMem(data)
	if got := (TVFog{}).Probe(s); got != DefinitelyNo {
		t.Fatalf("Probe() = %v, want DefinitelyNo", got)
	}
}

func TestTVFogRequiredSupps(t *testing.T) {
	got := (TVFog{}).RequiredSupps("level1.fog")
	if got[RolePalette] != "level1.act" {
		t.Fatalf("RequiredSupps palette = %q, want level1.act", got[RolePalette])
	}
}
