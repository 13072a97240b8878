package formats

import (
	"testing"

	"github.com/flga/gamegfx/palette"
	"github.com/flga/gamegfx/stream"
)

func TestPalette8RoundTrip(t *testing.T) {
	pal := make(palette.Palette, 256)
	for i := range pal {
		pal[i].R = byte(i)
		pal[i].G = byte(i * 2)
		pal[i].B = byte(i * 3)
	}
	s := stream.NewMem(nil)
	if err := (Palette8{}).Save(s, pal); err != nil {
		t.Fatal(err)
	}
	if got := (Palette8{}).Probe(s); got != PossiblyYes {
		t.Fatalf("Probe() = %v, want PossiblyYes", got)
	}
	got, err := (Palette8{}).Load(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 256 {
		t.Fatalf("len(Load()) = %d, want 256", len(got))
	}
}

func TestHarryGMFProbeAndLoad(t *testing.T) {
	data := make([]byte, harryPalOffset+768)
	copy(data, harryGMFSig)
	for i := harryPalOffset; i < harryPalOffset+768; i++ {
		data[i] = 0x20
	}
	s := stream.NewMem(data)
	if got := (HarryGMF{}).Probe(s); got != DefinitelyYes {
		t.Fatalf("Probe() = %v, want DefinitelyYes", got)
	}
	pal, err := (HarryGMF{}).Load(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(pal) != 256 {
		t.Fatalf("len(Load()) = %d, want 256", len(pal))
	}
}

func TestHarryGMFProbeRejectsBadSignature(t *testing.T) {
	data := make([]byte, harryPalOffset+768)
	if got := (HarryGMF{}).Probe(stream.NewMem(data)); got != DefinitelyNo {
		t.Fatalf("Probe() = %v, want DefinitelyNo", got)
	}
}

func TestHarryGMFProbeRejectsOutOfRangeChannel(t *testing.T) {
	data := make([]byte, harryPalOffset+768)
	copy(data, harryGMFSig)
	data[harryPalOffset] = 0x41
	if got := (HarryGMF{}).Probe(stream.NewMem(data)); got != DefinitelyNo {
		t.Fatalf("Probe() = %v, want DefinitelyNo", got)
	}
}
