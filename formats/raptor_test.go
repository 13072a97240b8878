package formats

import (
	"encoding/binary"
	"testing"

	"github.com/flga/gamegfx/stream"
)

func raptorFile(width, height uint32, pixels []byte) []byte {
	hdr := make([]byte, raptorDataOffset)
	binary.LittleEndian.PutUint32(hdr[12:16], width)
	binary.LittleEndian.PutUint32(hdr[16:20], height)
	return append(hdr, pixels...)
}

func TestRaptorPICProbeAndOpen(t *testing.T) {
	data := raptorFile(4, 3, make([]byte, 12))
	s := stream.NewMem(data)
	h := RaptorPIC{}
	if got := h.Probe(s); got != DefinitelyYes {
		t.Fatalf("Probe() = %v, want DefinitelyYes", got)
	}

	opened, err := h.Open(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if dims := opened.Image.Dimensions(); dims.X != 4 || dims.Y != 3 {
		t.Fatalf("Dimensions() = %v, want 4x3", dims)
	}
}

func TestRaptorPICProbeRejectsMismatchedSize(t *testing.T) {
	data := raptorFile(4, 3, make([]byte, 5))
	if got := (RaptorPIC{}).Probe(stream.NewMem(data)); got != DefinitelyNo {
		t.Fatalf("Probe() = %v, want DefinitelyNo", got)
	}
}

func TestRaptorPICCreate(t *testing.T) {
	s := stream.NewMem(nil)
	opened, err := (RaptorPIC{}).Create(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Size() != raptorDataOffset {
		t.Fatalf("Size() after Create = %d, want %d", s.Size(), raptorDataOffset)
	}
	if dims := opened.Image.Dimensions(); dims.X != 0 || dims.Y != 0 {
		t.Fatalf("Dimensions() after Create = %v, want 0x0", dims)
	}
}
