package pixel

// Role is an EGA plane's semantic purpose, per the GLOSSARY and spec §3.
// The trailing 0/1 says whether a set bit in the source data means the
// role is active (1) or a cleared bit does (0, i.e. the plane is stored
// inverted) — except for the Opaque pair, where the correspondence is
// reversed (Opaque0: set bit = opaque; Opaque1: set bit = transparent),
// matching the original encoder/decoder (img-ega-planar.cpp) exactly.
type Role int

const (
	Unused Role = iota
	Blank
	Blue0
	Blue1
	Green0
	Green1
	Red0
	Red1
	Intensity0
	Intensity1
	Hit0
	Hit1
	Opaque0
	Opaque1
)

// Layout is an ordered list of 1-6 plane roles.
type Layout []Role

// BGRI4 is the common 4-plane Blue/Green/Red/Intensity layout with no
// transparency or hit planes, used as the default for raw EGA dumps.
var BGRI4 = Layout{Blue1, Green1, Red1, Intensity1}

// planeRule describes how one non-Unused, non-Blank plane maps onto the
// pixel/mask buffers.
type planeRule struct {
	mask  bool // target is the mask buffer, not the pixel buffer
	value byte // bit to OR into the target byte
	swap  bool // invert the source bit before testing
}

var rules = map[Role]planeRule{
	Blue0:      {false, 0x01, true},
	Blue1:      {false, 0x01, false},
	Green0:     {false, 0x02, true},
	Green1:     {false, 0x02, false},
	Red0:       {false, 0x04, true},
	Red1:       {false, 0x04, false},
	Intensity0: {false, 0x08, true},
	Intensity1: {false, 0x08, false},
	Hit0:       {true, Touch, true},
	Hit1:       {true, Touch, false},
	Opaque0:    {true, Transparent, false},
	Opaque1:    {true, Transparent, true},
}

// on reports whether srcBit (0 or 1) means this plane's role is active
// for the given rule.
func (r planeRule) on(srcBit bool) bool {
	return srcBit != r.swap
}
