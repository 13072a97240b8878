package palette

// CGAPaletteID selects one of the four fixed CGA 4-colour sets.
type CGAPaletteID int

const (
	RedGreenBrown CGAPaletteID = iota
	CyanMagentaWhite
	RedGreenBrownBright
	CyanMagentaWhiteBright
)

// EGA16 is the standard IBM 16-colour EGA palette, used as the default
// palette by formats that don't embed their own.
var EGA16 = Palette{
	{0x00, 0x00, 0x00, 255}, {0x00, 0x00, 0xAA, 255},
	{0x00, 0xAA, 0x00, 255}, {0x00, 0xAA, 0xAA, 255},
	{0xAA, 0x00, 0x00, 255}, {0xAA, 0x00, 0xAA, 255},
	{0xAA, 0x55, 0x00, 255}, {0xAA, 0xAA, 0xAA, 255},
	{0x55, 0x55, 0x55, 255}, {0x55, 0x55, 0xFF, 255},
	{0x55, 0xFF, 0x55, 255}, {0x55, 0xFF, 0xFF, 255},
	{0xFF, 0x55, 0x55, 255}, {0xFF, 0x55, 0xFF, 255},
	{0xFF, 0xFF, 0x55, 255}, {0xFF, 0xFF, 0xFF, 255},
}

var cgaSets = [4]Palette{
	RedGreenBrown: {
		{0x00, 0x00, 0x00, 255}, {0x00, 0xAA, 0x00, 255},
		{0xAA, 0x00, 0x00, 255}, {0xAA, 0x55, 0x00, 255},
	},
	CyanMagentaWhite: {
		{0x00, 0x00, 0x00, 255}, {0x00, 0xAA, 0xAA, 255},
		{0xAA, 0x00, 0xAA, 255}, {0xAA, 0xAA, 0xAA, 255},
	},
	RedGreenBrownBright: {
		{0x00, 0x00, 0x00, 255}, {0x55, 0xFF, 0x55, 255},
		{0xFF, 0x55, 0x55, 255}, {0xFF, 0xFF, 0x55, 255},
	},
	CyanMagentaWhiteBright: {
		{0x00, 0x00, 0x00, 255}, {0x55, 0xFF, 0xFF, 255},
		{0xFF, 0x55, 0xFF, 255}, {0xFF, 0xFF, 0xFF, 255},
	},
}

// CGADefault returns one of the four fixed CGA palettes by id.
func CGADefault(id CGAPaletteID) Palette {
	out := make(Palette, len(cgaSets[id]))
	copy(out, cgaSets[id])
	return out
}
