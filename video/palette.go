package video

// Palette converts a graphics-mode palette index to RGB.
//
// The index is treated as RRRGGGBB.
func Palette(index uint8) (uint8, uint8, uint8) {
	r := index & 0xE0
	g := (index & 0x1C) << 3
	b := (index & 0x03) << 6
	return r, g, b
}

// cga holds the sixteen text-mode colours.
var cga = [16][3]uint8{
	{0x00, 0x00, 0x00}, // black
	{0x00, 0x00, 0xAA}, // blue
	{0x00, 0xAA, 0x00}, // green
	{0x00, 0xAA, 0xAA}, // cyan
	{0xAA, 0x00, 0x00}, // red
	{0xAA, 0x00, 0xAA}, // magenta
	{0xAA, 0x55, 0x00}, // brown
	{0xAA, 0xAA, 0xAA}, // light grey
	{0x55, 0x55, 0x55}, // dark grey
	{0x55, 0x55, 0xFF},
	{0x55, 0xFF, 0x55},
	{0x55, 0xFF, 0xFF},
	{0xFF, 0x55, 0x55},
	{0xFF, 0x55, 0xFF},
	{0xFF, 0xFF, 0x55}, // yellow
	{0xFF, 0xFF, 0xFF}, // white
}

// CGAColor returns the RGB value of one of the sixteen text colours.
func CGAColor(n uint8) (uint8, uint8, uint8) {
	c := cga[n&0x0F]
	return c[0], c[1], c[2]
}

// SplitAttribute returns the foreground and background colours of a
// text attribute.
func SplitAttribute(attr uint8) (fg uint8, bg uint8) {
	return attr & 0x0F, (attr >> 4) & 0x07
}
