package consoleout

import "github.com/skx/emu8086/video"

// low holds the glyphs of the control characters 0x01-0x1F.
var low = []rune("☺☻♥♦♣♠•◘○◙♂♀♪♫☼►◄↕‼¶§▬↨↑↓→←∟↔▲▼")

// high holds the glyphs of 0x80-0xFF.
var high = []rune("ÇüéâäàåçêëèïîìÄÅ" +
	"ÉæÆôöòûùÿÖÜ¢£¥₧ƒ" +
	"áíóúñÑªº¿⌐¬½¼¡«»" +
	"░▒▓│┤╡╢╖╕╣║╗╝╜╛┐" +
	"└┴┬├─┼╞╟╚╔╩╦╠═╬╧" +
	"╨╤╥╙╘╒╓╫╪┘┌█▄▌▐▀" +
	"αßΓπΣσµτΦΘΩδ∞φε∩" +
	"≡±≥≤⌠⌡÷≈°∙·√ⁿ²■ ")

// Glyph returns the rune which should be drawn for a byte of the
// text window, using code page 437.
func Glyph(b byte) rune {
	switch {
	case b == 0x00:
		return ' '
	case b < 0x20:
		return low[b-1]
	case b == 0x7F:
		return '⌂'
	case b < 0x80:
		return rune(b)
	default:
		return high[b-0x80]
	}
}

// nearest maps a graphics palette index to one of the eight basic
// text colours, in CGA order.
func nearest(index uint8) uint8 {
	r, g, b := video.Palette(index)

	out := uint8(0)
	if b >= 0x80 {
		out |= 1
	}
	if g >= 0x80 {
		out |= 2
	}
	if r >= 0x80 {
		out |= 4
	}
	return out
}
