// Package video describes the display memory of our machine.
//
// In text mode the display is an 80x25 grid of (character, attribute)
// pairs living at 0xB8000 in ordinary RAM; the processor writes it like
// any other memory and the host reads it once per frame.
//
// In graphics mode the display is a 320x200 grid of palette indexes.
// Byte stores which land inside the 64000 bytes starting at 0xA0000 are
// redirected into the adapter's own pixel buffer.
package video

import (
	"github.com/skx/emu8086/memory"
)

const (
	// TextBase is the physical address of the text window.
	TextBase = 0xB8000

	// Columns and Rows describe the size of the text window.
	Columns = 80
	Rows    = 25

	// TextSize is the number of bytes in the text window.
	TextSize = Columns * Rows * 2

	// DefaultAttribute is light grey on black.
	DefaultAttribute = 0x07

	// GraphicsBase is the physical address of the graphics window.
	GraphicsBase = 0xA0000

	// Width and Height describe the size of the graphics window.
	Width  = 320
	Height = 200

	// GraphicsSize is the number of bytes in the graphics window.
	GraphicsSize = Width * Height
)

// Mode is the display mode.
type Mode int

const (
	// ModeText is 80x25 colour text.
	ModeText Mode = iota

	// ModeGraphics is 320x200 with 256 colours.
	ModeGraphics
)

// String returns a name for the mode.
func (m Mode) String() string {
	if m == ModeGraphics {
		return "graphics"
	}
	return "text"
}

// Adapter holds the display state which doesn't live in RAM.
type Adapter struct {
	mode   Mode
	pixels [GraphicsSize]byte
}

// New returns an adapter in text mode.
func New() *Adapter {
	return &Adapter{}
}

// Mode returns the current display mode.
func (a *Adapter) Mode() Mode {
	return a.mode
}

// Reset returns to text mode and fills the text window with blanks.
func (a *Adapter) Reset(mem *memory.Memory) error {
	return a.SetMode(mem, ModeText)
}

// SetMode changes the display mode, clearing the relevant window.
func (a *Adapter) SetMode(mem *memory.Memory, m Mode) error {
	a.mode = m

	if m == ModeGraphics {
		a.pixels = [GraphicsSize]byte{}
		return nil
	}

	return ClearText(mem, DefaultAttribute)
}

// ClearText fills the text window with spaces in the given attribute.
func ClearText(mem *memory.Memory, attr uint8) error {
	for i := 0; i < TextSize; i += 2 {
		if err := mem.Write(uint32(TextBase+i), ' ', attr); err != nil {
			return err
		}
	}
	return nil
}

// WriteByte stores a byte on behalf of the processor.
//
// In graphics mode stores into the graphics window go to the pixel
// buffer; everything else is written to RAM.
func (a *Adapter) WriteByte(mem *memory.Memory, addr uint32, v uint8) error {
	if a.mode == ModeGraphics && addr >= GraphicsBase && addr < GraphicsBase+GraphicsSize {
		a.pixels[addr-GraphicsBase] = v
		return nil
	}
	return mem.Set(addr, v)
}

// PutChar writes a character and attribute at the given cell.
//
// Cells outside the window are ignored.
func PutChar(mem *memory.Memory, cell int, ch, attr uint8) error {
	if cell < 0 || cell >= Columns*Rows {
		return nil
	}
	return mem.Write(uint32(TextBase+cell*2), ch, attr)
}

// Frame is a snapshot of the display, suitable for rendering.
type Frame struct {
	// Mode is the mode the display was in.
	Mode Mode

	// Text holds the (character, attribute) pairs of the text window.
	Text []byte

	// Pixels holds the palette indexes of the graphics window.
	//
	// It is only populated in graphics mode.
	Pixels []byte
}

// Snapshot copies the display into a new Frame.
func (a *Adapter) Snapshot(mem *memory.Memory) Frame {
	f := Frame{Mode: a.mode}

	// The text window is always in range.
	f.Text, _ = mem.Read(TextBase, TextSize)

	if a.mode == ModeGraphics {
		f.Pixels = make([]byte, GraphicsSize)
		copy(f.Pixels, a.pixels[:])
	}
	return f
}

// Cell returns the character and attribute at the given position.
func (f Frame) Cell(x, y int) (uint8, uint8) {
	if x < 0 || x >= Columns || y < 0 || y >= Rows || len(f.Text) < TextSize {
		return ' ', DefaultAttribute
	}
	i := (y*Columns + x) * 2
	return f.Text[i], f.Text[i+1]
}

// Line returns the characters of the given row, without attributes.
func (f Frame) Line(y int) string {
	out := make([]byte, Columns)
	for x := 0; x < Columns; x++ {
		out[x], _ = f.Cell(x, y)
	}
	return string(out)
}

// Pixel returns the palette index at the given position.
func (f Frame) Pixel(x, y int) uint8 {
	if x < 0 || x >= Width || y < 0 || y >= Height || len(f.Pixels) < GraphicsSize {
		return 0
	}
	return f.Pixels[y*Width+x]
}
