// Package gui is a graphical frontend for the emulator.
//
// The window shows the display, in either mode, along with a status bar
// of register contents.  Typed characters are added to the keyboard
// queue, and the processor is run in batches between frames.
//
// Keys:
//
//   - F5 pauses and resumes the processor.
//   - F6 executes a single step while paused.
//   - Ctrl+Shift+V pastes the clipboard.
//
// Building with the "headless" tag removes the window, and Run
// always fails.
package gui

import (
	"context"
	"errors"
	"image/color"
	"log/slog"

	"github.com/skx/emu8086/cpu"
	"github.com/skx/emu8086/keyboard"
	"github.com/skx/emu8086/video"
)

const (
	// CellWidth and CellHeight are the size of a text cell, in pixels.
	CellWidth  = 8
	CellHeight = 16

	// ScreenWidth and ScreenHeight are the size of the display area.
	ScreenWidth  = video.Columns * CellWidth
	ScreenHeight = video.Rows * CellHeight

	// StatusHeight is the height of the status bar beneath the display.
	StatusHeight = 16

	// maxPaste limits how much of the clipboard we'll queue.
	maxPaste = 4096
)

// ErrUnavailable is returned by Run if graphical support was not
// compiled in.
var ErrUnavailable = errors.New("built without graphical support")

// Machine is the part of the processor which the frontend drives.
type Machine interface {
	Run(ctx context.Context, max int) (int, error)
	Step() error
	Frame() video.Frame
	State() cpu.State
	Keyboard() *keyboard.Queue
}

// Config holds the options of the frontend.
type Config struct {
	// Steps is the number of instructions to execute per frame.
	Steps int

	// Scale multiplies the size of the window.
	Scale int

	// Title is shown in the window title-bar.
	Title string

	// Logger is used for diagnostics, nil means slog.Default().
	Logger *slog.Logger
}

// withDefaults returns a copy of the configuration with unset fields
// populated.
func (c Config) withDefaults() Config {
	if c.Steps <= 0 {
		c.Steps = 100000
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.Title == "" {
		c.Title = "emu8086"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// normalizePaste converts line-endings to the carriage-returns a PC
// keyboard produces, and drops anything outside the single-byte range.
func normalizePaste(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '\r':
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
			out = append(out, '\r')
		case '\n':
			out = append(out, '\r')
		default:
			if raw[i] < 0x80 {
				out = append(out, raw[i])
			}
		}
		if len(out) >= maxPaste {
			break
		}
	}
	return out
}

// runeToKey converts typed input to a keyboard byte.
func runeToKey(r rune) (byte, bool) {
	if r <= 0 || r >= 0x80 {
		return 0, false
	}
	return byte(r), true
}

// textColor returns the colour of one of the sixteen text colours.
func textColor(n uint8) color.RGBA {
	r, g, b := video.CGAColor(n)
	return color.RGBA{r, g, b, 0xFF}
}

// cellRune returns the character to draw for a byte of the text
// window.  Our font only has ASCII glyphs.
func cellRune(ch byte) rune {
	if ch >= 0x20 && ch < 0x7F {
		return rune(ch)
	}
	if ch == 0x00 || ch == 0xFF {
		return ' '
	}
	return '?'
}

// rasterize converts the graphics window of a frame to RGBA pixels.
//
// dst must hold video.Width * video.Height * 4 bytes.
func rasterize(frame video.Frame, dst []byte) {
	for y := 0; y < video.Height; y++ {
		for x := 0; x < video.Width; x++ {
			r, g, b := video.Palette(frame.Pixel(x, y))
			i := (y*video.Width + x) * 4
			dst[i] = r
			dst[i+1] = g
			dst[i+2] = b
			dst[i+3] = 0xFF
		}
	}
}
