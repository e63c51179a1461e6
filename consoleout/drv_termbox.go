package consoleout

import (
	"fmt"
	"io"

	"github.com/nsf/termbox-go"
	"github.com/skx/emu8086/video"
)

// termboxColor maps CGA colour numbers to termbox colours.
var termboxColor = [8]termbox.Attribute{
	termbox.ColorBlack,
	termbox.ColorBlue,
	termbox.ColorGreen,
	termbox.ColorCyan,
	termbox.ColorRed,
	termbox.ColorMagenta,
	termbox.ColorYellow,
	termbox.ColorWhite,
}

// TermboxOutputDriver draws frames into the termbox back-buffer.
//
// It shares the terminal with the "term" input driver, whichever is
// setup first initializes termbox.
type TermboxOutputDriver struct {
}

// GetName returns the name of this driver.
//
// This is part of the OutputDriver interface.
func (to *TermboxOutputDriver) GetName() string {
	return "termbox"
}

// Setup initializes termbox, unless that has already happened.
func (to *TermboxOutputDriver) Setup() error {
	if termbox.IsInit {
		return nil
	}
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("error initializing termbox %s", err)
	}
	termbox.HideCursor()
	return nil
}

// TearDown closes termbox, if nothing else has done so.
func (to *TermboxOutputDriver) TearDown() error {
	if termbox.IsInit {
		termbox.Close()
	}
	return nil
}

// Render draws the frame, and flushes it to the terminal.
//
// This is part of the OutputDriver interface.
func (to *TermboxOutputDriver) Render(frame video.Frame, status string) {
	if !termbox.IsInit {
		return
	}

	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)

	for y := 0; y < video.Rows; y++ {
		for x := 0; x < video.Columns; x++ {
			if frame.Mode == video.ModeGraphics {
				sx := video.Width / video.Columns
				sy := video.Height / video.Rows
				top := nearest(frame.Pixel(x*sx, y*sy))
				bottom := nearest(frame.Pixel(x*sx, y*sy+sy/2))
				termbox.SetCell(x, y, '▀', termboxColor[top], termboxColor[bottom])
				continue
			}

			ch, attr := frame.Cell(x, y)
			fg, bg := video.SplitAttribute(attr)
			fgc := termboxColor[fg&0x07]
			if fg&0x08 != 0 {
				fgc |= termbox.AttrBold
			}
			termbox.SetCell(x, y, Glyph(ch), fgc, termboxColor[bg])
		}
	}

	for i, r := range []rune(status) {
		termbox.SetCell(i, video.Rows, r, termbox.ColorDefault, termbox.ColorDefault)
	}

	termbox.Flush()
}

// SetWriter is a NOP, termbox always writes to the terminal.
func (to *TermboxOutputDriver) SetWriter(w io.Writer) {
}

// init registers our driver, by name.
func init() {
	Register("termbox", func() ConsoleOutput {
		return &TermboxOutputDriver{}
	})
}
