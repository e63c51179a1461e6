package consoleout

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/skx/emu8086/video"
	"golang.org/x/term"
)

// ErrTerminalSize is returned by Setup if the terminal cannot show the
// whole display, along with the status line.
var ErrTerminalSize = errors.New("terminal too small")

// ansiColor maps CGA colour numbers to ANSI colour numbers.
var ansiColor = [8]int{0, 4, 2, 6, 1, 5, 3, 7}

// AnsiOutputDriver holds our state.
type AnsiOutputDriver struct {
	// writer is where we send our output
	writer io.Writer

	// last holds the previous frame and status, so unchanged frames
	// are not redrawn.
	last []byte
}

// GetName returns the name of this driver.
//
// This is part of the OutputDriver interface.
func (ad *AnsiOutputDriver) GetName() string {
	return "ansi"
}

// Setup clears the screen and hides the cursor.
//
// If we're writing to a terminal it must be at least 80x26.
func (ad *AnsiOutputDriver) Setup() error {
	if f, ok := ad.writer.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		w, h, err := term.GetSize(int(f.Fd()))
		if err == nil && (w < video.Columns || h < video.Rows+1) {
			return fmt.Errorf("%w: %dx%d", ErrTerminalSize, w, h)
		}
	}

	fmt.Fprintf(ad.writer, "\033[2J\033[?25l")
	ad.last = nil
	return nil
}

// TearDown resets the colours and shows the cursor again.
func (ad *AnsiOutputDriver) TearDown() error {
	_, err := fmt.Fprintf(ad.writer, "\033[0m\033[?25h\r\n")
	return err
}

// Render draws the frame.
//
// This is part of the OutputDriver interface.
func (ad *AnsiOutputDriver) Render(frame video.Frame, status string) {

	// Skip the work if nothing changed.
	key := make([]byte, 0, 1+len(frame.Text)+len(frame.Pixels)+len(status))
	key = append(key, byte(frame.Mode))
	key = append(key, frame.Text...)
	key = append(key, frame.Pixels...)
	key = append(key, status...)
	if bytes.Equal(key, ad.last) {
		return
	}
	ad.last = key

	var out bytes.Buffer
	out.WriteString("\033[H")

	if frame.Mode == video.ModeGraphics {
		ad.graphics(&out, frame)
	} else {
		ad.text(&out, frame)
	}

	out.WriteString("\033[0m\033[K")
	out.WriteString(status)

	ad.writer.Write(out.Bytes())
}

// text draws the text window, changing colours only when the
// attribute does.
func (ad *AnsiOutputDriver) text(out *bytes.Buffer, frame video.Frame) {
	for y := 0; y < video.Rows; y++ {
		current := -1
		for x := 0; x < video.Columns; x++ {
			ch, attr := frame.Cell(x, y)
			if int(attr) != current {
				fg, bg := video.SplitAttribute(attr)
				base := 30
				if fg&0x08 != 0 {
					base = 90
				}
				fmt.Fprintf(out, "\033[0;%d;%dm", base+ansiColor[fg&0x07], 40+ansiColor[bg])
				current = int(attr)
			}
			out.WriteRune(Glyph(ch))
		}
		out.WriteString("\033[0m\r\n")
	}
}

// graphics draws the graphics window using half-blocks, so each
// character cell shows two samples.
func (ad *AnsiOutputDriver) graphics(out *bytes.Buffer, frame video.Frame) {
	sx := video.Width / video.Columns
	sy := video.Height / video.Rows

	for y := 0; y < video.Rows; y++ {
		for x := 0; x < video.Columns; x++ {
			tr, tg, tb := video.Palette(frame.Pixel(x*sx, y*sy))
			br, bg, bb := video.Palette(frame.Pixel(x*sx, y*sy+sy/2))
			fmt.Fprintf(out, "\033[38;2;%d;%d;%d;48;2;%d;%d;%dm▀", tr, tg, tb, br, bg, bb)
		}
		out.WriteString("\033[0m\r\n")
	}
}

// SetWriter will update the writer.
func (ad *AnsiOutputDriver) SetWriter(w io.Writer) {
	ad.writer = w
}

// init registers our driver, by name.
func init() {
	Register("ansi", func() ConsoleOutput {
		return &AnsiOutputDriver{
			writer: os.Stdout,
		}
	})
}
