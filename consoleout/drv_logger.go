package consoleout

import (
	"io"
	"os"
	"strings"

	"github.com/skx/emu8086/video"
)

// OutputLoggingDriver holds our state.
type OutputLoggingDriver struct {

	// writer is where we send our output
	writer io.Writer

	// history stores the text of the most recent frame
	history string

	// status stores the most recent status line
	status string

	// frames counts how many frames were rendered
	frames int
}

// GetName returns the name of this driver.
//
// This is part of the OutputDriver interface.
func (ol *OutputLoggingDriver) GetName() string {
	return "logger"
}

// Setup is a NOP.
func (ol *OutputLoggingDriver) Setup() error {
	return nil
}

// TearDown is a NOP.
func (ol *OutputLoggingDriver) TearDown() error {
	return nil
}

// Render records the text of the frame, as this is a recording-driver
// nothing is written.
//
// Trailing spaces, and trailing empty lines, are removed.
//
// This is part of the OutputDriver interface.
func (ol *OutputLoggingDriver) Render(frame video.Frame, status string) {
	lines := make([]string, 0, video.Rows)
	if frame.Mode == video.ModeText {
		for y := 0; y < video.Rows; y++ {
			lines = append(lines, strings.TrimRight(frame.Line(y), " \x00"))
		}
	}

	ol.history = strings.TrimRight(strings.Join(lines, "\n"), "\n")
	ol.status = status
	ol.frames++
}

// SetWriter will update the writer.
func (ol *OutputLoggingDriver) SetWriter(w io.Writer) {
	ol.writer = w
}

// GetOutput returns our history.
//
// This is part of the ConsoleRecorder interface
func (ol *OutputLoggingDriver) GetOutput() string {
	return ol.history
}

// GetStatus returns the last status line.
func (ol *OutputLoggingDriver) GetStatus() string {
	return ol.status
}

// Frames returns the number of frames rendered since the last reset.
func (ol *OutputLoggingDriver) Frames() int {
	return ol.frames
}

// Reset truncates our saved history.
//
// This is part of the ConsoleRecorder interface
func (ol *OutputLoggingDriver) Reset() {
	ol.history = ""
	ol.status = ""
	ol.frames = 0
}

// init registers our driver, by name.
func init() {
	Register("logger", func() ConsoleOutput {
		return &OutputLoggingDriver{
			writer: os.Stdout,
		}
	})
}
