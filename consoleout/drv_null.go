package consoleout

import (
	"io"
	"os"

	"github.com/skx/emu8086/video"
)

// NullOutputDriver holds our state.
type NullOutputDriver struct {

	// writer is where we send our output
	writer io.Writer
}

// GetName returns the name of this driver.
//
// This is part of the OutputDriver interface.
func (no *NullOutputDriver) GetName() string {
	return "null"
}

// Setup is a NOP.
func (no *NullOutputDriver) Setup() error {
	return nil
}

// TearDown is a NOP.
func (no *NullOutputDriver) TearDown() error {
	return nil
}

// Render discards the frame.
//
// This is part of the OutputDriver interface.
func (no *NullOutputDriver) Render(frame video.Frame, status string) {
	// NOTHING happens
}

// SetWriter will update the writer.
func (no *NullOutputDriver) SetWriter(w io.Writer) {
	no.writer = w
}

// init registers our driver, by name.
func init() {
	Register("null", func() ConsoleOutput {
		return &NullOutputDriver{
			writer: os.Stdout,
		}
	})
}
