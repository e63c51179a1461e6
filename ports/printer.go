package ports

import (
	"fmt"
	"io"
	"os"
)

const (
	// PrinterData is the data port of the first parallel port.
	PrinterData = 0x378

	// PrinterStatus is the read-only status port.
	PrinterStatus = 0x379

	// PrinterControl is the control port; writes are accepted and
	// ignored.
	PrinterControl = 0x37A

	// printerReady is the status of an idle, selected, printer with
	// paper and no errors.
	printerReady = 0xD8
)

// opener opens the printer log; it is replaced when testing.
var opener = func(name string) (io.WriteCloser, error) {
	return os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// Printer is a parallel port which appends every byte written to its
// data port to a file, which defaults to "print.log".
type Printer struct {
	path string
}

// NewPrinter returns a printer writing to the given file.
func NewPrinter(path string) *Printer {
	if path == "" {
		path = "print.log"
	}
	return &Printer{path: path}
}

// GetName returns the name of this device.
func (p *Printer) GetName() string {
	return "printer"
}

// Path returns the file output is written to.
func (p *Printer) Path() string {
	return p.path
}

// HandleIO processes I/O operations for the printer.
func (p *Printer) HandleIO(port uint16, dir Direction, data []byte) error {
	switch {
	case port == PrinterData && dir == Out:
		return p.print(data[0])

	case port == PrinterStatus && dir == In:
		for i := range data {
			data[i] = 0
		}
		data[0] = printerReady
		return nil

	case port == PrinterControl && dir == Out:
		return nil
	}

	return fmt.Errorf("%w: printer %s 0x%02X", ErrUnsupported, dir, port)
}

// print appends the given byte to our file.
//
// The file is opened and closed each time, so output is visible
// immediately.
func (p *Printer) print(c byte) error {

	// If the file doesn't exist, create it.
	f, err := opener(p.path)
	if err != nil {
		return fmt.Errorf("printer: failed to open file %s:%w", p.path, err)
	}

	_, err = f.Write([]byte{c})
	if err != nil {
		f.Close()
		return fmt.Errorf("printer: failed to write to file %s:%w", p.path, err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("printer: failed to close file %s:%w", p.path, err)
	}
	return nil
}

// AttachPrinter registers a printer on the first parallel port.
func (b *Bus) AttachPrinter(p *Printer) {
	b.Register(PrinterData, PrinterControl, p)
}
