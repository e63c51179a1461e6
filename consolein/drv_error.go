// drv_error is a console input-driver which claims input is always
// waiting, but fails every read.
//
// It lets tests exercise the error paths of Feed, and is hidden from
// the driver list.

package consolein

import "errors"

// ErrDriver is returned by every read from the error driver.
var ErrDriver = errors.New("DRV_ERROR")

// ErrorInput is an input-driver that only returns errors.
type ErrorInput struct {
	// reads counts the failed reads.
	reads int
}

// Setup is a NOP.
func (ei *ErrorInput) Setup() error { return nil }

// TearDown is a NOP.
func (ei *ErrorInput) TearDown() error { return nil }

// PendingInput always reports input, so that callers go on to read.
func (ei *ErrorInput) PendingInput() bool { return true }

// BlockForCharacterNoEcho fails.
func (ei *ErrorInput) BlockForCharacterNoEcho() (byte, error) {
	ei.reads++
	return 0x00, ErrDriver
}

// Reads returns the number of reads attempted.
func (ei *ErrorInput) Reads() int {
	return ei.reads
}

// GetName returns the name of this driver, "error".
func (ei *ErrorInput) GetName() string {
	return "error"
}

// init registers our driver, by name.
func init() {
	Register("error", func() ConsoleInput {
		return new(ErrorInput)
	})
}
