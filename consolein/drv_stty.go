//go:build unix

// drv_stty creates a console input-driver which uses the `stty` binary
// to switch the terminal out of line-mode when we start, and back again
// when we finish.
//
// Polling for input uses select(2) on STDIN, so it costs nothing when
// no key has been pressed.

package consolein

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrNotTerminal is returned if STDIN is not a terminal.
var ErrNotTerminal = errors.New("STDIN is not a terminal")

// STTYInput is an input-driver that executes the 'stty' binary to
// disable echo and canonical mode.
//
// This is non-portable outwith Unix-like systems.
type STTYInput struct {

	// configured is true once we've changed the terminal.
	configured bool
}

// Setup disables echo and line-buffering.
func (si *STTYInput) Setup() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ErrNotTerminal
	}

	if err := si.stty("-echo", "-icanon", "min", "1"); err != nil {
		return fmt.Errorf("error configuring terminal %s", err)
	}
	si.configured = true
	return nil
}

// TearDown resets the state of the terminal.
func (si *STTYInput) TearDown() error {
	if !si.configured {
		return nil
	}
	si.configured = false
	return si.stty("echo", "icanon")
}

// stty is the single place where we run the binary.
func (si *STTYInput) stty(args ...string) error {
	cmd := exec.Command("stty", args...)
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

// PendingInput returns true if there is pending input from STDIN.
func (si *STTYInput) PendingInput() bool {

	fds := &unix.FdSet{}
	fds.Set(int(os.Stdin.Fd()))

	// Poll, without waiting.
	tv := unix.Timeval{}

	nRead, err := unix.Select(int(os.Stdin.Fd())+1, fds, nil, nil, &tv)
	if err != nil {
		return false
	}
	return nRead > 0
}

// BlockForCharacterNoEcho returns the next character from the console, blocking until
// one is available.
func (si *STTYInput) BlockForCharacterNoEcho() (byte, error) {

	// read only a single byte
	b := make([]byte, 1)
	_, err := os.Stdin.Read(b)
	if err != nil {
		return 0x00, fmt.Errorf("error reading a byte from stdin %w", err)
	}
	return b[0], nil
}

// GetName is part of the module API, and returns the name of this driver.
func (si *STTYInput) GetName() string {
	return "stty"
}

// init registers our driver, by name.
func init() {
	Register("stty", func() ConsoleInput {
		return new(STTYInput)
	})
}
