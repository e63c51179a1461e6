//go:build linux || darwin || freebsd || netbsd || openbsd

// drv_termios creates a console input-driver which disables canonical
// mode and echo via termios, and reads STDIN from a goroutine.
//
// Unlike the stty driver there is no process to launch per-keystroke,
// and unlike the term driver the screen is left alone - which makes it
// a good match for the ANSI output driver.

package consolein

import (
	"fmt"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// TermiosInput is an input-driver which uses termios directly.
type TermiosInput struct {

	// original holds the terminal configuration before we changed it.
	original unix.Termios

	// configured is true once we've changed the terminal.
	configured bool

	// keys receives bytes read by our goroutine.
	keys chan byte

	// errs receives any read error, after which the goroutine stops.
	errs chan error
}

// Setup configures the terminal, and starts reading from STDIN.
func (ti *TermiosInput) Setup() error {

	if err := termios.Tcgetattr(os.Stdin.Fd(), &ti.original); err != nil {
		return fmt.Errorf("error reading terminal attributes %s", err)
	}

	raw := ti.original
	raw.Lflag &^= unix.ICANON | unix.ECHO
	if err := termios.Tcsetattr(os.Stdin.Fd(), termios.TCSANOW, &raw); err != nil {
		return fmt.Errorf("error setting terminal attributes %s", err)
	}
	ti.configured = true

	ti.keys = make(chan byte, 256)
	ti.errs = make(chan error, 1)
	go ti.read()
	return nil
}

// read copies STDIN into our channel until an error occurs.
func (ti *TermiosInput) read() {
	buf := make([]byte, 64)
	for {
		n, err := os.Stdin.Read(buf)
		for _, b := range buf[:n] {
			ti.keys <- b
		}
		if err != nil {
			ti.errs <- err
			return
		}
	}
}

// TearDown restores the terminal.
func (ti *TermiosInput) TearDown() error {
	if !ti.configured {
		return nil
	}
	ti.configured = false
	return termios.Tcsetattr(os.Stdin.Fd(), termios.TCSANOW, &ti.original)
}

// PendingInput returns true if a byte has been read, or reading failed.
func (ti *TermiosInput) PendingInput() bool {
	return len(ti.keys) > 0 || len(ti.errs) > 0
}

// BlockForCharacterNoEcho returns the next byte read from STDIN.
func (ti *TermiosInput) BlockForCharacterNoEcho() (byte, error) {

	// Bytes read before an error are still returned first.
	select {
	case b := <-ti.keys:
		return b, nil
	default:
	}

	select {
	case b := <-ti.keys:
		return b, nil
	case err := <-ti.errs:
		return 0x00, err
	}
}

// GetName is part of the module API, and returns the name of this driver.
func (ti *TermiosInput) GetName() string {
	return "termios"
}

// init registers our driver, by name.
func init() {
	Register("termios", func() ConsoleInput {
		return new(TermiosInput)
	})
}
