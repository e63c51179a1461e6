// drv_term.go uses the Termbox library to handle console-based input.
//
// A goroutine is launched which collects any keyboard input and
// saves that to a buffer where it can be peeled off on-demand.
//
// The portability of this solution is unknown, however this driver
// _seems_ reasonable and is the default.

package consolein

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/nsf/termbox-go"
	"golang.org/x/term"
)

// TermboxInput is our input-driver, using termbox
type TermboxInput struct {

	// oldState contains the state of the terminal, before switching to RAW mode
	oldState *term.State

	// Cancel holds a context which can be used to close our polling goroutine
	Cancel context.CancelFunc

	// lock protects keyBuffer, which is written by our goroutine.
	lock sync.Mutex

	// keyBuffer builds up keys read "in the background", via termbox
	keyBuffer []byte
}

// Setup ensures that the termbox init functions are called, and our
// terminal is set into RAW mode.
func (ti *TermboxInput) Setup() error {

	var err error

	// switch STDIN into 'raw' mode - we must do this before
	// we setup termbox.
	ti.oldState, err = term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("error making raw terminal %s", err)
	}

	// Setup the terminal, unless an output driver got there first.
	if !termbox.IsInit {
		err = termbox.Init()
		if err != nil {
			return fmt.Errorf("error initializing termbox %s", err)
		}
	}

	// Allow our polling of keyboard to be canceled
	ctx, cancel := context.WithCancel(context.Background())
	ti.Cancel = cancel

	// Start polling for keyboard input "in the background".
	go ti.pollKeyboard(ctx)
	return nil
}

// pollKeyboard runs in a goroutine and collects keyboard input
// into a buffer where it will be read from in the future.
func (ti *TermboxInput) pollKeyboard(ctx context.Context) {
	for {
		// Are we done?
		select {
		case <-ctx.Done():
			return
		default:
			// NOP
		}

		// Now look for keyboard input
		switch ev := termbox.PollEvent(); ev.Type {
		case termbox.EventKey:
			var b byte
			switch {
			case ev.Ch != 0 && ev.Ch < 0x80:
				b = byte(ev.Ch)
			case ev.Ch == 0 && ev.Key == termbox.KeySpace:
				b = ' '
			case ev.Ch == 0 && ev.Key < 0x80:
				// Control keys have their ASCII values.
				b = byte(ev.Key)
			default:
				// Cursor keys, function keys, and non-ASCII
				// characters have no single-byte form.
				continue
			}

			ti.lock.Lock()
			ti.keyBuffer = append(ti.keyBuffer, b)
			ti.lock.Unlock()

		case termbox.EventInterrupt:
			return
		}
	}
}

// TearDown resets the state of the terminal, disables the background polling of characters
// and generally gets us ready for exit.
func (ti *TermboxInput) TearDown() error {
	// Cancel the keyboard reading
	if ti.Cancel != nil {
		ti.Cancel()
		termbox.Interrupt()
	}

	// Terminate the GUI.
	if termbox.IsInit {
		termbox.Close()
	}

	// Restore the terminal
	if ti.oldState != nil {
		return term.Restore(int(os.Stdin.Fd()), ti.oldState)
	}
	return nil
}

// PendingInput returns true if there is pending input from STDIN.
func (ti *TermboxInput) PendingInput() bool {
	ti.lock.Lock()
	defer ti.lock.Unlock()

	return len(ti.keyBuffer) > 0
}

// BlockForCharacterNoEcho returns the next character from the console, blocking until
// one is available.
//
// NOTE: This function should not echo keystrokes which are entered.
func (ti *TermboxInput) BlockForCharacterNoEcho() (byte, error) {

	for !ti.PendingInput() {
		time.Sleep(1 * time.Millisecond)
	}

	// Return the character
	ti.lock.Lock()
	defer ti.lock.Unlock()

	c := ti.keyBuffer[0]
	ti.keyBuffer = ti.keyBuffer[1:]
	return c, nil
}

// GetName is part of the module API, and returns the name of this driver.
func (ti *TermboxInput) GetName() string {
	return "term"
}

// init registers our driver, by name.
func init() {
	Register("term", func() ConsoleInput {
		return new(TermboxInput)
	})
}
