// Package consolein handles the reading of console input
// for our emulator.
//
// Input is gathered by a driver, chosen by name, and moved a byte at a
// time into the emulated keyboard queue by Feed.  Drivers only have to
// say whether input is pending, and return the next byte.
//
// Note that no output functions are handled by this package,
// it is exclusively used for input.
package consolein

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/skx/emu8086/keyboard"
)

// QuitKey is the byte which stops the emulator, rather than being
// passed to it: Ctrl-].
const QuitKey = 0x1D

var (
	// ErrInterrupted is returned by Feed when the user presses the
	// QuitKey.
	ErrInterrupted = errors.New("INTERRUPTED")
)

// ConsoleInput is the interface that must be implemented by anything
// that wishes to be used as an input driver.
//
// Providing this interface is implemented an object may register itself,
// by name, via the Register method.
type ConsoleInput interface {

	// Setup performs any specific setup which is required.
	Setup() error

	// TearDown performs any specific cleanup which is required.
	TearDown() error

	// PendingInput returns true if there is pending input available to be read.
	PendingInput() bool

	// BlockForCharacterNoEcho reads a single character from the console,
	// blocking until one is available, without echoing it.
	BlockForCharacterNoEcho() (byte, error)

	// GetName will return the name of the driver.
	GetName() string
}

// This is a map of known-drivers
var handlers = struct {
	m map[string]Constructor
}{m: make(map[string]Constructor)}

// Constructor is the signature of a constructor-function
// which is used to instantiate an instance of a driver.
type Constructor func() ConsoleInput

// Register makes a console driver available, by name.
//
// When one needs to be created the constructor can be called
// to create an instance of it.
func Register(name string, obj Constructor) {
	// Downcase for consistency.
	name = strings.ToLower(name)

	handlers.m[name] = obj
}

// ConsoleIn holds our state, which is basically just a
// pointer to the object handling our input.
type ConsoleIn struct {

	// driver is the thing that actually reads our input.
	driver ConsoleInput

	// stuffed holds fake input which has been forced into the
	// buffer, and which is returned before the driver is consulted.
	stuffed string
}

// New is our constructor, it creates an input device which uses
// the specified driver.
func New(name string) (*ConsoleIn, error) {
	// Downcase for consistency.
	name = strings.ToLower(name)

	// Do we have a constructor with the given name?
	ctor, ok := handlers.m[name]
	if !ok {
		return nil, fmt.Errorf("failed to lookup driver by name '%s'", name)
	}

	// OK we do, return ourselves with that driver.
	return &ConsoleIn{
		driver: ctor(),
	}, nil
}

// GetDriver allows getting our driver at runtime.
func (ci *ConsoleIn) GetDriver() ConsoleInput {
	return ci.driver
}

// GetName returns the name of our selected driver.
func (ci *ConsoleIn) GetName() string {
	return ci.driver.GetName()
}

// GetDrivers returns all available driver-names, sorted.
//
// We hide the internal "error" driver.
func (ci *ConsoleIn) GetDrivers() []string {
	valid := []string{}

	for x := range handlers.m {
		if x != "error" {
			valid = append(valid, x)
		}
	}
	sort.Strings(valid)
	return valid
}

// Setup proxies into our registered console-input driver.
func (ci *ConsoleIn) Setup() error {
	return ci.driver.Setup()
}

// TearDown proxies into our registered console-input driver.
func (ci *ConsoleIn) TearDown() error {
	return ci.driver.TearDown()
}

// StuffInput inserts fake values into our input-buffer.
func (ci *ConsoleIn) StuffInput(input string) {
	ci.stuffed += input
}

// PendingInput returns true if there is pending input available to be read.
func (ci *ConsoleIn) PendingInput() bool {
	if len(ci.stuffed) > 0 {
		return true
	}
	return ci.driver.PendingInput()
}

// BlockForCharacterNoEcho returns the next character from the console,
// blocking until one is available.
func (ci *ConsoleIn) BlockForCharacterNoEcho() (byte, error) {
	if len(ci.stuffed) > 0 {
		c := ci.stuffed[0]
		ci.stuffed = ci.stuffed[1:]
		return c, nil
	}
	return ci.driver.BlockForCharacterNoEcho()
}

// Feed moves up to max bytes of pending input into the given queue,
// returning the number moved.
//
// Reading the QuitKey stops feeding and returns ErrInterrupted.
func (ci *ConsoleIn) Feed(q *keyboard.Queue, max int) (int, error) {
	n := 0
	for n < max && ci.PendingInput() {
		c, err := ci.BlockForCharacterNoEcho()
		if err != nil {
			return n, err
		}
		if c == QuitKey {
			return n, ErrInterrupted
		}
		q.Enqueue(c)
		n++
	}
	return n, nil
}
