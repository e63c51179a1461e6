// Package consoleout is an abstraction over console output.
//
// The emulated machine has a memory-mapped display, so rather than
// writing characters we periodically hand a snapshot of the display to
// a driver which draws it.  Drivers are created by name, which lets the
// user choose between a plain ANSI terminal, termbox, and the internal
// drivers used for testing.
package consoleout

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/skx/emu8086/video"
)

// ConsoleOutput is the interface that must be implemented by anything
// that wishes to be used as a console driver.
//
// Providing this interface is implemented an object may register itself,
// by name, via the Register method.
type ConsoleOutput interface {

	// Setup performs any specific setup which is required.
	Setup() error

	// TearDown performs any specific cleanup which is required.
	TearDown() error

	// Render draws the given frame, along with a single line of status
	// information beneath it.
	Render(frame video.Frame, status string)

	// GetName will return the name of the driver.
	GetName() string

	// SetWriter will update the writer.
	//
	// The writer will default to STDOUT, drivers which own the terminal
	// may ignore it.
	SetWriter(io.Writer)
}

// ConsoleRecorder is an interface that allows returning the contents that
// have been previously sent to the console.
//
// This is used solely for integration tests.
type ConsoleRecorder interface {

	// GetOutput returns the contents which have been displayed.
	GetOutput() string

	// Reset removes any stored state.
	Reset()
}

// This is a map of known-drivers
var handlers = struct {
	m map[string]Constructor
}{m: make(map[string]Constructor)}

// Constructor is the signature of a constructor-function
// which is used to instantiate an instance of a driver.
type Constructor func() ConsoleOutput

// Register makes a console driver available, by name.
//
// When one needs to be created the constructor can be called
// to create an instance of it.
func Register(name string, obj Constructor) {
	// Downcase for consistency.
	name = strings.ToLower(name)

	handlers.m[name] = obj
}

// ConsoleOut holds our state, which is basically just a
// pointer to the object handling our output.
type ConsoleOut struct {

	// driver is the thing that actually writes our output.
	driver ConsoleOutput
}

// New is our constructor, it creates an output device which uses
// the specified driver.
func New(name string) (*ConsoleOut, error) {
	// Downcase for consistency.
	name = strings.ToLower(name)

	// Do we have a constructor with the given name?
	ctor, ok := handlers.m[name]
	if !ok {
		return nil, fmt.Errorf("failed to lookup driver by name '%s'", name)
	}

	// OK we do, return ourselves with that driver.
	return &ConsoleOut{
		driver: ctor(),
	}, nil
}

// GetDriver allows getting our driver at runtime.
func (co *ConsoleOut) GetDriver() ConsoleOutput {
	return co.driver
}

// ChangeDriver allows changing our driver at runtime.
//
// The new driver has not been setup, and the old one has not been
// torn down; that is left to the caller.
func (co *ConsoleOut) ChangeDriver(name string) error {

	// Do we have a constructor with the given name?
	ctor, ok := handlers.m[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("failed to lookup driver by name '%s'", name)
	}

	// change the driver by creating a new object
	co.driver = ctor()
	return nil
}

// GetName returns the name of our selected driver.
func (co *ConsoleOut) GetName() string {
	return co.driver.GetName()
}

// GetDrivers returns all available driver-names, sorted.
//
// We hide the internal "null", and "logger" drivers.
func (co *ConsoleOut) GetDrivers() []string {
	valid := []string{}

	for x := range handlers.m {
		if x != "null" && x != "logger" {
			valid = append(valid, x)
		}
	}
	sort.Strings(valid)
	return valid
}

// Setup proxies into our registered console-output driver.
func (co *ConsoleOut) Setup() error {
	return co.driver.Setup()
}

// TearDown proxies into our registered console-output driver.
func (co *ConsoleOut) TearDown() error {
	return co.driver.TearDown()
}

// Render draws a frame, using our selected driver.
func (co *ConsoleOut) Render(frame video.Frame, status string) {
	co.driver.Render(frame, status)
}
