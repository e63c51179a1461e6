// Package pic models the tiny part of an 8259 programmable interrupt
// controller that our machine needs.
//
// Only a single line, IRQ1 (the keyboard), is ever raised.
package pic

const (
	// IRQKeyboard is the interrupt line used by the keyboard.
	IRQKeyboard = 1

	// DefaultMask is the value of IMR after reset; every line is
	// masked except for the keyboard.
	DefaultMask = 0xFD

	// EOI is the command byte which signals the end of an interrupt.
	EOI = 0x20

	// CommandPort and DataPort are the I/O ports of the controller.
	CommandPort = 0x20
	DataPort    = 0x21
)

// Controller holds the three registers of the PIC.
type Controller struct {
	// IRR is the interrupt request register.
	IRR uint8

	// ISR is the in-service register.
	ISR uint8

	// IMR is the interrupt mask register.
	IMR uint8
}

// New returns a controller in its reset state.
func New() *Controller {
	c := &Controller{}
	c.Reset()
	return c
}

// Reset clears pending and in-service requests, and restores the
// default mask.
func (c *Controller) Reset() {
	c.IRR = 0
	c.ISR = 0
	c.IMR = DefaultMask
}

// Raise records a request on the given line.
func (c *Controller) Raise(irq uint8) {
	c.IRR |= 1 << irq
}

// Pending returns true if the given line is requested and unmasked.
func (c *Controller) Pending(irq uint8) bool {
	return (c.IRR&^c.IMR)&(1<<irq) != 0
}

// Acknowledge clears the request for the given line.
func (c *Controller) Acknowledge(irq uint8) {
	c.IRR &^= 1 << irq
}

// Service marks the given line as being in service.
func (c *Controller) Service(irq uint8) {
	c.ISR |= 1 << irq
}

// EndOfInterrupt clears the in-service register entirely.
func (c *Controller) EndOfInterrupt() {
	c.ISR = 0
}

// Command handles a write to the command port.
//
// Only the non-specific EOI command is understood, anything else is
// reported as unhandled.
func (c *Controller) Command(value uint8) bool {
	if value != EOI {
		return false
	}
	c.EndOfInterrupt()
	return true
}
