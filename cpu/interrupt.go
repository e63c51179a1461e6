package cpu

import (
	"fmt"
	"log/slog"

	"github.com/skx/emu8086/pic"
)

// Vector returns the segment and offset stored in the given entry of
// the interrupt vector table.
func (c *CPU) Vector(n uint8) (uint16, uint16, error) {
	addr := uint32(n) * 4
	off, err := c.mem.GetU16(addr)
	if err != nil {
		return 0, 0, err
	}
	seg, err := c.mem.GetU16(addr + 2)
	if err != nil {
		return 0, 0, err
	}
	return seg, off, nil
}

// SetVector updates the given entry of the interrupt vector table.
func (c *CPU) SetVector(n uint8, seg, off uint16) error {
	addr := uint32(n) * 4
	if err := c.mem.SetU16(addr, off); err != nil {
		return err
	}
	return c.mem.SetU16(addr+2, seg)
}

// Interrupt dispatches the given interrupt vector.
//
// Nothing happens if interrupts are disabled.  Otherwise FLAGS, CS,
// and IP are pushed, in that order, CS:IP is loaded from the vector
// table, interrupts are disabled, and the keyboard line is marked as
// in-service - for software interrupts too.
func (c *CPU) Interrupt(n uint8) error {

	if !c.Flags.Interrupt {
		return nil
	}

	seg, off, err := c.Vector(n)
	if err != nil {
		return err
	}

	for _, v := range []uint16{c.Flags.Pack(), c.CS, c.IP} {
		if err := c.Push(v); err != nil {
			return err
		}
	}

	c.logger.Debug("interrupt",
		slog.String("vector", fmt.Sprintf("0x%02X", n)),
		slog.String("from", fmt.Sprintf("%04X:%04X", c.CS, c.IP)),
		slog.String("to", fmt.Sprintf("%04X:%04X", seg, off)))

	c.CS = seg
	c.IP = off
	c.Flags.Interrupt = false
	c.pic.Service(pic.IRQKeyboard)
	return nil
}

// pollKeyboard raises IRQ1 if there are keys waiting, and dispatches
// the keyboard interrupt if it is enabled and unmasked.
func (c *CPU) pollKeyboard() error {

	if !c.keyboard.Empty() {
		c.pic.Raise(pic.IRQKeyboard)
		c.keyboard.SetAvailable()
	}

	if !c.Flags.Interrupt || !c.pic.Pending(pic.IRQKeyboard) {
		return nil
	}

	if err := c.Interrupt(KeyboardVector); err != nil {
		return err
	}
	c.pic.Acknowledge(pic.IRQKeyboard)
	return nil
}

// iret returns from an interrupt handler.
func (c *CPU) iret() error {
	ip, err := c.Pop()
	if err != nil {
		return err
	}
	cs, err := c.Pop()
	if err != nil {
		return err
	}
	flags, err := c.Pop()
	if err != nil {
		return err
	}

	c.IP = ip
	c.CS = cs
	c.Flags.Unpack(flags)
	c.pic.EndOfInterrupt()
	return nil
}
