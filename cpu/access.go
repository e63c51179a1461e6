package cpu

import (
	"github.com/skx/emu8086/memory"
)

// operands returns the n bytes following the opcode, and moves IP
// past them.  If any of them lie outside memory nothing is consumed.
func (c *CPU) operands(n int) ([]byte, error) {
	b, err := c.mem.Read(memory.Translate(c.CS, c.IP), n)
	if err != nil {
		return nil, err
	}
	c.IP += uint16(n)
	return b, nil
}

// word decodes a little-endian word.
func word(b []byte) uint16 {
	return uint16(b[1])<<8 | uint16(b[0])
}

// readByte reads a byte from seg:off.
func (c *CPU) readByte(seg, off uint16) (uint8, error) {
	return c.mem.Get(memory.Translate(seg, off))
}

// readWord reads a word from seg:off.
func (c *CPU) readWord(seg, off uint16) (uint16, error) {
	return c.mem.GetU16(memory.Translate(seg, off))
}

// writeByte stores a byte at seg:off, via the video adapter so that
// graphics-mode stores reach the display.
func (c *CPU) writeByte(seg, off uint16, v uint8) error {
	return c.video.WriteByte(c.mem, memory.Translate(seg, off), v)
}

// writeWord stores a word at seg:off.
func (c *CPU) writeWord(seg, off uint16, v uint16) error {
	addr := memory.Translate(seg, off)
	if err := c.mem.Check(addr, 2); err != nil {
		return err
	}
	if err := c.video.WriteByte(c.mem, addr, uint8(v)); err != nil {
		return err
	}
	return c.video.WriteByte(c.mem, addr+1, uint8(v>>8))
}
