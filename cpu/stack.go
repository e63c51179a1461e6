package cpu

import (
	"github.com/skx/emu8086/memory"
)

// Push decrements SP and stores the value at SS:SP.
//
// SP is decremented even if the store fails; the failure halts the
// processor so the difference is only visible in the final state.
func (c *CPU) Push(v uint16) error {
	c.SP -= 2
	return c.mem.SetU16(memory.Translate(c.SS, c.SP), v)
}

// Pop reads the value at SS:SP and increments SP.
//
// SP is unchanged if the read fails.
func (c *CPU) Pop() (uint16, error) {
	v, err := c.mem.GetU16(memory.Translate(c.SS, c.SP))
	if err != nil {
		return 0, err
	}
	c.SP += 2
	return v, nil
}
