package cpu

// jumpIf returns a handler for a two-byte relative jump, taken when
// cond returns true.  The displacement is relative to the end of the
// instruction.
func jumpIf(cond func(f Flags) bool) HandlerType {
	return func(c *CPU) error {
		b, err := c.operands(1)
		if err != nil {
			return err
		}
		if cond(c.Flags) {
			c.IP += uint16(int16(int8(b[0])))
		}
		return nil
	}
}

// jmpNear handles JMP rel16 (0xE9).
func jmpNear(c *CPU) error {
	b, err := c.operands(2)
	if err != nil {
		return err
	}
	c.IP = c.opcodeIP + 3 + word(b)
	return nil
}

// call handles CALL rel16 (0xE8).
//
// The return address pushed is that of the following instruction.
func call(c *CPU) error {
	b, err := c.operands(2)
	if err != nil {
		return err
	}
	next := c.opcodeIP + 3
	if err := c.Push(next); err != nil {
		return err
	}
	c.IP = next + word(b)
	return nil
}

// ret handles RET (0xC3).
func ret(c *CPU) error {
	ip, err := c.Pop()
	if err != nil {
		return err
	}
	c.IP = ip
	return nil
}

// push returns a handler which pushes the value get returns.
func push(get func(c *CPU) uint16) HandlerType {
	return func(c *CPU) error {
		return c.Push(get(c))
	}
}

// pop returns a handler which pops a value and passes it to set.
func pop(set func(c *CPU, v uint16)) HandlerType {
	return func(c *CPU) error {
		v, err := c.Pop()
		if err != nil {
			return err
		}
		set(c, v)
		return nil
	}
}

// intN handles INT imm8 (0xCD).
//
// IP is moved past the vector byte before the interrupt is taken, so
// IRET resumes at the following instruction.
func intN(c *CPU) error {
	b, err := c.operands(1)
	if err != nil {
		return err
	}
	n := b[0]

	if c.bios {
		if handler, ok := c.BIOS[n]; ok {
			return handler.Handler(c)
		}
	}
	return c.Interrupt(n)
}

// hlt handles HLT (0xF4).  IP is left pointing after the opcode.
func hlt(c *CPU) error {
	c.running = false
	return nil
}
