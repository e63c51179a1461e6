package cpu

// in returns a handler for IN AL,imm8 (size 1) and IN AX,imm8 (size 2).
//
// The zero/sign/parity flags are updated from AX afterwards.
func in(size int) HandlerType {
	return func(c *CPU) error {
		b, err := c.operands(1)
		if err != nil {
			return err
		}
		v := c.bus.In(uint16(b[0]), size)
		if size == 1 {
			c.SetAL(uint8(v))
		} else {
			c.AX = v
		}
		c.Flags.UpdateFlags(c.AX)
		return nil
	}
}

// out returns a handler for OUT imm8,AL (size 1) and OUT imm8,AX (size 2).
func out(size int) HandlerType {
	return func(c *CPU) error {
		b, err := c.operands(1)
		if err != nil {
			return err
		}
		c.bus.Out(uint16(b[0]), size, c.AX)
		return nil
	}
}
