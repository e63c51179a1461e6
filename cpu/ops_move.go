package cpu

// movReg8Imm handles MOV r8,imm8 (0xB0-0xB7), which doesn't touch the flags.
func movReg8Imm(c *CPU) error {
	b, err := c.operands(1)
	if err != nil {
		return err
	}
	c.SetReg8(c.lastInstruction&7, b[0])
	return nil
}

// movReg16Imm handles MOV r16,imm16 (0xB8-0xBF).
func movReg16Imm(c *CPU) error {
	b, err := c.operands(2)
	if err != nil {
		return err
	}
	v := word(b)
	*c.Reg16(c.lastInstruction & 7) = v
	c.Flags.UpdateFlags(v)
	return nil
}

// movSegAX handles MOV Sreg,AX (0x8E).
func movSegAX(c *CPU) error {
	b, err := c.operands(1)
	if err != nil {
		return err
	}

	switch b[0] {
	case 0xD8:
		c.DS = c.AX
	case 0xC0:
		c.ES = c.AX
	case 0xD0:
		c.SS = c.AX
	default:
		return unsupported(b[0])
	}
	return nil
}

// direct reads a ModR/M byte which must select [disp16], and the
// displacement which follows it, along with extra immediate bytes.
func (c *CPU) direct(extra int) (uint16, []byte, error) {
	b, err := c.operands(3 + extra)
	if err != nil {
		return 0, nil, err
	}
	if b[0] != modrmDirect {
		return 0, nil, unsupported(b[0])
	}
	return word(b[1:3]), b[3:], nil
}

// movMemAX handles MOV [disp16],AX (0x89).
func movMemAX(c *CPU) error {
	addr, _, err := c.direct(0)
	if err != nil {
		return err
	}
	return c.writeWord(c.DS, addr, c.AX)
}

// movAXMem handles MOV AX,[disp16] (0x8B).
func movAXMem(c *CPU) error {
	addr, _, err := c.direct(0)
	if err != nil {
		return err
	}
	v, err := c.readWord(c.DS, addr)
	if err != nil {
		return err
	}
	c.AX = v
	c.Flags.UpdateFlags(v)
	return nil
}

// movALDirect handles MOV AL,[imm16] (0xA0).
func movALDirect(c *CPU) error {
	b, err := c.operands(2)
	if err != nil {
		return err
	}
	v, err := c.readByte(c.DS, word(b))
	if err != nil {
		return err
	}
	c.SetAL(v)
	return nil
}

// movAXDirect handles MOV AX,[imm16] (0xA1).
func movAXDirect(c *CPU) error {
	b, err := c.operands(2)
	if err != nil {
		return err
	}
	v, err := c.readWord(c.DS, word(b))
	if err != nil {
		return err
	}
	c.AX = v
	return nil
}

// movMemImm8 handles MOV byte [disp16],imm8 (0xC6).
func movMemImm8(c *CPU) error {
	addr, imm, err := c.direct(1)
	if err != nil {
		return err
	}
	return c.writeByte(c.DS, addr, imm[0])
}

// movMemImm16 handles MOV word [disp16],imm16 and MOV word [SI],imm16 (0xC7).
func movMemImm16(c *CPU) error {
	b, err := c.operands(1)
	if err != nil {
		return err
	}

	switch b[0] {
	case modrmDirect:
		ops, err := c.operands(4)
		if err != nil {
			return err
		}
		return c.writeWord(c.DS, word(ops[0:2]), word(ops[2:4]))

	case modrmSI:
		ops, err := c.operands(2)
		if err != nil {
			return err
		}
		return c.writeWord(c.DS, c.SI, word(ops))
	}
	return unsupported(b[0])
}

// lodsb handles LODSB (0xAC).
func lodsb(c *CPU) error {
	v, err := c.readByte(c.DS, c.SI)
	if err != nil {
		return err
	}
	c.SetAL(v)
	c.SI++
	return nil
}

// stosb handles STOSB (0xAA).
func stosb(c *CPU) error {
	if err := c.writeByte(c.ES, c.DI, c.AL()); err != nil {
		return err
	}
	c.DI++
	return nil
}
