package cpu

// add returns a+b, setting carry from the untruncated sum and
// zero/sign/parity from the result.
func (c *CPU) add(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b)
	c.Flags.Carry = sum > 0xFFFF
	c.Flags.UpdateFlags(uint16(sum))
	return uint16(sum)
}

// sub returns a-b, setting carry on borrow and zero/sign/parity from
// the result.  CMP uses it too, discarding the result.
func (c *CPU) sub(a, b uint16) uint16 {
	diff := a - b
	c.Flags.Carry = b > a
	c.Flags.UpdateFlags(diff)
	return diff
}

// addRM handles ADD AX,BX (mod=11) and ADD [disp16],AX (0x01).
//
// The register form always adds BX to AX, whatever registers the
// ModR/M byte names.
func addRM(c *CPU) error {
	b, err := c.operands(1)
	if err != nil {
		return err
	}
	modrm := b[0]

	if registerForm(modrm) {
		c.AX = c.add(c.AX, c.BX)
		return nil
	}
	if modrm != modrmDirect {
		return unsupported(modrm)
	}

	d, err := c.operands(2)
	if err != nil {
		return err
	}
	addr := word(d)
	v, err := c.readWord(c.DS, addr)
	if err != nil {
		return err
	}
	return c.writeWord(c.DS, addr, c.add(v, c.AX))
}

// addAXMem handles ADD AX,[disp16] and ADD AX,[SI] (0x03).
func addAXMem(c *CPU) error {
	b, err := c.operands(1)
	if err != nil {
		return err
	}

	var addr uint16
	switch b[0] {
	case modrmDirect:
		d, err := c.operands(2)
		if err != nil {
			return err
		}
		addr = word(d)
	case modrmSI:
		addr = c.SI
	default:
		return unsupported(b[0])
	}

	v, err := c.readWord(c.DS, addr)
	if err != nil {
		return err
	}
	c.AX = c.add(c.AX, v)
	return nil
}

// addAXImm handles ADD AX,imm16 (0x05).
func addAXImm(c *CPU) error {
	b, err := c.operands(2)
	if err != nil {
		return err
	}
	c.AX = c.add(c.AX, word(b))
	return nil
}

// subAXBX handles SUB AX,BX (0x29), register form only.
func subAXBX(c *CPU) error {
	b, err := c.operands(1)
	if err != nil {
		return err
	}
	if !registerForm(b[0]) {
		return unsupported(b[0])
	}
	c.AX = c.sub(c.AX, c.BX)
	return nil
}

// subAXMem handles SUB AX,[disp16] (0x2B).
func subAXMem(c *CPU) error {
	addr, _, err := c.direct(0)
	if err != nil {
		return err
	}
	v, err := c.readWord(c.DS, addr)
	if err != nil {
		return err
	}
	c.AX = c.sub(c.AX, v)
	return nil
}

// subAXImm handles SUB AX,imm16 (0x2D).
func subAXImm(c *CPU) error {
	b, err := c.operands(2)
	if err != nil {
		return err
	}
	c.AX = c.sub(c.AX, word(b))
	return nil
}

// cmpAXRM handles CMP AX,BX (mod=11) and CMP AX,[disp16] (0x3B).
func cmpAXRM(c *CPU) error {
	b, err := c.operands(1)
	if err != nil {
		return err
	}
	modrm := b[0]

	if registerForm(modrm) {
		c.sub(c.AX, c.BX)
		return nil
	}
	if modrm != modrmDirect {
		return unsupported(modrm)
	}

	d, err := c.operands(2)
	if err != nil {
		return err
	}
	v, err := c.readWord(c.DS, word(d))
	if err != nil {
		return err
	}
	c.sub(c.AX, v)
	return nil
}

// cmpALImm handles CMP AL,imm8 (0x3C).
func cmpALImm(c *CPU) error {
	b, err := c.operands(1)
	if err != nil {
		return err
	}
	al := c.AL()
	c.Flags.Carry = b[0] > al
	c.Flags.UpdateFlags8(al - b[0])
	return nil
}

// cmpAXImm8 handles CMP AX,imm8 (0x83 /7 with mod=11); the immediate
// is sign-extended to a word.
func cmpAXImm8(c *CPU) error {
	b, err := c.operands(2)
	if err != nil {
		return err
	}
	if b[0]&0xF8 != 0xF8 {
		return unsupported(b[0])
	}
	c.sub(c.AX, uint16(int16(int8(b[1]))))
	return nil
}

// xorRMReg handles XOR r16,r16 (0x31): the r/m operand is the destination.
func xorRMReg(c *CPU) error {
	b, err := c.operands(1)
	if err != nil {
		return err
	}
	modrm := b[0]
	if !registerForm(modrm) {
		return unsupported(modrm)
	}
	c.xor(c.Reg16(modrm&7), *c.Reg16(modrm >> 3))
	return nil
}

// xorRegRM handles XOR r16,r16 (0x33): the reg operand is the destination.
func xorRegRM(c *CPU) error {
	b, err := c.operands(1)
	if err != nil {
		return err
	}
	modrm := b[0]
	if !registerForm(modrm) {
		return unsupported(modrm)
	}
	c.xor(c.Reg16(modrm>>3), *c.Reg16(modrm & 7))
	return nil
}

// xor updates *dst, clearing carry and overflow.
func (c *CPU) xor(dst *uint16, src uint16) {
	*dst ^= src
	c.Flags.Carry = false
	c.Flags.Overflow = false
	c.Flags.UpdateFlags(*dst)
}

// incDecMem handles INC byte [disp16] (ModR/M 0x06) and DEC byte
// [disp16] (ModR/M 0x0E) (0xFE).  Carry is not affected.
func incDecMem(c *CPU) error {
	b, err := c.operands(3)
	if err != nil {
		return err
	}

	var delta uint8
	switch b[0] {
	case 0x06:
		delta = 1
	case 0x0E:
		delta = 0xFF
	default:
		return unsupported(b[0])
	}

	addr := word(b[1:3])
	v, err := c.readByte(c.DS, addr)
	if err != nil {
		return err
	}
	v += delta
	if err := c.writeByte(c.DS, addr, v); err != nil {
		return err
	}
	c.Flags.UpdateFlags8(v)
	return nil
}

// mul8 handles MUL r8 (mod=11) and MUL byte [BX] (ModR/M 0x27) (0xF6 /4).
//
// AX receives AL multiplied by the operand; carry and overflow are set
// when the high byte of the product is non-zero.
func mul8(c *CPU) error {
	b, err := c.operands(1)
	if err != nil {
		return err
	}
	modrm := b[0]
	if modrm&0x38 != 0x20 {
		return unsupported(modrm)
	}

	var src uint8
	switch {
	case registerForm(modrm):
		src = c.Reg8(modrm & 7)
	case modrm == 0x27:
		src, err = c.readByte(c.DS, c.BX)
		if err != nil {
			return err
		}
	default:
		return unsupported(modrm)
	}

	c.AX = uint16(c.AL()) * uint16(src)
	c.Flags.Carry = c.AH() != 0
	c.Flags.Overflow = c.Flags.Carry
	return nil
}
