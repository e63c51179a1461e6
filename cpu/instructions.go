package cpu

import "fmt"

// instructionTable returns the opcodes we implement, indexed by the
// opcode byte.
func instructionTable() map[uint8]Instruction {

	ins := make(map[uint8]Instruction)

	// MOV r8,imm8 and MOV r16,imm16 share a handler per width.
	for i := uint8(0); i < 8; i++ {
		ins[0xB0+i] = Instruction{
			Mnemonic: fmt.Sprintf("MOV %s,imm8", reg8Names[i]),
			Handler:  movReg8Imm,
		}
		ins[0xB8+i] = Instruction{
			Mnemonic: fmt.Sprintf("MOV %s,imm16", reg16Names[i]),
			Handler:  movReg16Imm,
		}
	}

	// Moves
	ins[0x8E] = Instruction{Mnemonic: "MOV Sreg,AX", Handler: movSegAX}
	ins[0x89] = Instruction{Mnemonic: "MOV [mem],AX", Handler: movMemAX}
	ins[0x8B] = Instruction{Mnemonic: "MOV AX,[mem]", Handler: movAXMem}
	ins[0xA0] = Instruction{Mnemonic: "MOV AL,[imm16]", Handler: movALDirect}
	ins[0xA1] = Instruction{Mnemonic: "MOV AX,[imm16]", Handler: movAXDirect}
	ins[0xC6] = Instruction{Mnemonic: "MOV byte [mem],imm8", Handler: movMemImm8}
	ins[0xC7] = Instruction{Mnemonic: "MOV word [mem],imm16", Handler: movMemImm16}
	ins[0xAC] = Instruction{Mnemonic: "LODSB", Handler: lodsb}
	ins[0xAA] = Instruction{Mnemonic: "STOSB", Handler: stosb}

	// Arithmetic
	ins[0x01] = Instruction{Mnemonic: "ADD r/m16,AX", Handler: addRM}
	ins[0x03] = Instruction{Mnemonic: "ADD AX,[mem]", Handler: addAXMem}
	ins[0x05] = Instruction{Mnemonic: "ADD AX,imm16", Handler: addAXImm}
	ins[0x29] = Instruction{Mnemonic: "SUB AX,BX", Handler: subAXBX}
	ins[0x2B] = Instruction{Mnemonic: "SUB AX,[mem]", Handler: subAXMem}
	ins[0x2D] = Instruction{Mnemonic: "SUB AX,imm16", Handler: subAXImm}
	ins[0x3B] = Instruction{Mnemonic: "CMP AX,r/m16", Handler: cmpAXRM}
	ins[0x3C] = Instruction{Mnemonic: "CMP AL,imm8", Handler: cmpALImm}
	ins[0x83] = Instruction{Mnemonic: "CMP AX,imm8", Handler: cmpAXImm8}
	ins[0x31] = Instruction{Mnemonic: "XOR r/m16,r16", Handler: xorRMReg}
	ins[0x33] = Instruction{Mnemonic: "XOR r16,r/m16", Handler: xorRegRM}
	ins[0xFE] = Instruction{Mnemonic: "INC/DEC byte [mem]", Handler: incDecMem}
	ins[0xF6] = Instruction{Mnemonic: "MUL r/m8", Handler: mul8}

	// Control flow
	ins[0x72] = Instruction{Mnemonic: "JC rel8", Handler: jumpIf(func(f Flags) bool { return f.Carry })}
	ins[0x73] = Instruction{Mnemonic: "JNC rel8", Handler: jumpIf(func(f Flags) bool { return !f.Carry })}
	ins[0x74] = Instruction{Mnemonic: "JE rel8", Handler: jumpIf(func(f Flags) bool { return f.Zero })}
	ins[0x75] = Instruction{Mnemonic: "JNE rel8", Handler: jumpIf(func(f Flags) bool { return !f.Zero })}
	ins[0x77] = Instruction{Mnemonic: "JA rel8", Handler: jumpIf(func(f Flags) bool { return !f.Carry && !f.Zero })}
	ins[0xE9] = Instruction{Mnemonic: "JMP rel16", Handler: jmpNear}
	ins[0xEB] = Instruction{Mnemonic: "JMP rel8", Handler: jumpIf(func(f Flags) bool { return true })}
	ins[0xE8] = Instruction{Mnemonic: "CALL rel16", Handler: call}
	ins[0xC3] = Instruction{Mnemonic: "RET", Handler: ret}

	// Stack
	ins[0x50] = Instruction{Mnemonic: "PUSH AX", Handler: push(func(c *CPU) uint16 { return c.AX })}
	ins[0x0E] = Instruction{Mnemonic: "PUSH CS", Handler: push(func(c *CPU) uint16 { return c.CS })}
	ins[0x58] = Instruction{Mnemonic: "POP AX", Handler: pop(func(c *CPU, v uint16) { c.AX = v })}
	ins[0x1F] = Instruction{Mnemonic: "POP DS", Handler: pop(func(c *CPU, v uint16) { c.DS = v })}
	ins[0x07] = Instruction{Mnemonic: "POP ES", Handler: pop(func(c *CPU, v uint16) { c.ES = v })}

	// I/O
	ins[0xE4] = Instruction{Mnemonic: "IN AL,imm8", Handler: in(1)}
	ins[0xE5] = Instruction{Mnemonic: "IN AX,imm8", Handler: in(2)}
	ins[0xE6] = Instruction{Mnemonic: "OUT imm8,AL", Handler: out(1)}
	ins[0xE7] = Instruction{Mnemonic: "OUT imm8,AX", Handler: out(2)}

	// Interrupts and processor control
	ins[0xCD] = Instruction{Mnemonic: "INT imm8", Handler: intN}
	ins[0xCF] = Instruction{Mnemonic: "IRET", Handler: func(c *CPU) error { return c.iret() }}
	ins[0xFA] = Instruction{Mnemonic: "CLI", Handler: func(c *CPU) error { c.Flags.Interrupt = false; return nil }}
	ins[0xFB] = Instruction{Mnemonic: "STI", Handler: func(c *CPU) error { c.Flags.Interrupt = true; return nil }}
	ins[0xF4] = Instruction{Mnemonic: "HLT", Handler: hlt}

	return ins
}

// unsupported returns the error for an operand encoding we don't handle.
func unsupported(modrm uint8) error {
	return fmt.Errorf("%w: 0x%02X", ErrUnsupportedModRM, modrm)
}

// Values of the ModR/M byte we understand.
const (
	modrmDirect = 0x06 // [disp16], reg field zero
	modrmSI     = 0x04 // [SI], reg field zero
)

// registerForm returns true if the ModR/M byte has mod=11.
func registerForm(modrm uint8) bool {
	return modrm&0xC0 == 0xC0
}
