package cpu

import "strings"

// Flags holds the processor flags we model.
type Flags struct {
	Carry     bool
	Zero      bool
	Sign      bool
	Overflow  bool
	Parity    bool
	Auxiliary bool
	Interrupt bool
}

// Bit positions of the flags within the packed word which is pushed
// by interrupts and restored by IRET.
const (
	FlagCarry = 1 << iota
	FlagZero
	FlagSign
	FlagOverflow
	FlagParity
	FlagAuxiliary
	FlagInterrupt
)

// evenParity returns true if the byte has an even number of set bits.
func evenParity(v uint8) bool {
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v&1 == 0
}

// UpdateFlags sets zero, sign, and parity from a 16-bit result.
//
// Parity is set when the low byte contains an even number of set bits.
// No other flags are changed.
func (f *Flags) UpdateFlags(result uint16) {
	f.Zero = result == 0
	f.Sign = result&0x8000 != 0
	f.Parity = evenParity(uint8(result))
}

// UpdateFlags8 sets zero, sign, and parity from an 8-bit result.
func (f *Flags) UpdateFlags8(result uint8) {
	f.Zero = result == 0
	f.Sign = result&0x80 != 0
	f.Parity = evenParity(result)
}

// Pack returns the flags as a word.
func (f *Flags) Pack() uint16 {
	var v uint16
	set := func(b bool, mask uint16) {
		if b {
			v |= mask
		}
	}
	set(f.Carry, FlagCarry)
	set(f.Zero, FlagZero)
	set(f.Sign, FlagSign)
	set(f.Overflow, FlagOverflow)
	set(f.Parity, FlagParity)
	set(f.Auxiliary, FlagAuxiliary)
	set(f.Interrupt, FlagInterrupt)
	return v
}

// Unpack restores the flags from a word produced by Pack.
func (f *Flags) Unpack(v uint16) {
	f.Carry = v&FlagCarry != 0
	f.Zero = v&FlagZero != 0
	f.Sign = v&FlagSign != 0
	f.Overflow = v&FlagOverflow != 0
	f.Parity = v&FlagParity != 0
	f.Auxiliary = v&FlagAuxiliary != 0
	f.Interrupt = v&FlagInterrupt != 0
}

// String returns the flags in a compact form, upper-case for set
// flags, suitable for status displays.
func (f Flags) String() string {
	var sb strings.Builder
	show := func(b bool, c byte) {
		if b {
			sb.WriteByte(c)
		} else {
			sb.WriteByte(c + 'a' - 'A')
		}
	}
	show(f.Carry, 'C')
	show(f.Zero, 'Z')
	show(f.Sign, 'S')
	show(f.Overflow, 'O')
	show(f.Parity, 'P')
	show(f.Auxiliary, 'A')
	show(f.Interrupt, 'I')
	return sb.String()
}
