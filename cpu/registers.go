package cpu

// Registers holds the general-purpose, segment, and instruction-pointer
// registers.  All values wrap modulo 65536.
type Registers struct {
	AX, BX, CX, DX uint16
	SI, DI, BP, SP uint16
	CS, DS, ES, SS uint16
	IP             uint16
}

// AL returns the low byte of AX.
func (r *Registers) AL() uint8 { return uint8(r.AX) }

// AH returns the high byte of AX.
func (r *Registers) AH() uint8 { return uint8(r.AX >> 8) }

// BL returns the low byte of BX.
func (r *Registers) BL() uint8 { return uint8(r.BX) }

// BH returns the high byte of BX.
func (r *Registers) BH() uint8 { return uint8(r.BX >> 8) }

// CL returns the low byte of CX.
func (r *Registers) CL() uint8 { return uint8(r.CX) }

// CH returns the high byte of CX.
func (r *Registers) CH() uint8 { return uint8(r.CX >> 8) }

// DL returns the low byte of DX.
func (r *Registers) DL() uint8 { return uint8(r.DX) }

// DH returns the high byte of DX.
func (r *Registers) DH() uint8 { return uint8(r.DX >> 8) }

// SetAL updates the low byte of AX.
func (r *Registers) SetAL(v uint8) { r.AX = setLow(r.AX, v) }

// SetAH updates the high byte of AX.
func (r *Registers) SetAH(v uint8) { r.AX = setHigh(r.AX, v) }

// SetBL updates the low byte of BX.
func (r *Registers) SetBL(v uint8) { r.BX = setLow(r.BX, v) }

// SetBH updates the high byte of BX.
func (r *Registers) SetBH(v uint8) { r.BX = setHigh(r.BX, v) }

// SetCL updates the low byte of CX.
func (r *Registers) SetCL(v uint8) { r.CX = setLow(r.CX, v) }

// SetCH updates the high byte of CX.
func (r *Registers) SetCH(v uint8) { r.CX = setHigh(r.CX, v) }

// SetDL updates the low byte of DX.
func (r *Registers) SetDL(v uint8) { r.DX = setLow(r.DX, v) }

// SetDH updates the high byte of DX.
func (r *Registers) SetDH(v uint8) { r.DX = setHigh(r.DX, v) }

func setLow(w uint16, v uint8) uint16 {
	return (w & 0xFF00) | uint16(v)
}

func setHigh(w uint16, v uint8) uint16 {
	return (w & 0x00FF) | uint16(v)<<8
}

// Reg16 returns a pointer to the 16-bit register with the given
// encoding: AX CX DX BX SP BP SI DI.
func (r *Registers) Reg16(n uint8) *uint16 {
	switch n & 7 {
	case 0:
		return &r.AX
	case 1:
		return &r.CX
	case 2:
		return &r.DX
	case 3:
		return &r.BX
	case 4:
		return &r.SP
	case 5:
		return &r.BP
	case 6:
		return &r.SI
	}
	return &r.DI
}

// Reg8 returns the 8-bit register with the given encoding:
// AL CL DL BL AH CH DH BH.
func (r *Registers) Reg8(n uint8) uint8 {
	w := *r.Reg16(n & 3)
	if n&4 != 0 {
		return uint8(w >> 8)
	}
	return uint8(w)
}

// SetReg8 updates the 8-bit register with the given encoding.
func (r *Registers) SetReg8(n uint8, v uint8) {
	w := r.Reg16(n & 3)
	if n&4 != 0 {
		*w = setHigh(*w, v)
		return
	}
	*w = setLow(*w, v)
}

// reg16Names and reg8Names are indexed by register encoding.
var (
	reg16Names = [8]string{"AX", "CX", "DX", "BX", "SP", "BP", "SI", "DI"}
	reg8Names  = [8]string{"AL", "CL", "DL", "BL", "AH", "CH", "DH", "BH"}
)
