package cpu

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/skx/emu8086/memory"
	"github.com/skx/emu8086/pic"
	"github.com/skx/emu8086/video"
)

// newCPU returns a processor with the given code loaded at the reset IP.
func newCPU(t *testing.T, code ...byte) *CPU {
	t.Helper()

	c, err := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("failed to create CPU: %s", err)
	}
	if err := c.LoadImage(code); err != nil {
		t.Fatalf("failed to load code: %s", err)
	}
	return c
}

// TestReset ensures the power-on state is correct.
func TestReset(t *testing.T) {

	c := newCPU(t)

	if c.IP != 0x0100 || c.SP != 0x7000 {
		t.Fatalf("wrong IP/SP %04X/%04X", c.IP, c.SP)
	}
	if c.AX != 0 || c.CS != 0 || c.DS != 0 || c.SS != 0 {
		t.Fatalf("registers not zeroed")
	}
	if c.Flags != (Flags{Interrupt: true}) {
		t.Fatalf("wrong flags %s", c.Flags)
	}
	if !c.Running() || c.LastError() != nil {
		t.Fatalf("not running")
	}
	if c.PIC().IMR != 0xFD {
		t.Fatalf("wrong mask %02X", c.PIC().IMR)
	}

	// Every vector is 0000:0100
	for _, n := range []uint32{0, 9, 255} {
		b, err := c.Memory().Read(n*4, 4)
		if err != nil {
			t.Fatalf("unexpected error %s", err)
		}
		if !bytes.Equal(b, []byte{0x00, 0x01, 0x00, 0x00}) {
			t.Fatalf("vector %d has % X", n, b)
		}
	}

	// The display is blank
	f := c.Frame()
	ch, attr := f.Cell(79, 24)
	if ch != ' ' || attr != 0x07 || f.Mode != video.ModeText {
		t.Fatalf("display not reset")
	}

	// Reset after changes
	c.AX = 0x1234
	c.Halt()
	c.Keyboard().Enqueue('x')
	if err := c.Reset(); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if c.AX != 0 || !c.Running() || !c.Keyboard().Empty() {
		t.Fatalf("reset didn't reset")
	}
}

// TestOptions ensures bogus options are rejected.
func TestOptions(t *testing.T) {

	_, err := New(WithLogger(nil))
	if err == nil {
		t.Fatalf("expected an error with a nil logger")
	}

	c, err := New(WithBIOS(true))
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if !c.bios {
		t.Fatalf("BIOS option not applied")
	}
}

// TestUpdateFlags tests the zero/sign/parity updater.
func TestUpdateFlags(t *testing.T) {

	type TestCase struct {
		in     uint16
		zero   bool
		sign   bool
		parity bool
	}

	tests := []TestCase{
		{0x0000, true, false, true},
		{0x0001, false, false, false},
		{0x0003, false, false, true},
		{0x00FF, false, false, true},
		{0x8000, false, true, true},
		{0xFF01, false, true, false},
		{0x1234, false, false, false},
	}

	for _, test := range tests {
		f := Flags{Carry: true, Overflow: true, Auxiliary: true}
		f.UpdateFlags(test.in)

		if f.Zero != test.zero || f.Sign != test.sign || f.Parity != test.parity {
			t.Fatalf("%04X: got %s", test.in, f)
		}
		if !f.Carry || !f.Overflow || !f.Auxiliary {
			t.Fatalf("%04X: other flags changed: %s", test.in, f)
		}
	}

	// Every value, against a slow count of bits
	for v := 0; v <= 0xFFFF; v++ {
		f := Flags{}
		f.UpdateFlags(uint16(v))

		bits := 0
		for i := 0; i < 8; i++ {
			if v&(1<<i) != 0 {
				bits++
			}
		}
		if f.Parity != (bits%2 == 0) {
			t.Fatalf("%04X: wrong parity", v)
		}
		if f.Zero != (v == 0) || f.Sign != (v&0x8000 != 0) {
			t.Fatalf("%04X: wrong zero/sign", v)
		}
	}

	f := Flags{}
	f.UpdateFlags8(0x80)
	if !f.Sign || f.Zero || f.Parity {
		t.Fatalf("wrong 8-bit flags %s", f)
	}
}

// TestPack ensures flags survive a round-trip through a word.
func TestPack(t *testing.T) {

	f := Flags{Carry: true, Sign: true, Interrupt: true}
	if f.Pack() != 0x45 {
		t.Fatalf("wrong packed value %04X", f.Pack())
	}

	for v := uint16(0); v < 0x80; v++ {
		var f Flags
		f.Unpack(v)
		if f.Pack() != v {
			t.Fatalf("%02X became %02X", v, f.Pack())
		}
	}

	if (Flags{Zero: true}).String() != "cZsopai" {
		t.Fatalf("wrong string %s", Flags{Zero: true})
	}
}

// TestRegisters tests the byte accessors.
func TestRegisters(t *testing.T) {

	var r Registers
	r.AX = 0x1234
	r.SetAL(0xFF)
	if r.AX != 0x12FF || r.AL() != 0xFF || r.AH() != 0x12 {
		t.Fatalf("wrong AX %04X", r.AX)
	}
	r.SetAH(0x00)
	if r.AX != 0x00FF {
		t.Fatalf("wrong AX %04X", r.AX)
	}

	r.SetBL(1)
	r.SetBH(2)
	r.SetCL(3)
	r.SetCH(4)
	r.SetDL(5)
	r.SetDH(6)
	if r.BX != 0x0201 || r.CX != 0x0403 || r.DX != 0x0605 {
		t.Fatalf("wrong registers %+v", r)
	}
	if r.BL() != 1 || r.BH() != 2 || r.CL() != 3 || r.CH() != 4 || r.DL() != 5 || r.DH() != 6 {
		t.Fatalf("wrong byte accessors")
	}

	// Encoding order
	for i, want := range []uint8{0xFF, 3, 5, 1, 0, 4, 6, 2} {
		if got := r.Reg8(uint8(i)); got != want {
			t.Fatalf("%s: got %02X, expected %02X", reg8Names[i], got, want)
		}
	}
	r.SetReg8(7, 0x99)
	if r.BX != 0x9901 {
		t.Fatalf("SetReg8(BH) failed %04X", r.BX)
	}

	*r.Reg16(4) = 0x1111
	*r.Reg16(7) = 0x2222
	if r.SP != 0x1111 || r.DI != 0x2222 {
		t.Fatalf("Reg16 returned the wrong register")
	}
}

// TestPushPop ensures values round-trip through the stack.
func TestPushPop(t *testing.T) {

	c := newCPU(t)

	for _, v := range []uint16{0x0000, 0x1234, 0xFFFF, 0x8001} {
		sp := c.SP
		if err := c.Push(v); err != nil {
			t.Fatalf("unexpected error %s", err)
		}
		if c.SP != sp-2 {
			t.Fatalf("SP not decremented")
		}
		got, err := c.Pop()
		if err != nil {
			t.Fatalf("unexpected error %s", err)
		}
		if got != v || c.SP != sp {
			t.Fatalf("%04X came back as %04X, SP %04X", v, got, c.SP)
		}
	}

	// Little-endian
	_ = c.Push(0xABCD)
	b, _ := c.Memory().Read(memory.Translate(c.SS, c.SP), 2)
	if b[0] != 0xCD || b[1] != 0xAB {
		t.Fatalf("stack stored % X", b)
	}
}

// TestStackFault ensures the stack can't run off the end of memory.
func TestStackFault(t *testing.T) {

	// PUSH AX
	c := newCPU(t, 0x50)
	c.SS = 0xFFFF
	c.SP = 0x0012

	err := c.Step()
	var mf *memory.Fault
	if !errors.As(err, &mf) {
		t.Fatalf("expected a memory fault, got %v", err)
	}
	if mf.Addr != 0x100000 {
		t.Fatalf("wrong fault address %05X", mf.Addr)
	}
	if c.Running() {
		t.Fatalf("still running")
	}

	// A failing pop leaves SP alone
	c = newCPU(t)
	c.SS = 0xFFFF
	c.SP = 0x0010
	if _, err := c.Pop(); err == nil {
		t.Fatalf("expected an error")
	}
	if c.SP != 0x0010 {
		t.Fatalf("SP changed on a failed pop")
	}
}

// TestCallRet ensures RET returns to the instruction after the CALL.
func TestCallRet(t *testing.T) {

	for _, rel := range []uint16{0x0010, 0x0000, 0xFFF0} {

		// CALL rel16, with a RET at the target
		c := newCPU(t, 0xE8, uint8(rel), uint8(rel>>8))
		target := 0x0103 + rel
		if err := c.Memory().Set(uint32(target), 0xC3); err != nil {
			t.Fatalf("unexpected error %s", err)
		}

		if err := c.Step(); err != nil {
			t.Fatalf("unexpected error %s", err)
		}
		if c.IP != target {
			t.Fatalf("CALL went to %04X, expected %04X", c.IP, target)
		}
		if c.SP != 0x6FFE {
			t.Fatalf("nothing pushed")
		}

		if err := c.Step(); err != nil {
			t.Fatalf("unexpected error %s", err)
		}
		if c.IP != 0x0103 || c.SP != 0x7000 {
			t.Fatalf("RET went to %04X, SP %04X", c.IP, c.SP)
		}
	}
}

// TestKeyboardInterrupt tests the dispatch of IRQ1, and the return.
func TestKeyboardInterrupt(t *testing.T) {

	c := newCPU(t, 0xF4)

	// Handler at 0000:0200 is "MOV AL,0x55; IRET"
	if err := c.SetVector(KeyboardVector, 0x0000, 0x0200); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if err := c.Memory().Write(0x0200, 0xB0, 0x55, 0xCF); err != nil {
		t.Fatalf("unexpected error %s", err)
	}

	c.Flags.Carry = true
	c.Flags.Parity = true
	before := c.Flags
	packed := before.Pack()

	c.PIC().IMR = 0xFD
	c.Keyboard().Enqueue('a')

	if err := c.Step(); err != nil {
		t.Fatalf("unexpected error %s", err)
	}

	// Dispatched, and the first instruction of the handler executed
	if !c.Running() {
		t.Fatalf("HLT executed")
	}
	if c.CS != 0 || c.IP != 0x0202 {
		t.Fatalf("wrong handler address %04X:%04X", c.CS, c.IP)
	}
	if c.AL() != 0x55 || c.State().LastInstruction != 0xB0 {
		t.Fatalf("handler didn't run: AL=%02X", c.AL())
	}
	if c.Flags.Interrupt {
		t.Fatalf("IF not cleared")
	}
	if c.PIC().ISR != 0x02 {
		t.Fatalf("ISR not set %02X", c.PIC().ISR)
	}
	if c.PIC().IRR&0x02 != 0 {
		t.Fatalf("IRR not cleared")
	}
	if c.Keyboard().Status()&1 == 0 {
		t.Fatalf("status not set")
	}

	// FLAGS, CS, IP were pushed in that order
	if c.SP != 0x7000-6 {
		t.Fatalf("wrong SP %04X", c.SP)
	}
	ip, _ := c.Memory().GetU16(0x7000 - 6)
	cs, _ := c.Memory().GetU16(0x7000 - 4)
	fl, _ := c.Memory().GetU16(0x7000 - 2)
	if ip != 0x0100 || cs != 0x0000 || fl != packed {
		t.Fatalf("wrong frame %04X %04X %04X", ip, cs, fl)
	}

	// IRET
	if err := c.Step(); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if c.IP != 0x0100 || c.CS != 0 || c.SP != 0x7000 {
		t.Fatalf("IRET returned to %04X:%04X SP %04X", c.CS, c.IP, c.SP)
	}
	if c.Flags != before {
		t.Fatalf("flags not restored: %s != %s", c.Flags, before)
	}
	if c.PIC().ISR != 0 {
		t.Fatalf("ISR not cleared")
	}
}

// TestInterruptHandlerHalts ensures a handler's first instruction runs
// in the step which dispatched it.
func TestInterruptHandlerHalts(t *testing.T) {

	// The interrupted program would load AX, if it ran.
	c := newCPU(t, 0xB8, 0x34, 0x12)
	if err := c.SetVector(KeyboardVector, 0x0000, 0x0200); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	_ = c.Memory().Set(0x0200, 0xF4)
	c.Keyboard().Enqueue('a')

	n, err := c.Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if n != 1 {
		t.Fatalf("halting took %d steps", n)
	}
	if c.Running() {
		t.Fatalf("handler's HLT didn't execute")
	}
	if c.CS != 0 || c.IP != 0x0201 || c.State().LastInstruction != 0xF4 {
		t.Fatalf("halted at %04X:%04X", c.CS, c.IP)
	}
	if c.SP != 0x7000-6 || c.PIC().ISR != 0x02 || c.AX != 0 {
		t.Fatalf("interrupt wasn't dispatched")
	}
}

// TestInterruptFault ensures a stack fault while dispatching an
// interrupt is reported against the vector, not the previous opcode.
func TestInterruptFault(t *testing.T) {

	// MOV AX,0x1234 runs first, so there is a previous opcode.
	c := newCPU(t, 0xB8, 0x34, 0x12, 0xF4)
	if err := c.Step(); err != nil {
		t.Fatalf("unexpected error %s", err)
	}

	c.SS = 0xFFFF
	c.SP = 0x0012
	c.Keyboard().Enqueue('a')

	err := c.Step()
	var f *Fault
	if !errors.As(err, &f) {
		t.Fatalf("expected a fault, got %v", err)
	}
	if !f.IRQ || f.Opcode != KeyboardVector || f.Mnemonic != "IRQ" {
		t.Fatalf("fault not attributed to the interrupt: %+v", f)
	}
	if f.CS != 0 || f.IP != 0x0103 {
		t.Fatalf("wrong location %04X:%04X", f.CS, f.IP)
	}
	var mf *memory.Fault
	if !errors.As(err, &mf) {
		t.Fatalf("expected a memory fault, got %v", err)
	}
	if !strings.Contains(err.Error(), "dispatching interrupt 0x09") {
		t.Fatalf("unexpected message %s", err)
	}
	if c.Running() || c.LastError() != f {
		t.Fatalf("still running")
	}
}

// TestInterruptMasked ensures masked, or disabled, interrupts wait.
func TestInterruptMasked(t *testing.T) {

	// Masked
	c := newCPU(t, 0xF4)
	c.PIC().IMR = 0xFF
	c.Keyboard().Enqueue('a')
	if err := c.Step(); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if c.Running() {
		t.Fatalf("interrupt taken while masked")
	}
	if c.PIC().IRR&(1<<pic.IRQKeyboard) == 0 {
		t.Fatalf("request not recorded")
	}

	// Disabled
	c = newCPU(t, 0xF4)
	c.Flags.Interrupt = false
	c.Keyboard().Enqueue('a')
	if err := c.Step(); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if c.Running() {
		t.Fatalf("interrupt taken while disabled")
	}
}

// TestMovHalt runs a two-instruction program.
func TestMovHalt(t *testing.T) {

	c := newCPU(t, 0xB8, 0x34, 0x12, 0xF4)

	for i := 0; i < 2; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("unexpected error %s", err)
		}
	}

	if c.AX != 0x1234 {
		t.Fatalf("wrong AX %04X", c.AX)
	}
	if c.Running() {
		t.Fatalf("still running")
	}
	if c.IP != 0x0104 {
		t.Fatalf("wrong IP %04X", c.IP)
	}
	if c.LastError() != nil {
		t.Fatalf("HLT recorded a fault")
	}

	// Stepping a halted CPU does nothing
	if err := c.Step(); err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if c.IP != 0x0104 {
		t.Fatalf("halted CPU moved")
	}

	s := c.State()
	if s.AX != 0x1234 || s.Running || s.LastInstruction != 0xF4 {
		t.Fatalf("wrong state %+v", s)
	}
	if s.String() != "AX=1234 BX=0000 CX=0000 DX=0000 SP=7000 0000:0104 czsopaI HLT" {
		t.Fatalf("wrong summary %s", s)
	}
}

// TestFetchFault ensures execution past the end of memory halts.
func TestFetchFault(t *testing.T) {

	buf := new(bytes.Buffer)
	c, err := New(WithLogger(slog.New(slog.NewTextHandler(buf, nil))))
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}

	c.CS = 0xFFFF
	c.IP = 0xFFFF

	err = c.Step()
	if err == nil {
		t.Fatalf("expected an error")
	}

	var mf *memory.Fault
	if !errors.As(err, &mf) {
		t.Fatalf("expected a memory fault, got %v", err)
	}
	if mf.Addr != 0x10FFEF {
		t.Fatalf("wrong address %X", mf.Addr)
	}

	f := c.LastError()
	if f == nil || f.Addr != 0x10FFEF || f.CS != 0xFFFF || f.IP != 0xFFFF {
		t.Fatalf("wrong fault %v", f)
	}
	if c.Running() {
		t.Fatalf("still running")
	}
	if !strings.Contains(buf.String(), "processor halted") {
		t.Fatalf("fault not logged: %s", buf.String())
	}
}

// TestOperandFault ensures an instruction running off the end of
// memory halts.
func TestOperandFault(t *testing.T) {

	c := newCPU(t)
	c.CS = 0xF000
	c.IP = 0xFFFE
	_ = c.Memory().Set(0xFFFFE, 0xB8)

	err := c.Step()
	var mf *memory.Fault
	if !errors.As(err, &mf) {
		t.Fatalf("expected a memory fault, got %v", err)
	}
	if c.LastError().Opcode != 0xB8 {
		t.Fatalf("wrong opcode in fault")
	}
}

// TestUnknownOpcode ensures unknown opcodes halt.
func TestUnknownOpcode(t *testing.T) {

	c := newCPU(t, 0x90)

	err := c.Step()
	if !errors.Is(err, ErrUnknownOpcode) {
		t.Fatalf("expected unknown opcode, got %v", err)
	}
	f := c.LastError()
	if f.Opcode != 0x90 || f.IP != 0x0100 || f.Addr != 0x0100 {
		t.Fatalf("wrong fault %v", f)
	}
	if c.Running() {
		t.Fatalf("still running")
	}
}

// TestUnsupportedModRM ensures bad encodings halt.
func TestUnsupportedModRM(t *testing.T) {

	c := newCPU(t, 0x8E, 0xFF)

	err := c.Step()
	if !errors.Is(err, ErrUnsupportedModRM) {
		t.Fatalf("expected unsupported modrm, got %v", err)
	}
	f := c.LastError()
	if f.Mnemonic != "MOV Sreg,AX" || f.Opcode != 0x8E {
		t.Fatalf("wrong fault %v", f)
	}
	if !strings.Contains(f.Error(), "0xFF") {
		t.Fatalf("ModR/M missing from error: %s", f.Error())
	}
}

// TestRun tests batch execution.
func TestRun(t *testing.T) {

	// JMP $
	c := newCPU(t, 0xEB, 0xFE)
	n, err := c.Run(context.Background(), 1000)
	if err != nil || n != 1000 {
		t.Fatalf("got %d/%v", n, err)
	}
	if c.IP != 0x0100 {
		t.Fatalf("loop escaped %04X", c.IP)
	}

	// Cancelled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err = c.Run(ctx, 1000)
	if !errors.Is(err, context.Canceled) || n != 0 {
		t.Fatalf("got %d/%v", n, err)
	}

	// Halts early
	c = newCPU(t, 0xB0, 0x01, 0xF4, 0xF4)
	n, err = c.Run(context.Background(), 1000)
	if err != nil || n != 2 {
		t.Fatalf("got %d/%v", n, err)
	}

	// Fault
	c = newCPU(t, 0x0F)
	n, err = c.Run(context.Background(), 1000)
	if !errors.Is(err, ErrUnknownOpcode) || n != 1 {
		t.Fatalf("got %d/%v", n, err)
	}
}

// TestBatching ensures single-stepping and batches agree.
func TestBatching(t *testing.T) {

	code := []byte{
		0xB8, 0x05, 0x00, // MOV AX,5
		0x2D, 0x01, 0x00, // SUB AX,1
		0x75, 0xFB, //       JNE -5
		0xF4, //             HLT
	}

	a := newCPU(t, code...)
	b := newCPU(t, code...)

	for a.Running() {
		if err := a.Step(); err != nil {
			t.Fatalf("unexpected error %s", err)
		}
	}
	if _, err := b.Run(context.Background(), 100000); err != nil {
		t.Fatalf("unexpected error %s", err)
	}

	if a.State() != b.State() {
		t.Fatalf("states differ\n%+v\n%+v", a.State(), b.State())
	}
	if a.AX != 0 || !a.Flags.Zero {
		t.Fatalf("loop didn't finish")
	}
}
