// Package cpu contains our 8086 processor, which executes a small
// subset of the real-mode instruction set.
//
// The processor owns everything it touches: 1MB of RAM, the keyboard
// queue, the interrupt controller, the I/O bus, and the video adapter.
// The host creates one with New, loads a firmware image, and then calls
// Step or Run repeatedly - pushing key-presses into the queue between
// calls, and reading the display via Frame.
//
// Any memory access outside the 1MB address space, any unknown opcode,
// and any unsupported operand encoding halts the processor.  The
// reason is available as a *Fault, which is logged, returned, and
// remembered.
package cpu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/skx/emu8086/keyboard"
	"github.com/skx/emu8086/memory"
	"github.com/skx/emu8086/pic"
	"github.com/skx/emu8086/ports"
	"github.com/skx/emu8086/video"
)

const (
	// ResetIP is the instruction pointer after reset; firmware is
	// loaded here.
	ResetIP = memory.LoadAddress

	// ResetSP is the stack pointer after reset.
	ResetSP = 0x7000

	// DefaultVectorSegment and DefaultVectorOffset are the contents of
	// every interrupt vector after reset.
	DefaultVectorSegment = 0x0000
	DefaultVectorOffset  = 0x0100

	// KeyboardVector is the interrupt raised for IRQ1.
	KeyboardVector = 0x09
)

var (
	// ErrUnknownOpcode is the reason for a fault when the processor
	// fetches an opcode it doesn't implement.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrUnsupportedModRM is the reason for a fault when a known opcode
	// is followed by an operand encoding we don't implement.
	ErrUnsupportedModRM = errors.New("unsupported ModR/M encoding")
)

// Fault describes the condition which halted the processor.
type Fault struct {
	// Opcode is the opcode being executed.
	Opcode uint8

	// Mnemonic is the name of the instruction, if it is known.
	Mnemonic string

	// CS and IP are the location of the opcode.
	CS uint16
	IP uint16

	// Addr is the physical address which caused the fault; for
	// memory faults this is the access, otherwise the opcode.
	Addr uint32

	// IRQ is true if the fault happened while dispatching a hardware
	// interrupt, rather than executing an instruction.  Opcode then
	// holds the interrupt vector.
	IRQ bool

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.IRQ {
		return fmt.Sprintf("fault dispatching interrupt 0x%02X at %04X:%04X [0x%05X]: %s",
			f.Opcode, f.CS, f.IP, f.Addr, f.Err)
	}
	return fmt.Sprintf("fault executing %s (0x%02X) at %04X:%04X [0x%05X]: %s",
		f.Mnemonic, f.Opcode, f.CS, f.IP, f.Addr, f.Err)
}

// Unwrap returns the underlying cause.
func (f *Fault) Unwrap() error {
	return f.Err
}

// HandlerType contains the signature of an instruction implementation.
//
// When a handler is invoked IP has already been moved past the opcode.
type HandlerType func(c *CPU) error

// Instruction contains details of a specific opcode we implement.
type Instruction struct {
	// Mnemonic contains a human-readable description of the opcode.
	Mnemonic string

	// Handler contains the function which executes the opcode.
	Handler HandlerType
}

// State is a copy of the processor state, for display.
type State struct {
	Registers
	Flags Flags

	// Running is false once the processor has halted.
	Running bool

	// LastInstruction is the most recent opcode fetched.
	LastInstruction uint8

	// Fault is the reason the processor stopped, if it stopped
	// because of an error.
	Fault *Fault
}

// CPU is the object that holds our emulator state.
type CPU struct {
	Registers

	// Flags holds the processor flags.
	Flags Flags

	// Instructions contains the opcodes we know how to execute.
	Instructions map[uint8]Instruction

	// BIOS contains the interrupts which are handled natively, when
	// that is enabled.
	BIOS map[uint8]BIOSHandler

	mem      *memory.Memory
	keyboard *keyboard.Queue
	pic      *pic.Controller
	bus      *ports.Bus
	video    *video.Adapter

	// running is false once we've halted.
	running bool

	// lastInstruction is the most recently fetched opcode, and
	// opcodeIP the offset it was fetched from.
	lastInstruction uint8
	opcodeIP        uint16

	// fault is the reason we halted, if any.
	fault *Fault

	// bios enables the native interrupt handlers.
	bios bool

	// logger holds a logger which we use for debugging and diagnostics.
	logger *slog.Logger
}

// Option is a function which configures a CPU.
type Option func(c *CPU) error

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CPU) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		c.logger = logger
		return nil
	}
}

// WithBIOS enables, or disables, the native handlers for INT 0x10
// and INT 0x16.
func WithBIOS(enabled bool) Option {
	return func(c *CPU) error {
		c.bios = enabled
		return nil
	}
}

// New returns a new processor, in its reset state.
func New(options ...Option) (*CPU, error) {

	c := &CPU{
		mem:      memory.New(),
		keyboard: keyboard.New(),
		pic:      pic.New(),
		video:    video.New(),
		logger:   slog.Default(),
	}

	for _, opt := range options {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	c.bus = ports.New(c.logger)
	c.bus.AttachStandard(c.keyboard, c.pic)

	c.Instructions = instructionTable()
	c.BIOS = biosTable()

	if err := c.Reset(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reset returns the processor, and the devices it owns, to the
// power-on state.  RAM outside the vector table and the display is
// left alone.
func (c *CPU) Reset() error {
	c.Registers = Registers{IP: ResetIP, SP: ResetSP}
	c.Flags = Flags{Interrupt: true}
	c.running = true
	c.lastInstruction = 0
	c.opcodeIP = 0
	c.fault = nil

	c.keyboard.Reset()
	c.pic.Reset()

	if err := c.video.Reset(c.mem); err != nil {
		return fmt.Errorf("failed to reset display: %w", err)
	}

	for n := 0; n < 256; n++ {
		if err := c.SetVector(uint8(n), DefaultVectorSegment, DefaultVectorOffset); err != nil {
			return fmt.Errorf("failed to reset vector table: %w", err)
		}
	}
	return nil
}

// LoadFirmware copies the named file into RAM at the reset IP.
func (c *CPU) LoadFirmware(path string) error {
	if err := c.mem.LoadFile(memory.LoadAddress, path); err != nil {
		return fmt.Errorf("failed to load firmware: %w", err)
	}
	return nil
}

// LoadImage copies the given bytes into RAM at the reset IP.
func (c *CPU) LoadImage(data []byte) error {
	if err := c.mem.Load(memory.LoadAddress, data); err != nil {
		return fmt.Errorf("failed to load firmware: %w", err)
	}
	return nil
}

// Memory returns the RAM of the machine.
func (c *CPU) Memory() *memory.Memory {
	return c.mem
}

// Keyboard returns the queue which key-presses should be added to.
func (c *CPU) Keyboard() *keyboard.Queue {
	return c.keyboard
}

// PIC returns the interrupt controller.
func (c *CPU) PIC() *pic.Controller {
	return c.pic
}

// Bus returns the I/O bus, so that extra devices may be attached.
func (c *CPU) Bus() *ports.Bus {
	return c.bus
}

// Frame returns a snapshot of the display.
func (c *CPU) Frame() video.Frame {
	return c.video.Snapshot(c.mem)
}

// Running returns false once the processor has halted.
func (c *CPU) Running() bool {
	return c.running
}

// LastError returns the fault which halted the processor, if any.
func (c *CPU) LastError() *Fault {
	return c.fault
}

// State returns a copy of the processor state.
func (c *CPU) State() State {
	return State{
		Registers:       c.Registers,
		Flags:           c.Flags,
		Running:         c.running,
		LastInstruction: c.lastInstruction,
		Fault:           c.fault,
	}
}

// String returns a one-line summary of the state, suitable for a
// status bar.
func (s State) String() string {
	run := "RUN"
	switch {
	case s.Fault != nil:
		run = "FLT"
	case !s.Running:
		run = "HLT"
	}
	return fmt.Sprintf("AX=%04X BX=%04X CX=%04X DX=%04X SP=%04X %04X:%04X %s %s",
		s.AX, s.BX, s.CX, s.DX, s.SP, s.CS, s.IP, s.Flags, run)
}

// Step executes a single instruction, after dispatching any pending
// hardware interrupt.
//
// Once halted further calls do nothing.  A fault halts the processor
// and is returned.
func (c *CPU) Step() error {

	if !c.running {
		return nil
	}

	// Hardware interrupts are taken before the fetch, so the first
	// instruction of a handler runs in the step which dispatched it.
	c.opcodeIP = c.IP
	if err := c.pollKeyboard(); err != nil {
		return c.failIRQ(KeyboardVector, err)
	}
	c.opcodeIP = c.IP

	// Fetch
	op, err := c.mem.Get(memory.Translate(c.CS, c.IP))
	if err != nil {
		return c.fail("fetch", err)
	}
	c.lastInstruction = op
	c.IP++

	// Decode
	ins, ok := c.Instructions[op]
	if !ok {
		return c.fail("???", ErrUnknownOpcode)
	}

	if c.logger.Enabled(context.Background(), slog.LevelDebug) {
		c.logger.Debug("step",
			slog.String("cs:ip", fmt.Sprintf("%04X:%04X", c.CS, c.opcodeIP)),
			slog.String("opcode", fmt.Sprintf("0x%02X", op)),
			slog.String("mnemonic", ins.Mnemonic))
	}

	// Execute
	if err := ins.Handler(c); err != nil {
		return c.fail(ins.Mnemonic, err)
	}
	return nil
}

// Run executes up to max steps, stopping early if the processor halts
// or the context is cancelled.  The number of steps taken is returned,
// along with any fault.
func (c *CPU) Run(ctx context.Context, max int) (int, error) {
	n := 0
	for n < max && c.running {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		n++
		if err := c.Step(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Halt stops the processor.
func (c *CPU) Halt() {
	c.running = false
}

// fail halts the processor, recording and logging the reason.
func (c *CPU) fail(mnemonic string, err error) error {
	return c.halt(&Fault{
		Opcode:   c.lastInstruction,
		Mnemonic: mnemonic,
		Err:      err,
	})
}

// failIRQ halts the processor when a hardware interrupt couldn't be
// dispatched.  The vector is reported in place of an opcode.
func (c *CPU) failIRQ(vector uint8, err error) error {
	return c.halt(&Fault{
		Opcode:   vector,
		Mnemonic: "IRQ",
		IRQ:      true,
		Err:      err,
	})
}

// halt completes the given fault with our location, then stops.
func (c *CPU) halt(f *Fault) error {

	f.CS = c.CS
	f.IP = c.opcodeIP
	f.Addr = memory.Translate(c.CS, c.opcodeIP)

	err := f.Err
	var mf *memory.Fault
	if errors.As(err, &mf) {
		f.Addr = mf.Addr
	}

	c.logger.Error("processor halted",
		slog.String("mnemonic", f.Mnemonic),
		slog.String("opcode", fmt.Sprintf("0x%02X", f.Opcode)),
		slog.String("cs:ip", fmt.Sprintf("%04X:%04X", f.CS, f.IP)),
		slog.String("address", fmt.Sprintf("0x%05X", f.Addr)),
		slog.String("error", err.Error()))

	c.running = false
	c.fault = f
	return f
}
