// Package memory provides the 1MB of RAM within which the emulator
// executes its programs.
//
// Addresses are physical, 20-bit, values.  The segment:offset pairs
// which the processor works with are converted via Translate, and
// every access is bounds-checked - there is no wraparound at the top
// of memory, instead an access which would run past the end returns
// a *Fault.
package memory

import (
	"errors"
	"fmt"
	"os"
)

const (
	// Size is the number of bytes of RAM we provide.
	Size = 0x100000

	// LoadAddress is the location at which program images are placed.
	LoadAddress = 0x0100
)

var (
	// ErrTooLarge is returned when an image will not fit into RAM at the
	// requested load address.
	ErrTooLarge = errors.New("image too large")
)

// Fault is the error returned when an access falls outside the
// addressable range of memory.
type Fault struct {
	// Addr is the physical address which was accessed.
	Addr uint32

	// Size is the number of bytes the access covered.
	Size int
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return fmt.Sprintf("memory access out of range: 0x%05X+%d", f.Addr, f.Size)
}

// Memory provides 1MB of byte-addressable storage.
type Memory struct {
	buf [Size]uint8
}

// New returns a new, zeroed, block of RAM.
func New() *Memory {
	return new(Memory)
}

// Translate converts a segment:offset pair to a physical address.
//
// The calculation is carried out in 32-bits, so the result can exceed
// the top of memory; such addresses fail when they are accessed.
func Translate(segment, offset uint16) uint32 {
	return uint32(segment)<<4 + uint32(offset)
}

// check returns a *Fault if size bytes at addr are not all addressable.
func check(addr uint32, size int) error {
	if size < 0 || uint64(addr)+uint64(size) > Size {
		return &Fault{Addr: addr, Size: size}
	}
	return nil
}

// Check reports whether size bytes starting at addr may be accessed.
func (m *Memory) Check(addr uint32, size int) error {
	return check(addr, size)
}

// Read returns a copy of size bytes starting at addr.
func (m *Memory) Read(addr uint32, size int) ([]byte, error) {
	if err := check(addr, size); err != nil {
		return nil, err
	}

	out := make([]byte, size)
	copy(out, m.buf[addr:addr+uint32(size)])
	return out, nil
}

// Write copies the given bytes into RAM, starting at addr.
//
// Nothing is written if any part of the range is out of bounds.
func (m *Memory) Write(addr uint32, data ...byte) error {
	if err := check(addr, len(data)); err != nil {
		return err
	}
	copy(m.buf[addr:], data)
	return nil
}

// Get returns the byte at addr.
func (m *Memory) Get(addr uint32) (uint8, error) {
	if err := check(addr, 1); err != nil {
		return 0, err
	}
	return m.buf[addr], nil
}

// Set stores a byte at addr.
func (m *Memory) Set(addr uint32, value uint8) error {
	if err := check(addr, 1); err != nil {
		return err
	}
	m.buf[addr] = value
	return nil
}

// GetU16 returns the little-endian word stored at addr.
func (m *Memory) GetU16(addr uint32) (uint16, error) {
	if err := check(addr, 2); err != nil {
		return 0, err
	}
	return uint16(m.buf[addr+1])<<8 | uint16(m.buf[addr]), nil
}

// SetU16 stores a little-endian word at addr.
func (m *Memory) SetU16(addr uint32, value uint16) error {
	if err := check(addr, 2); err != nil {
		return err
	}
	m.buf[addr] = uint8(value & 0xFF)
	m.buf[addr+1] = uint8(value >> 8)
	return nil
}

// FillRange fills an area of memory with the given byte.
func (m *Memory) FillRange(addr uint32, size int, char uint8) error {
	if err := check(addr, size); err != nil {
		return err
	}
	for i := 0; i < size; i++ {
		m.buf[addr+uint32(i)] = char
	}
	return nil
}

// GetRange returns the contents of a given range.
//
// It is the same as Read, and exists for symmetry with FillRange.
func (m *Memory) GetRange(addr uint32, size int) ([]uint8, error) {
	return m.Read(addr, size)
}

// Load copies an in-memory image into RAM at the given address.
func (m *Memory) Load(addr uint32, data []byte) error {
	if uint64(addr) > Size || uint64(len(data)) > Size-uint64(addr) {
		return fmt.Errorf("%w: %d bytes at 0x%05X", ErrTooLarge, len(data), addr)
	}
	copy(m.buf[addr:], data)
	return nil
}

// LoadFile loads the contents of the named file into RAM, verbatim,
// starting at the given address.
func (m *Memory) LoadFile(addr uint32, name string) error {

	// Load the binary
	prog, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	// Put it into the starting location
	return m.Load(addr, prog)
}
