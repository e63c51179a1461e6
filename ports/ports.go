// Package ports contains the I/O bus of our machine, which routes
// IN and OUT instructions to the devices registered against each
// port.
//
// Accesses to ports nothing has claimed, or which a device refuses,
// are logged and otherwise ignored - port I/O never stops the processor.
package ports

import (
	"fmt"
	"log/slog"
)

// Direction describes whether an access is a read or a write.
type Direction uint8

const (
	// In is a read from a port.
	In Direction = iota

	// Out is a write to a port.
	Out
)

// String converts a direction to the mnemonic which performs it.
func (d Direction) String() string {
	if d == Out {
		return "OUT"
	}
	return "IN"
}

// Device is the interface which must be implemented by anything that
// wishes to be attached to the bus.
type Device interface {

	// HandleIO carries out an access.  For reads the device fills data,
	// for writes it consumes it.  len(data) is the size of the access.
	HandleIO(port uint16, dir Direction, data []byte) error

	// GetName returns the name of the device, for diagnostics.
	GetName() string
}

// Bus manages port I/O access to registered devices.
type Bus struct {
	// ports maps a port number to the device which handles it.
	ports map[uint16]Device

	// logger is used to report unhandled accesses.
	logger *slog.Logger
}

// New creates a new, empty, bus.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		ports:  make(map[uint16]Device),
		logger: logger,
	}
}

// Register attaches a device to every port in the inclusive range
// [start, end].  Later registrations replace earlier ones.
func (b *Bus) Register(start, end uint16, dev Device) {
	for port := start; port <= end; port++ {
		if old, ok := b.ports[port]; ok {
			b.logger.Debug("replacing port device",
				slog.String("port", fmt.Sprintf("0x%02X", port)),
				slog.String("old", old.GetName()),
				slog.String("new", dev.GetName()))
		}
		b.ports[port] = dev

		// Avoid looping forever when end is 0xFFFF.
		if port == 0xFFFF {
			break
		}
	}
}

// Device returns the device attached to the given port, if any.
func (b *Bus) Device(port uint16) (Device, bool) {
	d, ok := b.ports[port]
	return d, ok
}

// In reads size bytes (one or two) from the given port, returning
// them as a little-endian word.  Failed reads return zero.
func (b *Bus) In(port uint16, size int) uint16 {
	data := make([]byte, size)

	if err := b.access(port, In, data); err != nil {
		b.logger.Warn("unhandled port read",
			slog.String("port", fmt.Sprintf("0x%02X", port)),
			slog.Int("size", size),
			slog.String("error", err.Error()))
		return 0
	}

	if size == 1 {
		return uint16(data[0])
	}
	return uint16(data[1])<<8 | uint16(data[0])
}

// Out writes size bytes (one or two) of value to the given port.
func (b *Bus) Out(port uint16, size int, value uint16) {
	data := []byte{uint8(value & 0xFF), uint8(value >> 8)}[:size]

	if err := b.access(port, Out, data); err != nil {
		b.logger.Warn("unhandled port write",
			slog.String("port", fmt.Sprintf("0x%02X", port)),
			slog.Int("size", size),
			slog.String("value", fmt.Sprintf("0x%04X", value)),
			slog.String("error", err.Error()))
	}
}

// access routes the request to the appropriate device.
func (b *Bus) access(port uint16, dir Direction, data []byte) error {
	dev, ok := b.ports[port]
	if !ok {
		return fmt.Errorf("%w: %s 0x%02X", ErrUnmapped, dir, port)
	}
	return dev.HandleIO(port, dir, data)
}
