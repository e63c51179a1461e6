package ports

import (
	"errors"
	"fmt"

	"github.com/skx/emu8086/keyboard"
	"github.com/skx/emu8086/pic"
)

const (
	// KeyboardData is the port from which key bytes are read.
	KeyboardData = 0x60

	// KeyboardStatus is the port from which the status byte is read.
	KeyboardStatus = 0x64
)

var (
	// ErrUnmapped is returned when nothing is attached to a port.
	ErrUnmapped = errors.New("unmapped port")

	// ErrUnsupported is returned when a device doesn't support the
	// requested direction on a port.
	ErrUnsupported = errors.New("unsupported access")
)

// KeyboardController exposes the keyboard queue on the data and
// status ports.  Both are read-only.
type KeyboardController struct {
	queue *keyboard.Queue
}

// NewKeyboardController returns a device reading from the given queue.
func NewKeyboardController(q *keyboard.Queue) *KeyboardController {
	return &KeyboardController{queue: q}
}

// GetName returns the name of this device.
func (k *KeyboardController) GetName() string {
	return "keyboard"
}

// HandleIO processes I/O operations for the keyboard controller.
func (k *KeyboardController) HandleIO(port uint16, dir Direction, data []byte) error {
	if dir == Out {
		return fmt.Errorf("%w: keyboard %s 0x%02X", ErrUnsupported, dir, port)
	}

	// Wide reads return the byte in the low half.
	for i := range data {
		data[i] = 0
	}

	switch port {
	case KeyboardData:
		data[0], _ = k.queue.Dequeue()
	case KeyboardStatus:
		data[0] = k.queue.Status()
	default:
		return fmt.Errorf("%w: keyboard %s 0x%02X", ErrUnsupported, dir, port)
	}
	return nil
}

// InterruptController exposes the PIC on its command and data ports.
type InterruptController struct {
	pic *pic.Controller
}

// NewInterruptController returns a device driving the given PIC.
func NewInterruptController(p *pic.Controller) *InterruptController {
	return &InterruptController{pic: p}
}

// GetName returns the name of this device.
func (ic *InterruptController) GetName() string {
	return "pic"
}

// HandleIO processes I/O operations for the PIC.
//
// The data port reads and writes the mask register, the command port
// accepts EOI.
func (ic *InterruptController) HandleIO(port uint16, dir Direction, data []byte) error {

	switch {
	case port == pic.DataPort && dir == In:
		for i := range data {
			data[i] = 0
		}
		data[0] = ic.pic.IMR
		return nil

	case port == pic.DataPort && dir == Out:
		ic.pic.IMR = data[0]
		return nil

	case port == pic.CommandPort && dir == Out:
		// A word write is only a command if the high byte is zero.
		value := uint16(data[0])
		if len(data) > 1 {
			value |= uint16(data[1]) << 8
		}
		if value <= 0xFF && ic.pic.Command(uint8(value)) {
			return nil
		}
		return fmt.Errorf("%w: PIC command 0x%02X", ErrUnsupported, value)
	}

	return fmt.Errorf("%w: pic %s 0x%02X", ErrUnsupported, dir, port)
}

// AttachStandard attaches the keyboard controller and PIC at their
// usual locations.
func (b *Bus) AttachStandard(q *keyboard.Queue, p *pic.Controller) {
	kbd := NewKeyboardController(q)
	b.Register(KeyboardData, KeyboardData, kbd)
	b.Register(KeyboardStatus, KeyboardStatus, kbd)
	b.Register(pic.CommandPort, pic.DataPort, NewInterruptController(p))
}
