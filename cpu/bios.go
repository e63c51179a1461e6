// This file implements the small set of BIOS services which can be
// handled natively, rather than by firmware code, when enabled via
// WithBIOS.
//
// Only video mode-setting, teletype output, and keyboard reading are
// provided:
//
// * INT 0x10, AH=0x00 - set video mode.
// * INT 0x10, AH=0x0E - write character.
// * INT 0x16, AH=0x00 - read key.
// * INT 0x16, AH=0x01 - peek key.

package cpu

import (
	"fmt"
	"log/slog"

	"github.com/skx/emu8086/video"
)

// BIOSHandler contains details of a natively-handled interrupt.
type BIOSHandler struct {
	// Desc contains a human-readable description of the service.
	Desc string

	// Handler contains the function which implements it.
	Handler HandlerType
}

// biosTable returns the interrupts we handle natively.
func biosTable() map[uint8]BIOSHandler {
	return map[uint8]BIOSHandler{
		0x10: {Desc: "VIDEO", Handler: BiosVideo},
		0x16: {Desc: "KEYBOARD", Handler: BiosKeyboard},
	}
}

// BiosVideo handles INT 0x10, with the function in AH.
func BiosVideo(c *CPU) error {

	switch c.AH() {
	case 0x00:
		switch c.AL() {
		case 0x03:
			return c.video.SetMode(c.mem, video.ModeText)
		case 0x13:
			return c.video.SetMode(c.mem, video.ModeGraphics)
		}
		c.logger.Warn("unsupported video mode",
			slog.String("mode", fmt.Sprintf("0x%02X", c.AL())))

	case 0x0E:
		if c.video.Mode() != video.ModeText {
			return nil
		}
		return video.PutChar(c.mem, int(c.CX), c.AL(), c.BL())

	default:
		c.logger.Debug("unimplemented video service",
			slog.String("ah", fmt.Sprintf("0x%02X", c.AH())))
	}
	return nil
}

// BiosKeyboard handles INT 0x16, with the function in AH.
func BiosKeyboard(c *CPU) error {

	switch c.AH() {
	case 0x00:
		b, _ := c.keyboard.Dequeue()
		c.SetAL(b)

	case 0x01:
		b, ok := c.keyboard.Peek()
		c.Flags.Zero = !ok
		c.SetAL(b)

	default:
		c.logger.Debug("unimplemented keyboard service",
			slog.String("ah", fmt.Sprintf("0x%02X", c.AH())))
	}
	return nil
}
