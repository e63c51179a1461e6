package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/skx/emu8086/consolein"
	"github.com/skx/emu8086/consoleout"
	"github.com/skx/emu8086/cpu"
)

// feedPerFrame is the most keys we move into the keyboard queue
// between batches.  The queue is small, and firmware only sees one key
// per interrupt.
const feedPerFrame = 16

// host runs a processor in the terminal, moving input into it and
// drawing its display once per frame.
type host struct {
	cpu *cpu.CPU
	in  *consolein.ConsoleIn
	out *consoleout.ConsoleOut

	// steps is the number of instructions executed per frame.
	steps int

	// fps is the number of frames per second.
	fps int

	// frames stops us after that many frames, if non-zero.
	frames int

	logger *slog.Logger
}

// run executes frames until the processor halts, the context is
// cancelled, the frame limit is reached, or the user quits.
//
// The processor fault is returned if there was one; quitting returns
// consolein.ErrInterrupted.
func (h *host) run(ctx context.Context) error {

	ticker := time.NewTicker(time.Second / time.Duration(h.fps))
	defer ticker.Stop()

	for frame := 1; ; frame++ {

		// Input first, so the batch can see it.
		if _, err := h.in.Feed(h.cpu.Keyboard(), feedPerFrame); err != nil {
			return err
		}

		n, err := h.cpu.Run(ctx, h.steps)

		// Draw even when halted, so the final state is visible.
		h.out.Render(h.cpu.Frame(), h.cpu.State().String())

		if err != nil {
			return err
		}
		if !h.cpu.Running() {
			h.logger.Debug("processor halted",
				slog.Int("frame", frame),
				slog.Int("steps", n))
			return nil
		}
		if h.frames > 0 && frame >= h.frames {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
