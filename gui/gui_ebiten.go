//go:build !headless

package gui

import (
	"context"
	"errors"
	"image/color"
	"log/slog"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/skx/emu8086/video"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

// letters are used to generate control-characters.
var letters = []ebiten.Key{
	ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE,
	ebiten.KeyF, ebiten.KeyG, ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ,
	ebiten.KeyK, ebiten.KeyL, ebiten.KeyM, ebiten.KeyN, ebiten.KeyO,
	ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR, ebiten.KeyS, ebiten.KeyT,
	ebiten.KeyU, ebiten.KeyV, ebiten.KeyW, ebiten.KeyX, ebiten.KeyY,
	ebiten.KeyZ,
}

// special maps keys which produce no typed characters.
var special = map[ebiten.Key]byte{
	ebiten.KeyEnter:       '\r',
	ebiten.KeyNumpadEnter: '\r',
	ebiten.KeyBackspace:   0x08,
	ebiten.KeyTab:         '\t',
	ebiten.KeyEscape:      0x1B,
}

// window is our ebiten.Game.
type window struct {
	ctx    context.Context
	m      Machine
	cfg    Config
	logger *slog.Logger

	// paused is toggled by F5.
	paused bool

	// err holds the fault which stopped the processor.
	err error

	graphics *ebiten.Image
	pixels   []byte

	clipboardOnce sync.Once
	clipboardOK   bool
}

// Run opens a window showing the given machine, and runs it until the
// window is closed or the context is cancelled.
//
// A processor fault pauses execution, leaving the window open so the
// final state can be seen; it is returned once the window closes.
func Run(ctx context.Context, m Machine, cfg Config) error {
	cfg = cfg.withDefaults()

	w := &window{
		ctx:    ctx,
		m:      m,
		cfg:    cfg,
		logger: cfg.Logger,
		pixels: make([]byte, video.Width*video.Height*4),
	}

	ebiten.SetWindowSize(ScreenWidth*cfg.Scale, (ScreenHeight+StatusHeight)*cfg.Scale)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetTPS(60)

	err := ebiten.RunGame(w)
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return w.err
}

// Update handles input, and runs the processor.
func (w *window) Update() error {
	if w.ctx.Err() != nil {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		w.paused = !w.paused
		w.logger.Debug("frontend", slog.Bool("paused", w.paused))
	}

	w.handleKeyboardInput()

	if w.err != nil {
		return nil
	}

	var err error
	if w.paused {
		if inpututil.IsKeyJustPressed(ebiten.KeyF6) {
			err = w.m.Step()
		}
	} else {
		_, err = w.m.Run(w.ctx, w.cfg.Steps)
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return ebiten.Termination
		}
		w.err = err
		w.paused = true
	}
	return nil
}

// handleKeyboardInput queues typed characters, control keys, and
// pasted text.
func (w *window) handleKeyboardInput() {
	q := w.m.Keyboard()

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)

	// Clipboard paste: Ctrl+Shift+V
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		w.handleClipboardPaste()
		return
	}

	if ctrl {
		for i, key := range letters {
			if inpututil.IsKeyJustPressed(key) {
				q.Enqueue(byte(i + 1))
			}
		}
		return
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if b, ok := runeToKey(r); ok {
			q.Enqueue(b)
		}
	}

	for key, b := range special {
		if inpututil.IsKeyJustPressed(key) {
			q.Enqueue(b)
		}
	}
}

// handleClipboardPaste queues the text on the clipboard.
func (w *window) handleClipboardPaste() {
	w.clipboardOnce.Do(func() {
		err := clipboard.Init()
		if err != nil {
			w.logger.Warn("clipboard unavailable", slog.String("error", err.Error()))
		}
		w.clipboardOK = err == nil
	})
	if !w.clipboardOK {
		return
	}

	data := normalizePaste(clipboard.Read(clipboard.FmtText))
	w.m.Keyboard().EnqueueString(string(data))
}

// Draw renders the display, and the status bar.
func (w *window) Draw(screen *ebiten.Image) {
	frame := w.m.Frame()

	if frame.Mode == video.ModeGraphics {
		w.drawGraphics(screen, frame)
	} else {
		w.drawText(screen, frame)
	}

	status := w.m.State().String()
	if w.paused {
		status += " PAUSED"
	}
	ebitenutil.DrawRect(screen, 0, ScreenHeight, ScreenWidth, StatusHeight, color.RGBA{0x20, 0x20, 0x20, 0xFF})
	text.Draw(screen, status, basicfont.Face7x13, 2, ScreenHeight+12, color.RGBA{0xAA, 0xAA, 0xAA, 0xFF})
}

// drawText draws each cell, background first.
func (w *window) drawText(screen *ebiten.Image, frame video.Frame) {
	screen.Fill(color.Black)

	for y := 0; y < video.Rows; y++ {
		for x := 0; x < video.Columns; x++ {
			ch, attr := frame.Cell(x, y)
			fg, bg := video.SplitAttribute(attr)

			px := float64(x * CellWidth)
			py := float64(y * CellHeight)
			if bg != 0 {
				ebitenutil.DrawRect(screen, px, py, CellWidth, CellHeight, textColor(bg))
			}

			r := cellRune(ch)
			if r != ' ' {
				text.Draw(screen, string(r), basicfont.Face7x13, x*CellWidth, y*CellHeight+12, textColor(fg))
			}
		}
	}
}

// drawGraphics scales the graphics window to fill the display area.
func (w *window) drawGraphics(screen *ebiten.Image, frame video.Frame) {
	if w.graphics == nil {
		w.graphics = ebiten.NewImage(video.Width, video.Height)
	}

	rasterize(frame, w.pixels)
	w.graphics.WritePixels(w.pixels)

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(ScreenWidth)/video.Width, float64(ScreenHeight)/video.Height)
	screen.DrawImage(w.graphics, opts)
}

// Layout returns our fixed size; ebiten scales it to the window.
func (w *window) Layout(_, _ int) (int, int) {
	return ScreenWidth, ScreenHeight + StatusHeight
}
