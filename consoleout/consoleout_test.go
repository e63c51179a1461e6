package consoleout

import (
	"bytes"
	"strings"
	"testing"

	"github.com/skx/emu8086/video"
)

// textFrame returns a blank text frame, with the given string at the
// top-left, in the given attribute.
func textFrame(msg string, attr byte) video.Frame {
	f := video.Frame{Mode: video.ModeText, Text: make([]byte, video.TextSize)}
	for i := 0; i < video.TextSize; i += 2 {
		f.Text[i] = ' '
		f.Text[i+1] = video.DefaultAttribute
	}
	for i, c := range []byte(msg) {
		f.Text[i*2] = c
		f.Text[i*2+1] = attr
	}
	return f
}

// TestName ensures we can lookup a driver by name
func TestName(t *testing.T) {

	valid := []string{"ansi", "termbox", "logger", "null"}

	for _, nm := range valid {

		d, e := New(nm)
		if e != nil {
			t.Fatalf("failed to lookup driver by name %s:%s", nm, e)
		}
		if d.GetName() != nm {
			t.Fatalf("%s != %s", d.GetName(), nm)
		}
		if d.GetDriver().GetName() != nm {
			t.Fatalf("%s != %s", d.GetDriver().GetName(), nm)
		}
	}

	// Lookup a driver that wont exist
	_, err := New("foo.bar.ba")
	if err == nil {
		t.Fatalf("we got a driver that shouldn't exist")
	}
}

// TestChangeDriver ensures we can change a driver
func TestChangeDriver(t *testing.T) {

	// Start with a known-good driver
	ansi, err := New("ansi")
	if err != nil {
		t.Fatalf("failed to load starting driver %s", err)
	}

	// Change to another known-good driver
	err = ansi.ChangeDriver("logger")
	if err != nil {
		t.Fatalf("failed to change to new driver %s", err)
	}
	if ansi.GetName() != "logger" {
		t.Fatalf("driver change didnt work?")
	}

	// Change to a bogus driver
	err = ansi.ChangeDriver("fofdsf-fsdfsd-fsdfdsf-")
	if err == nil {
		t.Fatalf("expected failure to change to new driver, didn't happen")
	}
	if ansi.GetName() != "logger" {
		t.Fatalf("driver changed unexpectedly")
	}
}

// TestAnsi ensures the ANSI driver draws text, with colours.
func TestAnsi(t *testing.T) {

	d, err := New("ansi")
	if err != nil {
		t.Fatalf("failed to lookup driver %s", err)
	}

	// ensure we redirect the output
	tmp := new(bytes.Buffer)
	d.GetDriver().SetWriter(tmp)

	if err = d.Setup(); err != nil {
		t.Fatalf("setup failed %s", err)
	}
	tmp.Reset()

	// Bright yellow on blue
	frame := textFrame("Steve Kemp", 0x1E)
	d.Render(frame, "status")

	out := tmp.String()
	if !strings.Contains(out, "Steve Kemp") {
		t.Fatalf("text missing from output %q", out)
	}
	if !strings.Contains(out, "\033[0;93;44m") {
		t.Fatalf("colours missing from output %q", out)
	}
	if !strings.HasSuffix(out, "status") {
		t.Fatalf("status missing from output")
	}

	// Rendering the same thing again does nothing.
	tmp.Reset()
	d.Render(frame, "status")
	if tmp.Len() != 0 {
		t.Fatalf("unchanged frame was redrawn")
	}

	// But a change of status redraws.
	d.Render(frame, "other")
	if tmp.Len() == 0 {
		t.Fatalf("changed frame was not redrawn")
	}

	tmp.Reset()
	if err = d.TearDown(); err != nil {
		t.Fatalf("teardown failed %s", err)
	}
	if !strings.Contains(tmp.String(), "\033[?25h") {
		t.Fatalf("cursor not restored")
	}
}

// TestAnsiGraphics ensures graphics frames are drawn as blocks.
func TestAnsiGraphics(t *testing.T) {

	d := AnsiOutputDriver{}
	tmp := new(bytes.Buffer)
	d.SetWriter(tmp)

	frame := video.Frame{Mode: video.ModeGraphics, Pixels: make([]byte, video.GraphicsSize)}
	frame.Pixels[0] = 0xE0

	d.Render(frame, "")
	out := tmp.String()
	if !strings.Contains(out, "\033[38;2;224;0;0;48;2;0;0;0m▀") {
		t.Fatalf("red pixel missing from output")
	}
	if strings.Count(out, "▀") != video.Columns*video.Rows {
		t.Fatalf("wrong number of blocks")
	}
}

// TestNull ensures nothing is written by the null output driver
func TestNull(t *testing.T) {

	// Start with a known-good driver
	null, err := New("null")
	if err != nil {
		t.Fatalf("failed to load starting driver %s", err)
	}
	if null.GetName() != "null" {
		t.Fatalf("null driver has the wrong name")
	}

	if null.GetDriver().GetName() != null.GetName() {
		t.Fatalf("getting driver went wrong")
	}

	// ensure we redirect the output
	tmp := new(bytes.Buffer)

	null.driver.SetWriter(tmp)

	if null.Setup() != nil || null.TearDown() != nil {
		t.Fatalf("setup/teardown failed")
	}
	null.Render(textFrame("s", 0x07), "s")

	if tmp.String() != "" {
		t.Fatalf("got output, expected none: '%s'", tmp.String())
	}
}

// TestLogger ensures nothing is written by the logging output driver
func TestLogger(t *testing.T) {

	// Start with a known-good driver
	drv, err := New("logger")
	if err != nil {
		t.Fatalf("failed to load starting driver %s", err)
	}
	if drv.GetName() != "logger" {
		t.Fatalf("driver has the wrong name")
	}

	if drv.GetDriver().GetName() != drv.GetName() {
		t.Fatalf("getting driver went wrong")
	}

	// ensure we redirect the output
	tmp := new(bytes.Buffer)

	drv.driver.SetWriter(tmp)

	frame := textFrame("steve", 0x07)
	copy(frame.Text[video.Columns*2:], []byte{'k', 0x07})
	drv.Render(frame, "ok")

	if tmp.String() != "" {
		t.Fatalf("got output, expected none: '%s'", tmp.String())
	}

	// Cast the driver to get the history
	o, ok := drv.GetDriver().(*OutputLoggingDriver)
	if !ok {
		t.Fatalf("failed to cast driver")
	}

	// ensure we have the history we expect.
	if o.GetOutput() != "steve\nk" {
		t.Fatalf("wrong history %q", o.GetOutput())
	}
	if o.GetStatus() != "ok" || o.Frames() != 1 {
		t.Fatalf("wrong status")
	}

	// Graphics frames have no text.
	drv.Render(video.Frame{Mode: video.ModeGraphics}, "")
	if o.GetOutput() != "" || o.Frames() != 2 {
		t.Fatalf("wrong history")
	}

	// reset the history, and confirm it worked.
	drv.Render(frame, "ok")
	o.Reset()
	if o.GetOutput() != "" || o.Frames() != 0 {
		t.Fatalf("reseting the history didn't succeed")
	}
}

// TestList ensures that we have the right number of drivers
func TestList(t *testing.T) {
	x, _ := New("null")

	valid := x.GetDrivers()

	if len(valid) != 2 {
		t.Fatalf("unexpected number of console drivers")
	}
	if valid[0] != "ansi" || valid[1] != "termbox" {
		t.Fatalf("unexpected drivers %v", valid)
	}
}

// TestGlyph tests the mapping of bytes to runes.
func TestGlyph(t *testing.T) {

	tests := []struct {
		in  byte
		out rune
	}{
		{0x00, ' '},
		{0x01, '☺'},
		{0x1F, '▼'},
		{'A', 'A'},
		{0x7F, '⌂'},
		{0x80, 'Ç'},
		{0xB3, '│'},
		{0xDB, '█'},
		{0xFE, '■'},
		{0xFF, ' '},
	}

	for _, test := range tests {
		if Glyph(test.in) != test.out {
			t.Fatalf("glyph %02X: got %c, expected %c", test.in, Glyph(test.in), test.out)
		}
	}

	if len(low) != 31 || len(high) != 128 {
		t.Fatalf("wrong table sizes %d %d", len(low), len(high))
	}

	// Colour reduction
	if nearest(0xE0) != 4 || nearest(0x03) != 1 || nearest(0xFF) != 7 || nearest(0) != 0 {
		t.Fatalf("wrong colour reduction")
	}
}
