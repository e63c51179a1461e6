package gui

import (
	"bytes"
	"testing"

	"github.com/skx/emu8086/video"
)

// TestDefaults ensures unset configuration is populated.
func TestDefaults(t *testing.T) {
	c := Config{}.withDefaults()
	if c.Steps != 100000 || c.Scale != 1 || c.Title == "" || c.Logger == nil {
		t.Fatalf("defaults not applied %+v", c)
	}

	c = Config{Steps: 5, Scale: 2, Title: "x"}.withDefaults()
	if c.Steps != 5 || c.Scale != 2 || c.Title != "x" {
		t.Fatalf("settings overwritten %+v", c)
	}
}

// TestPaste tests the conversion of clipboard text.
func TestPaste(t *testing.T) {

	tests := []struct {
		in  string
		out string
	}{
		{"", ""},
		{"abc", "abc"},
		{"a\nb", "a\rb"},
		{"a\r\nb", "a\rb"},
		{"a\rb", "a\rb"},
		{"caf\xc3\xa9", "caf"},
	}

	for _, test := range tests {
		got := normalizePaste([]byte(test.in))
		if string(got) != test.out {
			t.Fatalf("paste %q: got %q, expected %q", test.in, got, test.out)
		}
	}

	// Large pastes are truncated
	got := normalizePaste(bytes.Repeat([]byte("x"), maxPaste*2))
	if len(got) != maxPaste {
		t.Fatalf("paste wasn't truncated: %d", len(got))
	}
}

// TestKeys tests the conversion of typed characters.
func TestKeys(t *testing.T) {
	if b, ok := runeToKey('a'); !ok || b != 'a' {
		t.Fatalf("failed to convert a")
	}
	for _, r := range []rune{0, -1, 0x80, 'é', '€'} {
		if _, ok := runeToKey(r); ok {
			t.Fatalf("converted %q", r)
		}
	}

	if cellRune('A') != 'A' || cellRune(0) != ' ' || cellRune(0xDB) != '?' {
		t.Fatalf("wrong cell rune")
	}
}

// TestRasterize ensures graphics frames are converted to RGBA.
func TestRasterize(t *testing.T) {
	frame := video.Frame{Mode: video.ModeGraphics, Pixels: make([]byte, video.GraphicsSize)}
	frame.Pixels[1] = 0x1C

	dst := make([]byte, video.Width*video.Height*4)
	rasterize(frame, dst)

	if !bytes.Equal(dst[0:8], []byte{0, 0, 0, 0xFF, 0, 0xE0, 0, 0xFF}) {
		t.Fatalf("wrong pixels %v", dst[0:8])
	}

	c := textColor(15)
	if c.R != 0xFF || c.G != 0xFF || c.B != 0xFF || c.A != 0xFF {
		t.Fatalf("wrong colour %v", c)
	}
}
