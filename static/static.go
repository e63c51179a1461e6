// Package static contains the demonstration firmware images which are
// embedded in the emulator.
//
// Each image is a raw binary, loaded at 0000:0100:
//
//   - hello.bin writes a message to the text display, then halts.
//   - echo.bin installs a keyboard interrupt handler which copies
//     every key to the display.
//   - stripes.bin switches to graphics mode, via the BIOS, and fills
//     the screen with colour.  It needs the -bios flag.
//
// The listings are in firmware/README.md.
package static

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed firmware/*.bin
var content embed.FS

// GetContent returns the embedded filesystem we store within this package.
func GetContent() embed.FS {
	return content
}

// List returns the names of the embedded images, sorted.
func List() ([]string, error) {
	entries, err := fs.ReadDir(content, "firmware")
	if err != nil {
		return nil, err
	}

	out := []string{}
	for _, entry := range entries {
		if !entry.IsDir() {
			out = append(out, entry.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// Read returns the contents of the named image.
//
// The ".bin" suffix is optional.
func Read(name string) ([]byte, error) {
	if !strings.HasSuffix(name, ".bin") {
		name += ".bin"
	}

	data, err := content.ReadFile(path.Join("firmware", path.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded firmware %s: %w", name, err)
	}
	return data, nil
}
