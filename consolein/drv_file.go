// drv_file creates a console input-driver which replays keystrokes
// from a file, for scripted automation.
//
// The file may start with a header of "key: value" options, ended by a
// line containing only "--":
//
//	newline: both
//	delay: 250ms
//	--
//	DIR
//
// "newline: both" sends a carriage-return after every newline, and
// "delay" changes the pause caused by each "#" in the body, which is
// a second by default.

package consolein

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// delayMarker pauses input, giving the firmware time to react.
const delayMarker = '#'

// FileInput is an input-driver that returns fake "console input"
// by replaying the content of a file.
//
// The file is named by $INPUT_FILE, defaulting to "input.txt".
type FileInput struct {

	// script holds the keystrokes, without any header.
	script []byte

	// pos is the index of the next keystroke.
	pos int

	// crlf is true if newlines are followed by a carriage-return.
	crlf bool

	// pendingCR is true if a carriage-return must be sent next.
	pendingCR bool

	// pause is the length of the delay caused by each marker.
	pause time.Duration

	// resumeAt is the end of the current delay.
	resumeAt time.Time
}

// parseOptions splits a script into its header options, and body.
//
// Without a valid header the whole script is the body.
func parseOptions(data []byte) (map[string]string, []byte) {
	opts := make(map[string]string)

	head, body, found := bytes.Cut(data, []byte("\n--\n"))
	if !found {
		return opts, data
	}

	for _, line := range strings.Split(string(head), "\n") {
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			return map[string]string{}, data
		}
		opts[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(val)
	}
	return opts, body
}

// load configures the driver from the content of a script.
func (fi *FileInput) load(data []byte) error {
	opts, body := parseOptions(data)

	fi.script = body
	fi.pos = 0
	fi.pendingCR = false
	fi.pause = time.Second
	fi.resumeAt = time.Time{}

	if opts["newline"] == "both" {
		fi.crlf = true
	}
	if d, ok := opts["delay"]; ok {
		pause, err := time.ParseDuration(d)
		if err != nil {
			return fmt.Errorf("invalid delay %q: %w", d, err)
		}
		fi.pause = pause
	}
	return nil
}

// Setup reads the script named by $INPUT_FILE.
//
// Setting $INPUT_FAKE_NEWLINES to 1 is the same as "newline: both".
func (fi *FileInput) Setup() error {

	fileName := os.Getenv("INPUT_FILE")
	if fileName == "" {
		fileName = "input.txt"
	}

	dat, err := os.ReadFile(fileName)
	if err != nil {
		return err
	}

	fi.crlf = os.Getenv("INPUT_FAKE_NEWLINES") == "1"
	return fi.load(dat)
}

// TearDown is a NOP.
func (fi *FileInput) TearDown() error {
	return nil
}

// PendingInput returns true if there is another keystroke, and we're not
// pausing.
//
// Reaching a delay marker starts a pause.
func (fi *FileInput) PendingInput() bool {

	if fi.pendingCR {
		return true
	}
	if time.Now().Before(fi.resumeAt) {
		return false
	}

	if fi.pos < len(fi.script) && fi.script[fi.pos] == delayMarker {
		fi.pos++
		fi.resumeAt = time.Now().Add(fi.pause)
		return false
	}

	return fi.pos < len(fi.script)
}

// BlockForCharacterNoEcho returns the next keystroke, ignoring any
// delay markers.  io.EOF is returned once the script is exhausted.
func (fi *FileInput) BlockForCharacterNoEcho() (byte, error) {

	if fi.pendingCR {
		fi.pendingCR = false
		return '\r', nil
	}

	for fi.pos < len(fi.script) && fi.script[fi.pos] == delayMarker {
		fi.pos++
	}
	if fi.pos >= len(fi.script) {
		return 0x00, io.EOF
	}

	c := fi.script[fi.pos]
	fi.pos++

	if c == '\n' && fi.crlf {
		fi.pendingCR = true
	}
	return c, nil
}

// GetName is part of the module API, and returns the name of this driver.
func (fi *FileInput) GetName() string {
	return "file"
}

// init registers our driver, by name.
func init() {
	Register("file", func() ConsoleInput {
		return new(FileInput)
	})
}
