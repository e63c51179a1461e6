// entry point

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/skx/emu8086/consolein"
	"github.com/skx/emu8086/consoleout"
	"github.com/skx/emu8086/cpu"
	"github.com/skx/emu8086/gui"
	"github.com/skx/emu8086/ports"
	"github.com/skx/emu8086/static"
	"github.com/skx/emu8086/version"
)

// listContents shows the embedded firmware, and the available drivers.
func listContents() error {
	names, err := static.List()
	if err != nil {
		return err
	}
	fmt.Printf("Embedded firmware:\n")
	for _, name := range names {
		fmt.Printf("\t%s\n", strings.TrimSuffix(name, ".bin"))
	}

	in, err := consolein.New("file")
	if err != nil {
		return err
	}
	fmt.Printf("\nInput drivers:\n\t%s\n", strings.Join(in.GetDrivers(), "\n\t"))

	out, err := consoleout.New("null")
	if err != nil {
		return err
	}
	fmt.Printf("\nOutput drivers:\n\t%s\n", strings.Join(out.GetDrivers(), "\n\t"))
	return nil
}

// loadFirmware loads either the named embedded image, or the named file,
// into the processor.  The name of the image is returned.
func loadFirmware(c *cpu.CPU, embedded string, args []string) (string, error) {
	if embedded != "" {
		data, err := static.Read(embedded)
		if err != nil {
			return "", err
		}
		return embedded, c.LoadImage(data)
	}

	if len(args) < 1 {
		return "", errors.New("no firmware specified")
	}
	return filepath.Base(args[0]), c.LoadFirmware(args[0])
}

func main() {

	//
	// Parse the command-line flags.
	//
	bios := flag.Bool("bios", false, "Handle video and keyboard BIOS interrupts natively.")
	embedded := flag.String("embedded", "", "Run the named embedded firmware, rather than a file.")
	fps := flag.Int("fps", 60, "The number of frames to draw per second.")
	frames := flag.Int("frames", 0, "Exit after this many frames, zero runs forever.")
	useGUI := flag.Bool("gui", false, "Open a window, rather than using the terminal.")
	input := flag.String("input", "term", "The name of the console input driver to use.")
	list := flag.Bool("list", false, "List the embedded firmware, and the available drivers.")
	output := flag.String("output", "termbox", "The name of the console output driver to use.")
	printer := flag.String("printer", "print.log", "The file parallel-port output is appended to, empty to disable.")
	scale := flag.Int("scale", 1, "Scale the window by this factor.")
	steps := flag.Int("steps", 100000, "The number of instructions to execute per frame.")
	showVersion := flag.Bool("version", false, "Report our version, and exit.")
	flag.Parse()

	if *showVersion {
		fmt.Print(version.GetVersionBanner())
		return
	}

	if *list {
		if err := listContents(); err != nil {
			fmt.Printf("Error listing contents: %s\n", err)
			os.Exit(1)
		}
		return
	}

	if *steps < 1 || *fps < 1 {
		fmt.Printf("-steps and -fps must be positive\n")
		os.Exit(1)
	}

	// Setup our logging level - default to warnings or higher
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)

	// But show "everything" if $DEBUG is non-empty
	if os.Getenv("DEBUG") != "" {
		lvl.Set(slog.LevelDebug)
	}

	//
	// Create our logging handler, using the level we've just setup
	//
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))

	//
	// Create the processor.
	//
	c, err := cpu.New(cpu.WithLogger(log), cpu.WithBIOS(*bios))
	if err != nil {
		fmt.Printf("Error creating processor: %s\n", err)
		os.Exit(1)
	}

	if *printer != "" {
		c.Bus().AttachPrinter(ports.NewPrinter(*printer))
	}

	name, err := loadFirmware(c, *embedded, flag.Args())
	if err != nil {
		fmt.Printf("Usage: emu8086 [flags] path/to/firmware.bin\n")
		fmt.Printf("Error loading firmware: %s\n", err)
		os.Exit(1)
	}

	// Stop cleanly on Ctrl-C, and kill.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *useGUI {
		err = gui.Run(ctx, c, gui.Config{
			Steps:  *steps,
			Scale:  *scale,
			Title:  "emu8086 - " + name,
			Logger: log,
		})
	} else {
		err = runTerminal(ctx, c, *input, *output, *steps, *fps, *frames, log)
	}

	// Quitting isn't an error.
	if errors.Is(err, consolein.ErrInterrupted) || errors.Is(err, context.Canceled) {
		err = nil
	}

	if err != nil {
		fmt.Printf("Error running %s: %s\n", name, err)
		fmt.Printf("%s\n", c.State())
		stop()
		os.Exit(1)
	}
}

// runTerminal runs the processor using the named console drivers.
func runTerminal(ctx context.Context, c *cpu.CPU, input, output string, steps, fps, frames int, log *slog.Logger) error {

	in, err := consolein.New(input)
	if err != nil {
		return err
	}
	out, err := consoleout.New(output)
	if err != nil {
		return err
	}

	if err = out.Setup(); err != nil {
		return err
	}
	defer out.TearDown()

	if err = in.Setup(); err != nil {
		return err
	}
	defer in.TearDown()

	h := &host{
		cpu:    c,
		in:     in,
		out:    out,
		steps:  steps,
		fps:    fps,
		frames: frames,
		logger: log,
	}
	return h.run(ctx)
}
