// Command rainterm shows the digital rain in a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/digital-rain/internal/config"
	"github.com/iburimskiy/digital-rain/internal/term"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "rainterm:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Parse(flag.NewFlagSet("rainterm", flag.ExitOnError), args)
	if err != nil {
		return err
	}
	// stderr is the screen; only a log file receives output
	closeLog, err := cfg.SetupLogging(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	lp := term.LayoutParams()
	cfg.CellWidth, cfg.CellHeight = lp.CellWidth, lp.CellHeight
	cfg.HorizontalGap, cfg.VerticalGap = 0, 0
	cfg.GlyphOffsetX, cfg.GlyphOffsetY = 0, 0

	style, err := cfg.Style()
	if err != nil {
		return err
	}
	engine, _, err := cfg.NewEngine(nil)
	if err != nil {
		return err
	}
	defer engine.Destroy()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return term.Run(ctx, screen, engine, style, term.DefaultFrameInterval)
}
