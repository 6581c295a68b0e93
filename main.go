package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/digital-rain/internal/config"
	"github.com/iburimskiy/digital-rain/internal/game"
	"github.com/iburimskiy/digital-rain/internal/rain"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "digital-rain:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Parse(flag.NewFlagSet("digital-rain", flag.ExitOnError), args)
	if err != nil {
		return err
	}
	closeLog, err := cfg.SetupLogging(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	engine, refresher, err := cfg.NewEngine(nil)
	if err != nil {
		return err
	}
	defer engine.Destroy()

	g, err := game.New(engine, refresher, game.DialogPicker)
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowTitle("Digital Rain - Space: pause, Down: slow motion, D: debug, 0-9: density, O: open mask, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// Render skips frames while paused; the previous frame must stay visible.
	ebiten.SetScreenClearedEveryFrame(false)

	engine.Start()
	rain.Logger().Info("window host running", "width", cfg.WindowWidth, "height", cfg.WindowHeight)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
