// Command rainshot renders the digital rain, or the mask preview, to a PNG
// file without opening a window.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iburimskiy/digital-rain/internal/config"
	"github.com/iburimskiy/digital-rain/internal/layout"
	"github.com/iburimskiy/digital-rain/internal/mask"
	"github.com/iburimskiy/digital-rain/internal/rain"
	"github.com/iburimskiy/digital-rain/internal/snapshot"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "rainshot:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("rainshot", flag.ExitOnError)
	out := fs.String("o", "rain.png", "output PNG")
	frames := fs.Int("frames", 180, "simulation steps before capture")
	preview := fs.String("mask-preview", "", "write the mask grid preview to this PNG")
	cfg, err := config.Parse(fs, args)
	if err != nil {
		return err
	}
	closeLog, err := cfg.SetupLogging(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	if *preview != "" {
		return writePreview(cfg, *preview)
	}

	engine, refresher, err := cfg.NewEngine(nil)
	if err != nil {
		return err
	}
	defer engine.Destroy()

	dc, err := snapshot.Render(engine, snapshot.Options{
		Width:       cfg.WindowWidth,
		Height:      cfg.WindowHeight,
		Frames:      *frames,
		Start:       time.Unix(0, 0),
		AfterResize: refresher.Wait,
	})
	if err != nil {
		return err
	}
	if err := refresher.Err(); err != nil {
		rain.Logger().Warn("snapshot rendered without mask", "error", err)
	}
	return dc.SavePNG(*out)
}

// writePreview generates the mask for the configured window and saves the
// packed and spaced grid renderings.
func writePreview(cfg config.Config, path string) error {
	if cfg.MaskImage == "" {
		return errors.New("-mask-preview needs -mask")
	}
	grid := layout.Compute(float64(cfg.WindowWidth), float64(cfg.WindowHeight), cfg.LayoutParams())
	p := cfg.MaskPipeline()
	p.Columns, p.Rows = grid.Columns, grid.Rows
	p.CellWidth, p.CellHeight = grid.CellWidth, grid.CellHeight
	p.HorizontalGap, p.VerticalGap = grid.HorizontalGap, grid.VerticalGap

	m, err := mask.Generate(context.Background(), mask.FileSource(cfg.MaskImage), p)
	if err != nil {
		return err
	}
	dc, err := snapshot.MaskPreview(m, p)
	if err != nil {
		return err
	}
	rain.Logger().Info("mask preview", "columns", m.Columns(), "rows", m.Rows(), "filled", m.Filled())
	return dc.SavePNG(path)
}
