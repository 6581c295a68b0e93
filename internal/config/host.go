package config

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/iburimskiy/digital-rain/internal/glyphs"
	"github.com/iburimskiy/digital-rain/internal/mask"
	"github.com/iburimskiy/digital-rain/internal/rain"
)

// SetupLogging installs the engine logger. Nothing is logged unless Verbose
// is set or a log file is named; the file receives debug output. The
// returned func closes the log file.
func (c Config) SetupLogging(stderr io.Writer) (func() error, error) {
	noop := func() error { return nil }
	if !c.Verbose && c.LogFile == "" {
		rain.SetLogger(nil)
		return noop, nil
	}
	w, closer := stderr, noop
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f.Close
	}
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	rain.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return closer, nil
}

// Rand returns the seeded generator, or a randomly seeded one for seed 0.
func (c Config) Rand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewEngine wires an engine and its mask refresher. The refresher is closed
// when the engine is destroyed. now may be nil for the wall clock.
func (c Config) NewEngine(now func() time.Time) (*rain.Engine, *mask.Refresher, error) {
	style, err := c.Style()
	if err != nil {
		return nil, nil, err
	}
	alphabet, err := c.Glyphs()
	if err != nil {
		return nil, nil, err
	}
	rng := c.Rand()
	src, err := glyphs.New(alphabet, rng)
	if err != nil {
		return nil, nil, err
	}

	var maskSrc mask.Source
	if c.MaskImage != "" {
		maskSrc = mask.FileSource(c.MaskImage)
	}
	refresher := mask.NewRefresher(maskSrc, mask.RefresherOptions{
		Debounce: c.MaskDebounce,
		Logger:   rain.Logger(),
		Pipeline: c.MaskPipeline(),
	})

	engine := rain.New(rain.Options{
		Layout:        c.LayoutParams(),
		Style:         style,
		Glyphs:        src,
		Rand:          rng,
		Masks:         refresher,
		Initial:       c.InitialState(),
		Now:           now,
		Subscriptions: []rain.Subscription{rain.SubscriptionFunc(refresher.Close)},
	})
	return engine, refresher, nil
}
