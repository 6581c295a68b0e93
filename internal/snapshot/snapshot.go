package snapshot

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gg"

	"github.com/iburimskiy/digital-rain/internal/rain"
)

// DefaultFrameInterval steps the simulation at 60 frames per second.
const DefaultFrameInterval = time.Second / 60

// Options control an offscreen run.
type Options struct {
	Width, Height int
	// Frames is the number of simulation steps before the frame is captured.
	Frames        int
	FrameInterval time.Duration
	// Start is the clock of the first step.
	Start time.Time
	// AfterResize runs once the grid is known, e.g. to wait for the mask.
	AfterResize func()
}

// Render runs engine for opts.Frames steps on a fixed clock and draws the
// final frame. The engine is left stopped.
func Render(engine *rain.Engine, opts Options) (*gg.Context, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("snapshot size %dx%d", opts.Width, opts.Height)
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	dc := gg.NewContext(opts.Width, opts.Height)
	s, err := NewSurface(dc)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	engine.OnResize(opts.Width, opts.Height)
	if opts.AfterResize != nil {
		opts.AfterResize()
	}
	engine.Start()
	defer engine.Stop()

	now := opts.Start
	for i := 0; i < opts.Frames; i++ {
		engine.Step(now)
		now = now.Add(opts.FrameInterval)
	}
	if !engine.Render(s) {
		return nil, errors.New("snapshot: engine produced no frame")
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	rain.Logger().Info("snapshot rendered", "frames", opts.Frames, "streams", len(engine.Streams()))
	return dc, nil
}
