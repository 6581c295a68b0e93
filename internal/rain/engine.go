// Package rain simulates and renders the falling-glyph effect: per-column
// streams of glyphs that grow, slide down the grid and fade out, optionally
// suppressed outside the shape of a photo-derived mask.
//
// The engine is single threaded. The host drives it once per display tick
// with Step (or Tick) followed by Render, and forwards resize and key events
// from the same goroutine.
package rain

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/iburimskiy/digital-rain/internal/glyphs"
	"github.com/iburimskiy/digital-rain/internal/layout"
	"github.com/iburimskiy/digital-rain/internal/mask"
)

const (
	// spawn probability per reference frame: spawnBase + spawnDensityWeight*density
	spawnBase          = 0.05
	spawnDensityWeight = 0.45
	referenceFrameMs   = 1000.0 / 60

	spawnRetries = 100

	DefaultDensity          = 1.0
	DefaultSlowMotionFactor = 4.0
	minDensity              = 0.1

	frameTapSize = 120
)

// MaskSource supplies the current mask and accepts refresh requests.
// *mask.Refresher implements it.
type MaskSource interface {
	Request(p mask.Params)
	Mask() mask.Mask
}

// State is the user-tunable simulation state.
type State struct {
	Paused           bool
	SlowMotion       bool
	SlowMotionFactor float64
	Debug            bool
	Density          float64
}

// Options configure an Engine. Zero values select defaults.
type Options struct {
	Layout  layout.Params
	Style   Style
	Glyphs  *glyphs.Source
	Rand    glyphs.Rand
	Masks   MaskSource
	Initial State
	// Now is the frame clock used by Tick.
	Now           func() time.Time
	Subscriptions []Subscription
}

// Engine owns the frame loop state, the grid and the live streams.
type Engine struct {
	opts  Options
	state State
	grid  layout.Grid

	streams []*Stream
	painted map[cellKey]struct{}

	running   bool
	destroyed bool
	lastTime  time.Time
	hasLast   bool
	dirty     bool

	tap *frameTap
}

// New creates a stopped engine.
func New(opts Options) *Engine {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Glyphs == nil {
		set, _ := glyphs.Resolve("default")
		opts.Glyphs = glyphs.MustNew(set, opts.Rand)
	}
	if opts.Style == (Style{}) {
		opts.Style = DefaultStyle()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Initial.Density <= 0 || opts.Initial.Density > 1 {
		opts.Initial.Density = DefaultDensity
	}
	if opts.Initial.SlowMotionFactor <= 0 {
		opts.Initial.SlowMotionFactor = DefaultSlowMotionFactor
	}
	return &Engine{
		opts:    opts,
		state:   opts.Initial,
		painted: make(map[cellKey]struct{}),
		tap:     newFrameTap(frameTapSize),
	}
}

// Start resets the simulation state and starts accepting frame steps.
// Calling Start on a running engine does nothing.
func (e *Engine) Start() {
	if e.destroyed {
		Logger().Warn("start called on destroyed engine")
		return
	}
	if e.running {
		Logger().Warn("start called while running")
		return
	}
	e.state = e.opts.Initial
	e.streams = nil
	clear(e.painted)
	e.hasLast = false
	e.tap = newFrameTap(frameTapSize)
	e.running = true
	e.dirty = true
	Logger().Info("engine started", "rows", e.grid.Rows, "columns", e.grid.Columns)
}

// Stop halts the frame loop; the surface keeps its last frame.
func (e *Engine) Stop() {
	if !e.running {
		return
	}
	e.running = false
	Logger().Info("engine stopped", "streams", len(e.streams))
}

// Destroy stops the engine and releases every subscription it was given.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.Stop()
	e.destroyed = true
	for _, s := range e.opts.Subscriptions {
		s.Unsubscribe()
	}
	e.opts.Subscriptions = nil
	Logger().Info("engine destroyed")
}

// Running reports whether Start has been called without a later Stop.
func (e *Engine) Running() bool { return e.running }

// OnResize lays the grid out for a new viewport and requests a matching mask.
// Live streams are left alone.
func (e *Engine) OnResize(width, height int) {
	e.grid = layout.Compute(float64(width), float64(height), e.opts.Layout)
	e.dirty = true
	Logger().Debug("layout",
		"width", width,
		"height", height,
		"rows", e.grid.Rows,
		"columns", e.grid.Columns,
		"margin_h", e.grid.MarginHorizontal,
		"margin_v", e.grid.MarginVertical)
	if e.opts.Masks != nil {
		e.opts.Masks.Request(e.maskParams())
	}
}

func (e *Engine) maskParams() mask.Params {
	return mask.Params{
		Columns:       e.grid.Columns,
		Rows:          e.grid.Rows,
		CellWidth:     e.grid.CellWidth,
		CellHeight:    e.grid.CellHeight,
		HorizontalGap: e.grid.HorizontalGap,
		VerticalGap:   e.grid.VerticalGap,
	}
}

// Tick runs one frame step at the engine clock's current time.
func (e *Engine) Tick() {
	e.Step(e.opts.Now())
}

// Step advances the simulation to now. The first step after Start has a zero
// delta. While paused nothing advances and the next Render draws nothing.
func (e *Engine) Step(now time.Time) {
	if !e.running {
		return
	}
	var delta float64
	if e.hasLast {
		delta = float64(now.Sub(e.lastTime)) / float64(time.Millisecond)
	}
	if delta < 0 {
		delta = 0
	}
	e.lastTime = now
	e.hasLast = true
	e.tap.record(delta)

	if e.state.Paused {
		return
	}
	if e.state.SlowMotion {
		delta /= e.state.SlowMotionFactor
	}
	e.advance(delta)
	e.dirty = true
}

// advance runs spawn, update and cull for delta simulated milliseconds.
func (e *Engine) advance(delta float64) {
	e.spawn(delta)
	for _, s := range e.streams {
		s.Update(delta, e.grid.Rows)
	}
	e.cull()
}

// spawnProbability is the chance of a spawn this frame. It scales with the
// wall-clock frame length, so slow motion does not change the spawn rate.
func (e *Engine) spawnProbability(delta float64) float64 {
	wall := delta
	if e.state.SlowMotion {
		wall *= e.state.SlowMotionFactor
	}
	return clamp01((spawnBase + spawnDensityWeight*e.state.Density) * wall / referenceFrameMs)
}

// waitThreshold is the glyph count a column's newest stream must reach
// before another stream may start in that column.
func (e *Engine) waitThreshold() float64 {
	return 12 - 10*e.state.Density
}

func (e *Engine) spawn(delta float64) {
	if e.grid.Degenerate() {
		return
	}
	if e.opts.Rand.Float64() >= e.spawnProbability(delta) {
		return
	}
	wait := e.waitThreshold()
	for attempt := 0; attempt < spawnRetries; attempt++ {
		col := e.opts.Rand.IntN(e.grid.Columns)
		if e.columnBusy(col, wait) {
			continue
		}
		e.streams = append(e.streams, NewStream(col, e.grid.Rows, e.opts.Glyphs, e.opts.Rand))
		return
	}
}

func (e *Engine) columnBusy(col int, wait float64) bool {
	for _, s := range e.streams {
		if s.column == col && float64(len(s.glyphs)) < wait {
			return true
		}
	}
	return false
}

func (e *Engine) cull() {
	kept := e.streams[:0]
	for _, s := range e.streams {
		if !s.expired {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(e.streams); i++ {
		e.streams[i] = nil
	}
	e.streams = kept
}

// Render draws the current frame. Newer streams are drawn first so they keep
// the cells they share with older ones. Render reports whether it drew; it
// does not draw when nothing changed since the last Render. While paused the
// surface is left untouched; resizes and debug toggles made during the pause
// are drawn on the first Render after it ends.
func (e *Engine) Render(dst Surface) bool {
	if !e.dirty || e.state.Paused {
		return false
	}
	e.dirty = false

	dst.ClearRect(0, 0, e.grid.ViewportWidth, e.grid.ViewportHeight)
	if e.opts.Style.Background.A > 0 {
		dst.FillRect(0, 0, e.grid.ViewportWidth, e.grid.ViewportHeight, e.opts.Style.Background)
	}
	clear(e.painted)

	m := e.Mask()
	for i := len(e.streams) - 1; i >= 0; i-- {
		e.streams[i].Render(dst, e.grid, m, e.painted, e.opts.Style)
	}
	if e.state.Debug {
		e.renderDebug(dst, m)
	}
	return true
}

// renderDebug outlines every cell and highlights the filled mask cells.
func (e *Engine) renderDebug(dst Surface, m mask.Mask) {
	for row := 0; row < e.grid.Rows; row++ {
		for col := 0; col < e.grid.Columns; col++ {
			x, y, w, h := e.grid.CellRect(row, col)
			c := e.opts.Style.DebugGrid
			if v, ok := m.At(row, col); ok && v == 1 {
				c = e.opts.Style.DebugMask
			}
			dst.FillRect(x, y, w, h, c)
		}
	}
}

// Mask returns the mask rendering consults, or nil.
func (e *Engine) Mask() mask.Mask {
	if e.opts.Masks == nil {
		return nil
	}
	return e.opts.Masks.Mask()
}

// TogglePause freezes or resumes the simulation.
func (e *Engine) TogglePause() {
	e.state.Paused = !e.state.Paused
	Logger().Debug("pause", "paused", e.state.Paused)
}

// ToggleSlowMotion switches between normal speed and SlowMotionFactor times slower.
func (e *Engine) ToggleSlowMotion() {
	e.state.SlowMotion = !e.state.SlowMotion
	Logger().Debug("slow motion", "enabled", e.state.SlowMotion)
}

// ToggleDebug shows or hides the grid and mask overlay.
func (e *Engine) ToggleDebug() {
	e.state.Debug = !e.state.Debug
	e.dirty = true
}

// SetDensity sets the spawn density, clamped to [0.1, 1].
func (e *Engine) SetDensity(d float64) {
	e.state.Density = min(max(d, minDensity), 1)
	Logger().Debug("density", "density", e.state.Density)
}

// State returns a copy of the simulation state.
func (e *Engine) State() State { return e.state }

// Grid returns the current layout.
func (e *Engine) Grid() layout.Grid { return e.grid }

// Streams returns the live streams, oldest first. The slice must not be modified.
func (e *Engine) Streams() []*Stream { return e.streams }

// FPS is the average frame rate over recent steps.
func (e *Engine) FPS() float64 { return e.tap.fps() }

// Status summarizes the engine for debug overlays.
func (e *Engine) Status() string {
	maskState := "none"
	if m := e.Mask(); m != nil {
		maskState = fmt.Sprintf("%dx%d", m.Columns(), m.Rows())
	}
	flags := ""
	if e.state.Paused {
		flags += " paused"
	}
	if e.state.SlowMotion {
		flags += fmt.Sprintf(" slow x%g", e.state.SlowMotionFactor)
	}
	return fmt.Sprintf("fps %.0f | grid %dx%d | streams %d | density %.1f | mask %s%s",
		e.FPS(), e.grid.Columns, e.grid.Rows, len(e.streams), e.state.Density, maskState, flags)
}
