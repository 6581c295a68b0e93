package mask

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultDebounce is how long Request waits for further requests before
// generating a mask.
const DefaultDebounce = 150 * time.Millisecond

// GenerateFunc matches Generate; tests substitute slow or failing pipelines.
type GenerateFunc func(ctx context.Context, src Source, p Params) (Mask, error)

// RefresherOptions configure a Refresher. Zero values select defaults.
type RefresherOptions struct {
	Debounce time.Duration
	Logger   *slog.Logger
	Generate GenerateFunc
	// Pipeline supplies Threshold, Binarize and SkipReapply for requests
	// that only describe the grid.
	Pipeline Params
}

// Refresher regenerates the mask off the frame loop whenever the grid or the
// source changes. Requests are debounced and every request takes a new
// generation number; a result is published only if no newer request has been
// made since, so late results of superseded work are dropped.
type Refresher struct {
	mu         sync.Mutex
	source     Source
	params     Params
	hasParams  bool
	generation uint64
	published  uint64
	current    Mask
	lastErr    error
	timer      *time.Timer
	closed     bool

	debounce time.Duration
	generate GenerateFunc
	logger   *slog.Logger
	pipeline Params

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefresher creates a Refresher for src, which may be nil until SetSource.
func NewRefresher(src Source, opts RefresherOptions) *Refresher {
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	if opts.Generate == nil {
		opts.Generate = Generate
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Refresher{
		source:   src,
		debounce: opts.Debounce,
		generate: opts.Generate,
		logger:   opts.Logger,
		pipeline: opts.Pipeline,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Request schedules a mask for the given grid. Only the parameters of the
// latest request are eventually honored.
func (r *Refresher) Request(p Params) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.Threshold == 0 {
		p.Threshold = r.pipeline.Threshold
	}
	p.Binarize = p.Binarize || r.pipeline.Binarize
	p.SkipReapply = p.SkipReapply || r.pipeline.SkipReapply
	r.params = p
	r.hasParams = true
	r.scheduleLocked()
}

// SetSource swaps the photograph and regenerates for the last requested grid.
// A nil source removes the mask.
func (r *Refresher) SetSource(src Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.source = src
	if src == nil {
		r.generation++
		r.published = r.generation
		r.current = nil
		r.lastErr = nil
		r.stopTimerLocked()
		return
	}
	if r.hasParams {
		r.scheduleLocked()
	}
}

func (r *Refresher) scheduleLocked() {
	if r.closed || r.source == nil {
		return
	}
	r.generation++
	gen, src, p := r.generation, r.source, r.params
	r.stopTimerLocked()

	r.wg.Add(1)
	r.timer = time.AfterFunc(r.debounce, func() {
		defer r.wg.Done()
		r.run(gen, src, p)
	})
}

// stopTimerLocked cancels a pending debounce; a fired timer accounts for its
// own wait group slot.
func (r *Refresher) stopTimerLocked() {
	if r.timer != nil && r.timer.Stop() {
		r.wg.Done()
	}
	r.timer = nil
}

func (r *Refresher) run(gen uint64, src Source, p Params) {
	if r.stale(gen) {
		return
	}
	start := time.Now()
	m, err := r.generate(r.ctx, src, p)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation || gen <= r.published {
		r.logger.Debug("mask result discarded", "generation", gen, "latest", r.generation)
		return
	}
	if err != nil && errors.Is(err, context.Canceled) {
		return
	}
	r.published = gen
	r.lastErr = err
	if err != nil {
		r.current = nil
		r.logger.Warn("mask generation failed, rendering unmasked", "source", src.String(), "error", err)
		return
	}
	r.current = m
	r.logger.Debug("mask published",
		"generation", gen,
		"rows", m.Rows(),
		"columns", m.Columns(),
		"filled", m.Filled(),
		"elapsed", time.Since(start))
}

func (r *Refresher) stale(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed || gen != r.generation
}

// Mask returns the latest published mask, or nil when there is none.
func (r *Refresher) Mask() Mask {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Err returns the error of the latest published generation.
func (r *Refresher) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Generation returns the latest requested and the latest published generation.
func (r *Refresher) Generation() (requested, published uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation, r.published
}

// Wait blocks until pending and in-flight generations finish.
func (r *Refresher) Wait() {
	r.wg.Wait()
}

// Close cancels pending work and waits for in-flight generations to return.
// Scaling stops at the next band of rows, but a source Load or a filter pass
// already underway runs to completion first.
func (r *Refresher) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.stopTimerLocked()
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()
}
