package rain

import (
	"image/color"
	"time"

	"github.com/iburimskiy/digital-rain/internal/glyphs"
	"github.com/iburimskiy/digital-rain/internal/layout"
	"github.com/iburimskiy/digital-rain/internal/mask"
)

type textCall struct {
	text  string
	x, y  float64
	style TextStyle
}

// recorder is a Surface that remembers every draw call.
type recorder struct {
	clears int
	rects  int
	texts  []textCall
}

func (r *recorder) ClearRect(x, y, w, h float64)               { r.clears++ }
func (r *recorder) FillRect(x, y, w, h float64, c color.NRGBA) { r.rects++ }
func (r *recorder) FillText(text string, x, y float64, style TextStyle) {
	r.texts = append(r.texts, textCall{text: text, x: x, y: y, style: style})
}

func (r *recorder) reset() { *r = recorder{} }

type staticMasks struct {
	m        mask.Mask
	requests []mask.Params
}

func (s *staticMasks) Request(p mask.Params) { s.requests = append(s.requests, p) }
func (s *staticMasks) Mask() mask.Mask       { return s.m }

// unit cells make grid rows/columns equal the viewport size
var unitCells = layout.Params{CellWidth: 1, CellHeight: 1}

func newTestEngine(rng glyphs.Rand, opts Options) *Engine {
	opts.Rand = rng
	if opts.Glyphs == nil {
		opts.Glyphs = glyphs.MustNew([]rune("abcdefghij"), &glyphs.Scripted{Ints: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}})
	}
	if opts.Layout == (layout.Params{}) {
		opts.Layout = unitCells
	}
	return New(opts)
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func frame(n int) time.Time {
	return epoch.Add(time.Duration(n) * time.Second / 60)
}
