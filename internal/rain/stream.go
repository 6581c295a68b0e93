package rain

import (
	"math"

	"github.com/iburimskiy/digital-rain/internal/glyphs"
	"github.com/iburimskiy/digital-rain/internal/layout"
	"github.com/iburimskiy/digital-rain/internal/mask"
)

const (
	glyphsPerSecond = 10
	glyphIntervalMs = 1000.0 / glyphsPerSecond

	minFadeDuration = 5
	maxFadeDuration = 8

	// One in hotSwapChance new glyphs gets a hot-swap timer.
	hotSwapChance     = 20
	minHotSwapDelayMs = 100
	maxHotSwapDelayMs = 800
)

type cellKey struct {
	row, col int
}

// hotSwap periodically replaces the glyph at an absolute row.
type hotSwap struct {
	row       int
	remaining float64
}

// Stream is one column's falling glyph sequence. glyphs acts as a bounded
// queue: the oldest glyph sits at index 0 on row startingRow.
type Stream struct {
	column      int
	glyphs      []rune
	startingRow int
	length      int
	fade        int

	timeUntilNextGlyph float64
	glyphInterval      float64

	// one entry per absolute row, in emission order
	hotSwaps []hotSwap
	expired  bool

	source *glyphs.Source
	rng    glyphs.Rand
}

// NewStream creates a stream for column on a grid with the given row count.
// Its length is drawn from [rows*0.5, rows*0.8] and its fade from [5, 8].
func NewStream(column, rows int, source *glyphs.Source, rng glyphs.Rand) *Stream {
	length := randInt(rng, int(math.Floor(float64(rows)*0.5)), int(math.Floor(float64(rows)*0.8)))
	if length < 1 {
		length = 1
	}
	return &Stream{
		column:        column,
		length:        length,
		fade:          randInt(rng, minFadeDuration, maxFadeDuration),
		glyphInterval: glyphIntervalMs,
		glyphs:        make([]rune, 0, length+1),
		source:        source,
		rng:           rng,
	}
}

// randInt returns a uniform integer in [lo, hi].
func randInt(rng glyphs.Rand, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return lo + rng.IntN(hi-lo+1)
}

func (s *Stream) Column() int       { return s.column }
func (s *Stream) StartingRow() int  { return s.startingRow }
func (s *Stream) Length() int       { return s.length }
func (s *Stream) FadeDuration() int { return s.fade }
func (s *Stream) Len() int          { return len(s.glyphs) }
func (s *Stream) HotSwaps() int     { return len(s.hotSwaps) }

// Expired reports whether the stream has left the grid and awaits removal.
func (s *Stream) Expired() bool { return s.expired }

// Glyphs returns a copy of the live glyphs, oldest first.
func (s *Stream) Glyphs() []rune {
	out := make([]rune, len(s.glyphs))
	copy(out, s.glyphs)
	return out
}

// Update advances the stream by delta milliseconds on a grid of rows rows.
func (s *Stream) Update(delta float64, rows int) {
	s.timeUntilNextGlyph -= delta
	s.updateHotSwaps(delta)

	if s.timeUntilNextGlyph <= 0 {
		s.timeUntilNextGlyph = s.glyphInterval
		s.emit()
	}
	if s.startingRow > rows+1 {
		s.expired = true
	}
}

func (s *Stream) emit() {
	s.glyphs = append(s.glyphs, s.source.Next())
	row := s.startingRow + len(s.glyphs) - 1
	if s.rng.IntN(hotSwapChance) == 0 {
		s.hotSwaps = append(s.hotSwaps, hotSwap{row: row, remaining: hotSwapDelay(s.rng)})
	}
	if len(s.glyphs) > s.length {
		s.glyphs = s.glyphs[1:]
		s.startingRow++
	}
}

func hotSwapDelay(rng glyphs.Rand) float64 {
	return float64(randInt(rng, minHotSwapDelayMs, maxHotSwapDelayMs))
}

// updateHotSwaps replaces glyphs whose timers ran out. Timers whose row left
// the visible window are dropped.
func (s *Stream) updateHotSwaps(delta float64) {
	kept := s.hotSwaps[:0]
	for _, hs := range s.hotSwaps {
		hs.remaining -= delta
		if hs.remaining > 0 {
			kept = append(kept, hs)
			continue
		}
		i := hs.row - s.startingRow
		if i < 0 || i >= len(s.glyphs) {
			continue
		}
		s.glyphs[i] = s.source.Next()
		hs.remaining = hotSwapDelay(s.rng)
		kept = append(kept, hs)
	}
	s.hotSwaps = kept
}

// opacity is the fade of the glyph at index i, before head and mask overrides.
func (s *Stream) opacity(i int) float64 {
	return clamp01(float64(s.length-len(s.glyphs)+i) / float64(s.fade))
}

// Render draws the visible glyphs. Cells already in painted were claimed by a
// newer stream this frame and are skipped; every drawn cell is added to painted.
func (s *Stream) Render(dst Surface, grid layout.Grid, m mask.Mask, painted map[cellKey]struct{}, style Style) {
	if s.column < 0 || s.column >= grid.Columns {
		return
	}
	last := len(s.glyphs) - 1
	for i, g := range s.glyphs {
		row := s.startingRow + i
		if row >= grid.Rows {
			break
		}
		key := cellKey{row: row, col: s.column}
		if _, ok := painted[key]; ok {
			continue
		}
		painted[key] = struct{}{}

		var ts TextStyle
		if i == last {
			ts = style.headText()
		} else {
			ts = style.glyphText(s.opacity(i))
		}
		if v, ok := m.At(row, s.column); ok && v == 0 {
			ts = ts.dim(style.MaskedOpacity)
		}
		x, y := grid.CellOrigin(row, s.column)
		dst.FillText(string(g), x, y, ts)
	}
}
