package rain

import (
	"math/rand/v2"
	"testing"

	"github.com/iburimskiy/digital-rain/internal/glyphs"
	"github.com/iburimskiy/digital-rain/internal/layout"
	"github.com/iburimskiy/digital-rain/internal/mask"
)

func abcSource() *glyphs.Source {
	return glyphs.MustNew([]rune("abcdefghij"), &glyphs.Scripted{Ints: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}})
}

func TestNewStreamRanges(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		s := NewStream(3, 40, abcSource(), rng)
		if s.Length() < 20 || s.Length() > 32 {
			t.Fatalf("length %d outside [20, 32]", s.Length())
		}
		if s.FadeDuration() < 5 || s.FadeDuration() > 8 {
			t.Fatalf("fade %d outside [5, 8]", s.FadeDuration())
		}
	}
	if s := NewStream(0, 0, abcSource(), rng); s.Length() != 1 {
		t.Errorf("zero-row stream length = %d, want 1", s.Length())
	}
}

func TestStreamInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	const rows = 30
	s := NewStream(0, rows, abcSource(), rng)
	prevStart := 0
	for step := 0; step < 2000 && !s.Expired(); step++ {
		s.Update(float64(rng.IntN(120)), rows)
		if s.Len() > s.Length() {
			t.Fatalf("step %d: %d glyphs exceed length %d", step, s.Len(), s.Length())
		}
		if s.StartingRow() < prevStart {
			t.Fatalf("step %d: startingRow decreased %d -> %d", step, prevStart, s.StartingRow())
		}
		prevStart = s.StartingRow()
		if s.Expired() != (s.StartingRow() > rows+1) {
			t.Fatalf("step %d: expired=%v with startingRow %d", step, s.Expired(), s.StartingRow())
		}
	}
	if !s.Expired() {
		t.Fatal("stream never expired")
	}
}

func TestStreamLifecycle(t *testing.T) {
	// all-zero script: length = floor(10*0.5) = 5, fade = 5, every glyph gets a hot-swap
	rng := &glyphs.Scripted{}
	s := NewStream(2, 10, abcSource(), rng)
	if s.Length() != 5 || s.FadeDuration() != 5 {
		t.Fatalf("length=%d fade=%d, want 5 and 5", s.Length(), s.FadeDuration())
	}

	s.Update(0, 10)
	if s.Len() != 1 {
		t.Fatalf("first update emitted %d glyphs, want 1", s.Len())
	}
	s.Update(50, 10)
	if s.Len() != 1 {
		t.Fatalf("glyph emitted before the interval elapsed")
	}
	for i := 0; i < 4; i++ {
		s.Update(glyphIntervalMs, 10)
	}
	if s.Len() != 5 || s.StartingRow() != 0 {
		t.Fatalf("growing: len=%d start=%d, want 5 and 0", s.Len(), s.StartingRow())
	}
	s.Update(glyphIntervalMs, 10)
	if s.Len() != 5 || s.StartingRow() != 1 {
		t.Fatalf("steady: len=%d start=%d, want 5 and 1", s.Len(), s.StartingRow())
	}
	for !s.Expired() {
		s.Update(glyphIntervalMs, 10)
	}
	if s.StartingRow() != 12 {
		t.Errorf("expired at startingRow %d, want 12", s.StartingRow())
	}
}

func TestStreamHotSwap(t *testing.T) {
	rng := &glyphs.Scripted{} // swap on every glyph, delay 100ms
	src := abcSource()
	s := NewStream(0, 10, src, rng)

	s.Update(0, 10)
	if s.HotSwaps() != 1 {
		t.Fatalf("HotSwaps = %d, want 1", s.HotSwaps())
	}
	first := s.Glyphs()[0]

	s.Update(60, 10)
	if s.Glyphs()[0] != first {
		t.Fatal("glyph swapped before its timer expired")
	}
	s.Update(40, 10) // swap timer and glyph timer both hit zero
	got := s.Glyphs()
	if got[0] == first {
		t.Errorf("glyph at row 0 was not swapped (still %q)", first)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if s.StartingRow() != 0 {
		t.Errorf("hot-swap moved the stream: startingRow %d", s.StartingRow())
	}
}

func TestStreamHotSwapPrunedOutsideWindow(t *testing.T) {
	s := &Stream{
		column:      0,
		glyphs:      []rune("xyz"),
		startingRow: 4,
		length:      3,
		fade:        5,
		hotSwaps:    []hotSwap{{row: 2, remaining: 10}, {row: 5, remaining: 10}},
		source:      abcSource(),
		rng:         &glyphs.Scripted{},
	}
	s.timeUntilNextGlyph = 1000
	s.Update(20, 10)
	if s.HotSwaps() != 1 {
		t.Fatalf("HotSwaps = %d, want 1 (row 2 pruned)", s.HotSwaps())
	}
	if g := s.Glyphs(); g[0] != 'x' || g[1] == 'y' || g[2] != 'z' {
		t.Errorf("glyphs = %q, want only index 1 swapped", string(g))
	}
}

func TestStreamRenderOpacity(t *testing.T) {
	s := &Stream{column: 1, glyphs: []rune("abcd"), startingRow: 0, length: 4, fade: 4}
	grid := layout.Compute(5, 10, unitCells)
	rec := &recorder{}
	s.Render(rec, grid, nil, map[cellKey]struct{}{}, DefaultStyle())

	if len(rec.texts) != 4 {
		t.Fatalf("drew %d glyphs, want 4", len(rec.texts))
	}
	style := DefaultStyle()
	wantAlpha := []uint8{0, 63, 127}
	for i, want := range wantAlpha {
		if got := rec.texts[i].style.Color.A; got != want {
			t.Errorf("glyph %d alpha = %d, want %d", i, got, want)
		}
	}
	if head := rec.texts[3].style; head.Color != style.Head || head.ShadowBlur != style.HeadShadowBlur {
		t.Errorf("head style = %+v, want highlight", head)
	}
	if rec.texts[2].x != 1 || rec.texts[2].y != 2 {
		t.Errorf("glyph 2 at %v,%v, want 1,2", rec.texts[2].x, rec.texts[2].y)
	}
}

func TestStreamRenderClipsRows(t *testing.T) {
	s := &Stream{column: 0, glyphs: []rune("abcd"), startingRow: 3, length: 4, fade: 4}
	grid := layout.Compute(2, 5, unitCells)
	rec := &recorder{}
	s.Render(rec, grid, nil, map[cellKey]struct{}{}, DefaultStyle())
	if len(rec.texts) != 2 {
		t.Errorf("drew %d glyphs on a 5-row grid from row 3, want 2", len(rec.texts))
	}
}

func TestStreamRenderMasked(t *testing.T) {
	s := &Stream{column: 0, glyphs: []rune("abc"), startingRow: 0, length: 3, fade: 1}
	grid := layout.Compute(1, 3, unitCells)
	m := mask.Mask{{0}, {1}, {0}}
	rec := &recorder{}
	style := DefaultStyle()
	s.Render(rec, grid, m, map[cellKey]struct{}{}, style)

	limit := uint8(style.MaskedOpacity * 255)
	if a := rec.texts[0].style.Color.A; a > limit {
		t.Errorf("masked glyph alpha %d above %d", a, limit)
	}
	if a := rec.texts[1].style.Color.A; a != 255 {
		t.Errorf("unmasked glyph alpha %d, want 255", a)
	}
	if a := rec.texts[2].style.Color.A; a > limit {
		t.Errorf("masked head alpha %d above %d", a, limit)
	}
}
