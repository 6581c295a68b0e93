package snapshot

import (
	"errors"
	"image/color"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iburimskiy/digital-rain/internal/glyphs"
	"github.com/iburimskiy/digital-rain/internal/layout"
	"github.com/iburimskiy/digital-rain/internal/mask"
	"github.com/iburimskiy/digital-rain/internal/rain"
)

func rgba8(c color.Color) (r, g, b, a uint8) {
	r32, g32, b32, a32 := c.RGBA()
	return uint8(r32 >> 8), uint8(g32 >> 8), uint8(b32 >> 8), uint8(a32 >> 8)
}

func newEngine() *rain.Engine {
	return rain.New(rain.Options{
		Layout: layout.Params{CellWidth: 12, CellHeight: 20, HorizontalGap: 2, VerticalGap: 4, GlyphOffset: layout.Offset{X: 1, Y: 17}},
		Rand:   rand.New(rand.NewPCG(1, 2)),
	})
}

func TestRenderDrawsRain(t *testing.T) {
	e := newEngine()
	dc, err := Render(e, Options{Width: 160, Height: 120, Frames: 120, Start: time.Unix(0, 0)})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img := dc.Image()
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 120 {
		t.Fatalf("image is %v", b)
	}
	bg := rain.DefaultStyle().Background
	if r, g, b, _ := rgba8(img.At(0, 0)); r != bg.R || g != bg.G || b != bg.B {
		t.Errorf("corner = %d,%d,%d, want background", r, g, b)
	}
	green := 0
	for y := 0; y < 120; y++ {
		for x := 0; x < 160; x++ {
			if _, g, _, _ := rgba8(img.At(x, y)); g > 100 {
				green++
			}
		}
	}
	if green == 0 {
		t.Error("no glyph pixels in the snapshot")
	}
	if e.Running() {
		t.Error("engine left running")
	}
}

func TestRenderRejectsEmptyCanvas(t *testing.T) {
	if _, err := Render(newEngine(), Options{Width: 0, Height: 10}); err == nil {
		t.Error("Render accepted a zero width")
	}
}

func TestRenderWaitsForMask(t *testing.T) {
	masks := &fixedMasks{}
	e := rain.New(rain.Options{
		Layout: layout.Params{CellWidth: 10, CellHeight: 10},
		Rand:   &glyphs.Scripted{},
		Masks:  masks,
	})
	called := false
	_, err := Render(e, Options{Width: 50, Height: 50, Frames: 2, AfterResize: func() {
		called = true
		if len(masks.requests) != 1 {
			t.Errorf("AfterResize ran before the mask request")
		}
	}})
	if err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("AfterResize not called")
	}
}

type fixedMasks struct{ requests []mask.Params }

func (f *fixedMasks) Request(p mask.Params) { f.requests = append(f.requests, p) }
func (f *fixedMasks) Mask() mask.Mask       { return nil }

func TestMaskPreview(t *testing.T) {
	m := mask.Mask{
		{1, 0, 1},
		{0, 1, 0},
	}
	p := mask.Params{CellWidth: 4, CellHeight: 6, HorizontalGap: 2, VerticalGap: 3}
	dc, err := MaskPreview(m, p)
	if err != nil {
		t.Fatalf("MaskPreview: %v", err)
	}
	// packed 12x12, spaced 3*4+2*2+4=20 by 2*6+3+6=21
	img := dc.Image()
	if b := img.Bounds(); b.Dx() != 12+panelGap+20 || b.Dy() != 21 {
		t.Fatalf("preview is %dx%d", b.Dx(), b.Dy())
	}
	tests := []struct {
		name  string
		x, y  int
		white bool
	}{
		{"packed filled", 2, 3, true},
		{"packed empty", 6, 3, false},
		{"packed second row", 6, 9, true},
		{"spaced margin", 12 + panelGap + 1, 1, false},
		{"spaced filled", 12 + panelGap + 4, 6, true},
		{"spaced gap", 12 + panelGap + 7, 6, false},
		{"spaced third column", 12 + panelGap + 16, 6, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _, _ := rgba8(img.At(tt.x, tt.y))
			if got := r > 200; got != tt.white {
				t.Errorf("pixel %d,%d red = %d, want white=%v", tt.x, tt.y, r, tt.white)
			}
		})
	}

	path := filepath.Join(t.TempDir(), "preview.png")
	if err := dc.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("preview not written: %v", err)
	}
}

func TestMaskPreviewEmpty(t *testing.T) {
	if _, err := MaskPreview(nil, mask.Params{CellWidth: 1, CellHeight: 1}); !errors.Is(err, ErrEmptyMask) {
		t.Errorf("err = %v, want ErrEmptyMask", err)
	}
}
