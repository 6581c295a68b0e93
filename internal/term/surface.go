// Package term runs the rain engine in a terminal through tcell.
//
// The engine works in pixels. Every terminal cell stands for a CellWidth x
// CellHeight pixel block, so masks keep the aspect ratio of the photograph.
package term

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/digital-rain/internal/layout"
	"github.com/iburimskiy/digital-rain/internal/rain"
)

// Approximate pixel size of one terminal cell.
const (
	CellWidth  = 8
	CellHeight = 16
)

// LayoutParams lays the rain grid out one glyph per terminal cell.
func LayoutParams() layout.Params {
	return layout.Params{CellWidth: CellWidth, CellHeight: CellHeight}
}

// Surface paints engine output into tcell cells. Translucent colors are
// blended over the background already in the cell.
type Surface struct {
	screen     tcell.Screen
	background colorful.Color
}

// NewSurface draws onto screen; background shows through cleared cells.
func NewSurface(screen tcell.Screen, background color.NRGBA) *Surface {
	return &Surface{screen: screen, background: fromNRGBA(background)}
}

func (s *Surface) ClearRect(x, y, w, h float64) {
	st := tcell.StyleDefault.Background(toTcell(s.background))
	s.eachCell(x, y, w, h, func(cx, cy int) {
		s.screen.SetContent(cx, cy, ' ', nil, st)
	})
}

func (s *Surface) FillRect(x, y, w, h float64, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	s.eachCell(x, y, w, h, func(cx, cy int) {
		r, _, st, _ := s.screen.GetContent(cx, cy)
		bg := s.cellBackground(st).BlendRgb(fromNRGBA(c), float64(c.A)/255)
		s.screen.SetContent(cx, cy, r, nil, st.Background(toTcell(bg)))
	})
}

func (s *Surface) FillText(text string, x, y float64, style rain.TextStyle) {
	if style.Color.A == 0 {
		return
	}
	// the anchor is the glyph baseline, which sits inside the cell
	cx, cy := int(math.Floor(x/CellWidth)), int(math.Floor(y/CellHeight))
	w, h := s.screen.Size()
	for _, r := range text {
		if cx < 0 || cy < 0 || cx >= w || cy >= h {
			return
		}
		_, _, st, _ := s.screen.GetContent(cx, cy)
		bg := s.cellBackground(st)
		fg := bg.BlendRgb(fromNRGBA(style.Color), float64(style.Color.A)/255)
		s.screen.SetContent(cx, cy, r, nil, tcell.StyleDefault.Background(toTcell(bg)).Foreground(toTcell(fg)))
		cx++
	}
}

func (s *Surface) eachCell(x, y, w, h float64, fn func(cx, cy int)) {
	sw, sh := s.screen.Size()
	x0 := max(int(math.Floor(x/CellWidth)), 0)
	y0 := max(int(math.Floor(y/CellHeight)), 0)
	x1 := min(int(math.Ceil((x+w)/CellWidth)), sw)
	y1 := min(int(math.Ceil((y+h)/CellHeight)), sh)
	for cy := y0; cy < y1; cy++ {
		for cx := x0; cx < x1; cx++ {
			fn(cx, cy)
		}
	}
}

func (s *Surface) cellBackground(st tcell.Style) colorful.Color {
	_, bg, _ := st.Decompose()
	if bg == tcell.ColorDefault || !bg.Valid() {
		return s.background
	}
	r, g, b := bg.RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

func fromNRGBA(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
