package game

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tinne26/etxt"
	"github.com/tinne26/etxt/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/iburimskiy/digital-rain/internal/rain"
)

// Surface draws engine output onto an ebiten image. Set Target before every
// Render call.
type Surface struct {
	Target *ebiten.Image
	text   *etxt.Renderer
	size   float64
}

// NewSurface creates a surface that draws glyphs with Go Mono.
func NewSurface() (*Surface, error) {
	f, _, err := font.ParseFromBytes(gomono.TTF)
	if err != nil {
		return nil, err
	}
	r := etxt.NewRenderer()
	r.Utils().SetCache8MiB()
	r.SetFont(f)
	return &Surface{text: r}, nil
}

func (s *Surface) ClearRect(x, y, w, h float64) {
	rect := image.Rect(int(math.Floor(x)), int(math.Floor(y)), int(math.Ceil(x+w)), int(math.Ceil(y+h)))
	rect = rect.Intersect(s.Target.Bounds())
	if rect.Empty() {
		return
	}
	s.Target.SubImage(rect).(*ebiten.Image).Clear()
}

func (s *Surface) FillRect(x, y, w, h float64, c color.NRGBA) {
	vector.DrawFilledRect(s.Target, float32(x), float32(y), float32(w), float32(h), c, false)
}

// FillText draws the glow as offset translucent copies under the glyph.
func (s *Surface) FillText(text string, x, y float64, style rain.TextStyle) {
	if style.Color.A == 0 && style.ShadowColor.A == 0 {
		return
	}
	if style.Size != s.size {
		s.text.SetSize(style.Size)
		s.size = style.Size
	}
	for _, g := range style.Glow() {
		s.text.SetColor(g.Color)
		s.text.Draw(s.Target, text, int(math.Round(x+g.Dx)), int(math.Round(y+g.Dy)))
	}
	if style.Color.A > 0 {
		s.text.SetColor(style.Color)
		s.text.Draw(s.Target, text, int(math.Round(x)), int(math.Round(y)))
	}
}
