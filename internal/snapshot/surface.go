// Package snapshot renders the rain and mask previews offscreen with gg, for
// PNG export without a window or terminal.
package snapshot

import (
	"image/color"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/iburimskiy/digital-rain/internal/rain"
)

// Surface draws engine output on a gg context. Fill errors are kept; check
// Err after rendering.
type Surface struct {
	dc     *gg.Context
	source *text.FontSource
	faces  map[float64]text.Face
	err    error
}

// NewSurface draws on dc with Go Mono glyphs.
func NewSurface(dc *gg.Context) (*Surface, error) {
	src, err := text.NewFontSource(gomono.TTF)
	if err != nil {
		return nil, err
	}
	return &Surface{dc: dc, source: src, faces: make(map[float64]text.Face)}, nil
}

// Close releases the font source.
func (s *Surface) Close() error {
	return s.source.Close()
}

// Err returns the first fill error.
func (s *Surface) Err() error { return s.err }

// ClearRect makes the whole canvas transparent when it covers it; partial
// clears paint opaque black.
func (s *Surface) ClearRect(x, y, w, h float64) {
	if x <= 0 && y <= 0 && x+w >= float64(s.dc.Width()) && y+h >= float64(s.dc.Height()) {
		s.dc.Clear()
		return
	}
	s.FillRect(x, y, w, h, color.NRGBA{A: 0xff})
}

func (s *Surface) FillRect(x, y, w, h float64, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	s.dc.SetColor(c)
	s.dc.DrawRectangle(x, y, w, h)
	if err := s.dc.Fill(); err != nil && s.err == nil {
		s.err = err
	}
}

func (s *Surface) FillText(str string, x, y float64, style rain.TextStyle) {
	if style.Color.A == 0 && style.ShadowColor.A == 0 {
		return
	}
	s.dc.SetFont(s.face(style.Size))
	for _, g := range style.Glow() {
		s.dc.SetColor(g.Color)
		s.dc.DrawString(str, x+g.Dx, y+g.Dy)
	}
	if style.Color.A > 0 {
		s.dc.SetColor(style.Color)
		s.dc.DrawString(str, x, y)
	}
}

func (s *Surface) face(size float64) text.Face {
	f, ok := s.faces[size]
	if !ok {
		f = s.source.Face(size)
		s.faces[size] = f
	}
	return f
}
