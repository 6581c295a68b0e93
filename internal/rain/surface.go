package rain

import "image/color"

// Surface is the 2D immediate-mode target the engine draws on. Colors carry
// straight (non-premultiplied) alpha.
type Surface interface {
	ClearRect(x, y, w, h float64)
	FillRect(x, y, w, h float64, c color.NRGBA)
	// FillText draws text with its baseline-left anchor at (x, y).
	FillText(text string, x, y float64, style TextStyle)
}

// TextStyle is the font and paint state of one FillText call.
type TextStyle struct {
	Size        float64
	Color       color.NRGBA
	ShadowColor color.NRGBA
	ShadowBlur  float64
}

// Style holds the palette the engine paints with.
type Style struct {
	FontSize        float64
	Background      color.NRGBA
	Glyph           color.NRGBA
	GlyphShadow     color.NRGBA
	GlyphShadowBlur float64
	Head            color.NRGBA
	HeadShadow      color.NRGBA
	HeadShadowBlur  float64
	// MaskedOpacity caps the opacity of cells the mask marks as background.
	MaskedOpacity float64
	DebugGrid     color.NRGBA
	DebugMask     color.NRGBA
}

// DefaultStyle is the classic green-on-black palette.
func DefaultStyle() Style {
	return Style{
		FontSize:        20,
		Background:      color.NRGBA{0x00, 0x03, 0x00, 0xff},
		Glyph:           color.NRGBA{0x00, 0xe6, 0x00, 0xff},
		GlyphShadow:     color.NRGBA{0x00, 0xff, 0x00, 0xff},
		GlyphShadowBlur: 14,
		Head:            color.NRGBA{0xf4, 0xf7, 0xf4, 0xff},
		HeadShadow:      color.NRGBA{0xf4, 0xf7, 0xf4, 0xff},
		HeadShadowBlur:  20,
		MaskedOpacity:   0.2,
		DebugGrid:       color.NRGBA{0x40, 0x80, 0x40, 0x30},
		DebugMask:       color.NRGBA{0xff, 0xff, 0xff, 0x50},
	}
}

func (s Style) glyphText(opacity float64) TextStyle {
	return TextStyle{
		Size:        s.FontSize,
		Color:       withAlpha(s.Glyph, opacity),
		ShadowColor: withAlpha(s.GlyphShadow, opacity),
		ShadowBlur:  s.GlyphShadowBlur,
	}
}

func (s Style) headText() TextStyle {
	return TextStyle{
		Size:        s.FontSize,
		Color:       s.Head,
		ShadowColor: s.HeadShadow,
		ShadowBlur:  s.HeadShadowBlur,
	}
}

// dim caps the opacity of an already built text style.
func (t TextStyle) dim(limit float64) TextStyle {
	a := uint8(clamp01(limit) * 255)
	if t.Color.A > a {
		t.Color.A = a
	}
	if t.ShadowColor.A > a {
		t.ShadowColor.A = a
	}
	return t
}

// withAlpha scales c's alpha by opacity.
func withAlpha(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(float64(c.A) * clamp01(opacity))
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
