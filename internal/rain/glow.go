package rain

import "image/color"

const (
	// glowAlpha is the opacity of each glow copy relative to the shadow color.
	glowAlpha = 0.22
	// glowSpread maps a blur radius to the offset of the glow copies.
	glowSpread = 0.1
	maxGlowPx  = 3
)

// GlowPass is one translucent copy of a glyph drawn under it to imitate a
// shadow blur on surfaces without one.
type GlowPass struct {
	Dx, Dy float64
	Color  color.NRGBA
}

// Glow spreads four copies of the shadow color diagonally around the glyph
// anchor. It returns nil when the style has no visible shadow.
func (t TextStyle) Glow() []GlowPass {
	if t.ShadowBlur <= 0 || t.ShadowColor.A == 0 {
		return nil
	}
	d := min(max(t.ShadowBlur*glowSpread, 1), maxGlowPx)
	c := t.ShadowColor
	c.A = uint8(float64(c.A)*glowAlpha + 0.5)
	return []GlowPass{
		{Dx: -d, Dy: -d, Color: c},
		{Dx: d, Dy: -d, Color: c},
		{Dx: -d, Dy: d, Color: c},
		{Dx: d, Dy: d, Color: c},
	}
}
