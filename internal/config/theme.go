package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/digital-rain/internal/rain"
)

// Theme is a rain palette.
type Theme struct {
	Background colorful.Color
	Glyph      colorful.Color
	Shadow     colorful.Color
	Head       colorful.Color
}

var white = colorful.Color{R: 1, G: 1, B: 1}

// Base hues; the palette is derived from them by DeriveTheme.
var themeBases = map[string]string{
	"green":  "#00ff00",
	"amber":  "#ffbf00",
	"red":    "#ff0000",
	"orange": "#ffa500",
	"blue":   "#0096ff",
	"purple": "#8000ff",
	"cyan":   "#00ffff",
	"pink":   "#ff1493",
	"white":  "#ffffff",
}

// classic is the hand-picked green palette.
var classic = Theme{
	Background: mustHex("#000300"),
	Glyph:      mustHex("#00e600"),
	Shadow:     mustHex("#00ff00"),
	Head:       mustHex("#f4f7f4"),
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ThemeNames lists the named themes in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(themeBases))
	for n := range themeBases {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ResolveTheme accepts a theme name or a #rrggbb base color.
func ResolveTheme(name string) (Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "green" {
		return classic, nil
	}
	if hex, ok := themeBases[name]; ok {
		return DeriveTheme(mustHex(hex)), nil
	}
	if strings.HasPrefix(name, "#") {
		c, err := colorful.Hex(name)
		if err != nil {
			return Theme{}, fmt.Errorf("theme %q: %w", name, err)
		}
		return DeriveTheme(c), nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q", name)
}

// DeriveTheme builds a palette around base: a slightly darker glyph, the
// full-brightness hue as glow, a near-white head and a near-black background
// tinted with the hue.
func DeriveTheme(base colorful.Color) Theme {
	h, s, _ := base.Hsv()
	return Theme{
		Background: base.BlendRgb(colorful.Color{}, 0.988).Clamped(),
		Glyph:      colorful.Hsv(h, s, 0.9).Clamped(),
		Shadow:     colorful.Hsv(h, s, 1).Clamped(),
		Head:       base.BlendLab(white, 0.93).Clamped(),
	}
}

// Style converts the palette into an engine style with the default glow radii.
func (t Theme) Style() rain.Style {
	s := rain.DefaultStyle()
	s.Background = nrgba(t.Background)
	s.Glyph = nrgba(t.Glyph)
	s.GlyphShadow = nrgba(t.Shadow)
	s.Head = nrgba(t.Head)
	s.HeadShadow = nrgba(t.Head)
	return s
}

func nrgba(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}
