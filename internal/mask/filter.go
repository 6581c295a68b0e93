package mask

import (
	"image"
	"math"
)

// DefaultThreshold is the relative luminance at or above which a pixel is white.
const DefaultThreshold = 0.2

// Filter rewrites the pixels of img in place. Callers go through ApplyFilter,
// which hands the filter a private copy.
type Filter func(img *image.RGBA)

// linearize converts one 8-bit sRGB channel to linear light.
func linearize(c uint8) float64 {
	p := float64(c) / 255
	if p <= 0.03928 {
		return p / 12.92
	}
	return math.Pow((p+0.055)/1.055, 2.4)
}

// Luminance returns the relative luminance of an sRGB color, in [0, 1].
func Luminance(r, g, b uint8) float64 {
	return 0.2126*linearize(r) + 0.7152*linearize(g) + 0.0722*linearize(b)
}

// LuminanceFilter binarizes every pixel to opaque black or white depending on
// whether its luminance reaches threshold.
func LuminanceFilter(threshold float64) Filter {
	return func(img *image.RGBA) {
		pix := img.Pix
		for i := 0; i+3 < len(pix); i += 4 {
			var v uint8
			if Luminance(pix[i], pix[i+1], pix[i+2]) >= threshold {
				v = 255
			}
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
		}
	}
}

// BinarizationFilter binarizes on the plain channel average, white above 127.5.
func BinarizationFilter() Filter {
	const threshold = 255.0 / 2
	return func(img *image.RGBA) {
		pix := img.Pix
		for i := 0; i+3 < len(pix); i += 4 {
			avg := (float64(pix[i]) + float64(pix[i+1]) + float64(pix[i+2])) / 3
			var v uint8
			if threshold < avg {
				v = 255
			}
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
		}
	}
}

// ApplyFilter runs f on a copy of src and returns the copy.
func ApplyFilter(src *image.RGBA, f Filter) *image.RGBA {
	dst := Clone(src)
	f(dst)
	return dst
}
