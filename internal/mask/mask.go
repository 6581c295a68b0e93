// Package mask turns a photograph into a per-cell occupancy grid aligned with
// the character grid.
//
// The pipeline runs in fixed order: stretch for non-square cells, luminance
// threshold, centered crop-resize to the grid size, threshold again, then
// occupancy extraction. Every step allocates a fresh buffer.
package mask

import (
	"context"
	"image"
)

// Mask is a rows x columns grid of 0 (background) and 1 (filled).
type Mask [][]uint8

// Rows returns the number of rows.
func (m Mask) Rows() int { return len(m) }

// Columns returns the number of columns.
func (m Mask) Columns() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// At returns the cell value and whether (row, col) is inside the mask.
func (m Mask) At(row, col int) (uint8, bool) {
	if row < 0 || row >= len(m) || col < 0 || col >= len(m[row]) {
		return 0, false
	}
	return m[row][col], true
}

// Filled counts the cells set to 1.
func (m Mask) Filled() int {
	n := 0
	for _, row := range m {
		for _, v := range row {
			n += int(v)
		}
	}
	return n
}

// Params are the target grid dimensions and the cell geometry the mask must match.
type Params struct {
	Columns       int
	Rows          int
	CellWidth     float64
	CellHeight    float64
	HorizontalGap float64
	VerticalGap   float64

	// Threshold overrides DefaultThreshold when positive.
	Threshold float64
	// Binarize selects BinarizationFilter in place of the luminance threshold.
	Binarize bool
	// SkipReapply leaves the gray values that resampling introduces; Extract
	// then counts any non-black pixel as filled.
	SkipReapply bool
}

func (p Params) filter() Filter {
	if p.Binarize {
		return BinarizationFilter()
	}
	if p.Threshold > 0 {
		return LuminanceFilter(p.Threshold)
	}
	return LuminanceFilter(DefaultThreshold)
}

// StretchFactors returns the width and height factors that cancel the
// distortion non-square cells would otherwise introduce.
func StretchFactors(p Params) (widthFactor, heightFactor float64) {
	widthFactor, heightFactor = 1, 1
	hPitch := p.CellWidth + p.HorizontalGap
	vPitch := p.CellHeight + p.VerticalGap
	if hPitch <= 0 || vPitch <= 0 {
		return widthFactor, heightFactor
	}
	switch {
	case p.CellWidth < p.CellHeight:
		widthFactor = vPitch / hPitch
	case p.CellHeight < p.CellWidth:
		heightFactor = hPitch / vPitch
	}
	return widthFactor, heightFactor
}

// Extract reads the occupancy of every pixel: a pixel is filled when it is
// neither black nor transparent.
func Extract(img *image.RGBA) Mask {
	b := img.Bounds()
	m := make(Mask, b.Dy())
	for y := 0; y < b.Dy(); y++ {
		m[y] = make([]uint8, b.Dx())
		for x := 0; x < b.Dx(); x++ {
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			r, g, bl, a := img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]
			if float64(r)*float64(g)*float64(bl)*(float64(a)/255) != 0 {
				m[y][x] = 1
			}
		}
	}
	return m
}

// FromImage runs the pipeline on an already decoded image.
func FromImage(ctx context.Context, img image.Image, p Params) (Mask, error) {
	if p.Columns <= 0 || p.Rows <= 0 {
		return Mask{}, nil
	}
	wf, hf := StretchFactors(p)
	stretched, err := StretchContext(ctx, img, wf, hf)
	if err != nil {
		return nil, err
	}

	f := p.filter()
	filtered := ApplyFilter(stretched, f)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resized, err := ResizeContext(ctx, filtered, p.Columns, p.Rows)
	if err != nil {
		return nil, err
	}
	if !p.SkipReapply {
		resized = ApplyFilter(resized, f)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Extract(resized), nil
}

// Generate loads src and derives a mask for the grid described by p. Load
// failures are returned as *ImageLoadError.
func Generate(ctx context.Context, src Source, p Params) (Mask, error) {
	if p.Columns <= 0 || p.Rows <= 0 {
		return Mask{}, nil
	}
	img, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return FromImage(ctx, img, p)
}
