// Package layout maps a continuous viewport onto a discrete character grid.
package layout

import "math"

// Offset is the sub-cell anchor applied when drawing a glyph inside its cell.
type Offset struct {
	X, Y float64
}

// Params describes the glyph cell geometry.
type Params struct {
	CellWidth     float64
	CellHeight    float64
	HorizontalGap float64
	VerticalGap   float64
	GlyphOffset   Offset
}

// Grid is the result of laying out a viewport. It is a value; recompute it
// on every resize.
type Grid struct {
	Rows    int
	Columns int

	CellWidth     float64
	CellHeight    float64
	HorizontalGap float64
	VerticalGap   float64

	MarginHorizontal float64
	MarginVertical   float64

	GlyphOffset Offset

	ViewportWidth  float64
	ViewportHeight float64
}

// Compute lays out a viewport. Viewports smaller than one cell produce zero
// rows or columns; that is a valid grid, not an error.
func Compute(viewportWidth, viewportHeight float64, p Params) Grid {
	g := Grid{
		CellWidth:      p.CellWidth,
		CellHeight:     p.CellHeight,
		HorizontalGap:  p.HorizontalGap,
		VerticalGap:    p.VerticalGap,
		GlyphOffset:    p.GlyphOffset,
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
	}
	g.Columns, g.MarginHorizontal = axis(viewportWidth, p.CellWidth, p.HorizontalGap)
	g.Rows, g.MarginVertical = axis(viewportHeight, p.CellHeight, p.VerticalGap)
	return g
}

// axis returns the cell count and centering margin along one dimension.
func axis(viewport, cell, gap float64) (int, float64) {
	pitch := cell + gap
	if pitch <= 0 || viewport <= 0 {
		return 0, 0
	}
	count := int(math.Floor(viewport / pitch))
	content := float64(count)*pitch - gap
	return count, math.Floor((viewport - content) / 2)
}

// Degenerate reports whether the grid has no cells.
func (g Grid) Degenerate() bool {
	return g.Rows <= 0 || g.Columns <= 0
}

// Cells is the number of cells in the grid.
func (g Grid) Cells() int {
	if g.Degenerate() {
		return 0
	}
	return g.Rows * g.Columns
}

// Pitch returns the horizontal and vertical cell pitch (cell plus gap).
func (g Grid) Pitch() (float64, float64) {
	return g.CellWidth + g.HorizontalGap, g.CellHeight + g.VerticalGap
}

// Contains reports whether (row, col) lies within the grid.
func (g Grid) Contains(row, col int) bool {
	return row >= 0 && row < g.Rows && col >= 0 && col < g.Columns
}

// CellOrigin returns the glyph anchor position of a cell, glyph offset included.
func (g Grid) CellOrigin(row, col int) (x, y float64) {
	px, py := g.Pitch()
	x = float64(col)*px + g.MarginHorizontal + g.GlyphOffset.X
	y = float64(row)*py + g.MarginVertical + g.GlyphOffset.Y
	return x, y
}

// CellRect returns the top-left corner and size of a cell, without the glyph offset.
func (g Grid) CellRect(row, col int) (x, y, w, h float64) {
	px, py := g.Pitch()
	return float64(col)*px + g.MarginHorizontal, float64(row)*py + g.MarginVertical, g.CellWidth, g.CellHeight
}

// ContentSize returns the size of the box the cells occupy.
func (g Grid) ContentSize() (w, h float64) {
	if g.Columns > 0 {
		w = float64(g.Columns)*(g.CellWidth+g.HorizontalGap) - g.HorizontalGap
	}
	if g.Rows > 0 {
		h = float64(g.Rows)*(g.CellHeight+g.VerticalGap) - g.VerticalGap
	}
	return w, h
}

// SameShape reports whether two grids have identical row and column counts.
func (g Grid) SameShape(o Grid) bool {
	return g.Rows == o.Rows && g.Columns == o.Columns
}
