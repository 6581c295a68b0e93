package snapshot

import (
	"errors"
	"image/color"

	"github.com/gogpu/gg"

	"github.com/iburimskiy/digital-rain/internal/mask"
)

var ErrEmptyMask = errors.New("snapshot: mask is empty")

const panelGap = 16

var (
	previewBackground = color.NRGBA{0x10, 0x10, 0x10, 0xff}
	previewCell       = color.NRGBA{0xff, 0xff, 0xff, 0xff}
)

// gridSize is the canvas a mask needs with the given spacing; the margin
// equals the spacing.
func gridSize(m mask.Mask, p mask.Params, hgap, vgap float64) (w, h float64) {
	cols, rows := float64(m.Columns()), float64(m.Rows())
	w = p.CellWidth*cols + hgap*(cols-1) + hgap*2
	h = p.CellHeight*rows + vgap*(rows-1) + vgap*2
	return w, h
}

func drawGrid(dc *gg.Context, m mask.Mask, p mask.Params, ox, oy, hgap, vgap float64) error {
	dc.SetColor(previewCell)
	for row := range m {
		for col, v := range m[row] {
			if v == 0 {
				continue
			}
			x := ox + float64(col)*(p.CellWidth+hgap) + hgap
			y := oy + float64(row)*(p.CellHeight+vgap) + vgap
			dc.DrawRectangle(x, y, p.CellWidth, p.CellHeight)
		}
	}
	return dc.Fill()
}

// MaskPreview draws the filled cells of m twice, side by side: packed
// without spacing on the left and with the grid's gaps on the right.
func MaskPreview(m mask.Mask, p mask.Params) (*gg.Context, error) {
	if m.Rows() == 0 || m.Columns() == 0 {
		return nil, ErrEmptyMask
	}
	if p.CellWidth <= 0 || p.CellHeight <= 0 {
		p.CellWidth, p.CellHeight = 1, 1
	}
	packedW, packedH := gridSize(m, p, 0, 0)
	spacedW, spacedH := gridSize(m, p, p.HorizontalGap, p.VerticalGap)

	w := int(packedW + panelGap + spacedW + 0.5)
	h := int(max(packedH, spacedH) + 0.5)
	dc := gg.NewContext(w, h)
	dc.ClearWithColor(gg.FromColor(previewBackground))

	if err := drawGrid(dc, m, p, 0, 0, 0, 0); err != nil {
		return nil, err
	}
	if err := drawGrid(dc, m, p, packedW+panelGap, 0, p.HorizontalGap, p.VerticalGap); err != nil {
		return nil, err
	}
	return dc, nil
}
