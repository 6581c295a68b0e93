package mask

import (
	"context"
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Clone copies img into a newly allocated RGBA buffer anchored at the origin.
func Clone(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Stretch scales img by independent width and height factors.
func Stretch(img image.Image, widthFactor, heightFactor float64) *image.RGBA {
	dst, _ := StretchContext(context.Background(), img, widthFactor, heightFactor)
	return dst
}

// StretchContext is Stretch that gives up between row bands once ctx is done.
func StretchContext(ctx context.Context, img image.Image, widthFactor, heightFactor float64) (*image.RGBA, error) {
	b := img.Bounds()
	w := max(1, int(math.Round(float64(b.Dx())*widthFactor)))
	h := max(1, int(math.Round(float64(b.Dy())*heightFactor)))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := scaleBands(ctx, dst, img, b); err != nil {
		return nil, err
	}
	return dst, nil
}

// bandRows is how many destination rows are scaled between cancellation checks.
const bandRows = 64

// scaleBands scales sr of src onto all of dst one band of rows at a time.
// Each band is a sub-image of dst with the full destination rectangle, so
// the result matches a single Scale call.
func scaleBands(ctx context.Context, dst *image.RGBA, src image.Image, sr image.Rectangle) error {
	dr := dst.Bounds()
	for y := dr.Min.Y; y < dr.Max.Y; y += bandRows {
		if err := ctx.Err(); err != nil {
			return err
		}
		band := image.Rect(dr.Min.X, y, dr.Max.X, min(y+bandRows, dr.Max.Y))
		xdraw.BiLinear.Scale(dst.SubImage(band).(*image.RGBA), dr, src, sr, xdraw.Src, nil)
	}
	return ctx.Err()
}

// CropRect returns the centered region of a sw x sh source that has the
// aspect ratio of a dw x dh destination. The longer dimension is cut.
func CropRect(sw, sh, dw, dh int) image.Rectangle {
	if sw <= 0 || sh <= 0 || dw <= 0 || dh <= 0 {
		return image.Rect(0, 0, max(sw, 0), max(sh, 0))
	}
	wRatio := float64(dw) / float64(sw)
	hRatio := float64(dh) / float64(sh)
	switch {
	case wRatio > hRatio:
		// cut top and bottom
		usable := float64(sh) * (hRatio / wRatio)
		y := int(math.Round((float64(sh) - usable) / 2))
		h := max(1, int(math.Round(usable)))
		return image.Rect(0, y, sw, y+h)
	case wRatio < hRatio:
		// cut left and right
		usable := float64(sw) * (wRatio / hRatio)
		x := int(math.Round((float64(sw) - usable) / 2))
		w := max(1, int(math.Round(usable)))
		return image.Rect(x, 0, x+w, sh)
	default:
		return image.Rect(0, 0, sw, sh)
	}
}

// Resize scales img to exactly width x height, cropping the centered region
// that keeps the aspect ratio.
func Resize(img image.Image, width, height int) *image.RGBA {
	dst, _ := ResizeContext(context.Background(), img, width, height)
	return dst
}

// ResizeContext is Resize that gives up between row bands once ctx is done.
func ResizeContext(ctx context.Context, img image.Image, width, height int) (*image.RGBA, error) {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return dst, ctx.Err()
	}
	b := img.Bounds()
	crop := CropRect(b.Dx(), b.Dy(), width, height).Add(b.Min)
	if err := scaleBands(ctx, dst, img, crop); err != nil {
		return nil, err
	}
	return dst, nil
}
