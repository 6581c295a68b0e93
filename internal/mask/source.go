package mask

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var ErrEmptyImage = errors.New("image has no pixels")

// ImageLoadError reports a mask source that could not be read or decoded.
type ImageLoadError struct {
	Source string
	Err    error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("mask: load image %s: %v", e.Source, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }

// Source produces the photograph a mask is derived from.
type Source interface {
	Load(ctx context.Context) (image.Image, error)
	String() string
}

type fileSource string

// FileSource reads and decodes an image file (png, jpeg, gif, webp, bmp).
func FileSource(path string) Source { return fileSource(path) }

func (s fileSource) String() string { return string(s) }

func (s fileSource) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(string(s))
	if err != nil {
		return nil, &ImageLoadError{Source: string(s), Err: err}
	}
	return decode(string(s), data)
}

type bytesSource struct {
	name string
	data []byte
}

// BytesSource decodes an in-memory encoded image.
func BytesSource(name string, data []byte) Source {
	return bytesSource{name: name, data: data}
}

func (s bytesSource) String() string { return s.name }

func (s bytesSource) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decode(s.name, s.data)
}

type imageSource struct {
	img image.Image
}

// ImageSource serves an already decoded image.
func ImageSource(img image.Image) Source { return imageSource{img: img} }

func (s imageSource) String() string { return "<image>" }

func (s imageSource) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.img == nil || s.img.Bounds().Empty() {
		return nil, &ImageLoadError{Source: s.String(), Err: ErrEmptyImage}
	}
	return s.img, nil
}

func decode(name string, data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ImageLoadError{Source: name, Err: err}
	}
	if img.Bounds().Empty() {
		return nil, &ImageLoadError{Source: name, Err: ErrEmptyImage}
	}
	return img, nil
}
