package composite

import (
	"image"

	"golang.org/x/image/draw"
)

// Thumbnail scales img down so its width is at most maxWidth, keeping the
// aspect ratio. Images already small enough, or maxWidth <= 0, are returned
// unchanged.
func Thumbnail(img *image.NRGBA, maxWidth int) *image.NRGBA {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}

	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}

	// Downsample with CatmullRom (approximates Lanczos)
	dst := image.NewNRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
