package composite

import (
	"fmt"
	"image"

	"vertex-mask/internal/mask"
)

// Blend weights for the review overlay.
const (
	ImageWeight = 0.8
	MaskWeight  = 0.2
)

// Composite is a floating-point RGB image, nominally in [0, 1].
type Composite struct {
	Width  int
	Height int
	Pix    []float64 // RGB interleaved, len = W*H*3
}

// At returns the RGB triple at (x, y).
func (c *Composite) At(x, y int) [3]float64 {
	i := (y*c.Width + x) * 3
	return [3]float64{c.Pix[i], c.Pix[i+1], c.Pix[i+2]}
}

// Blend computes img/255*0.8 + colorized/255*0.2, where colorized carries the
// mask in the green channel and zeros in red and blue. The mask must already
// be in its 0/255 form and match the image size.
func Blend(img *image.NRGBA, m *mask.Mask) (*Composite, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w != m.Width || h != m.Height {
		return nil, fmt.Errorf("composite: mask %dx%d does not match image %dx%d", m.Width, m.Height, w, h)
	}

	c := &Composite{Width: w, Height: h, Pix: make([]float64, w*h*3)}
	for y := 0; y < h; y++ {
		si := y * img.Stride
		for x := 0; x < w; x++ {
			s := si + x*4
			d := (y*w + x) * 3
			c.Pix[d] = float64(img.Pix[s]) / 255 * ImageWeight
			c.Pix[d+1] = float64(img.Pix[s+1])/255*ImageWeight + float64(m.Pix[y*w+x])/255*MaskWeight
			c.Pix[d+2] = float64(img.Pix[s+2]) / 255 * ImageWeight
		}
	}
	return c, nil
}

// ToNRGBA encodes to 8 bits per channel: ×255, rounded, clamped. Alpha is
// opaque.
func (c *Composite) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height))
	for i := 0; i < c.Width*c.Height; i++ {
		img.Pix[i*4] = clamp255(c.Pix[i*3] * 255)
		img.Pix[i*4+1] = clamp255(c.Pix[i*3+1] * 255)
		img.Pix[i*4+2] = clamp255(c.Pix[i*3+2] * 255)
		img.Pix[i*4+3] = 255
	}
	return img
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
