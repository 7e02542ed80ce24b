package mask

import (
	"fmt"
	"image"
)

// Scale tags the intensity range a mask is stored in.
type Scale uint8

const (
	// ScaleByte masks hold 0 or 255.
	ScaleByte Scale = iota
	// ScaleUnit masks hold 0 or 1.
	ScaleUnit
)

func (s Scale) String() string {
	switch s {
	case ScaleByte:
		return "0/255"
	case ScaleUnit:
		return "0/1"
	}
	return fmt.Sprintf("Scale(%d)", uint8(s))
}

// ScaleOf returns the tag for masks painted with the given channel value.
func ScaleOf(coverage uint8) Scale {
	if coverage <= 1 {
		return ScaleUnit
	}
	return ScaleByte
}

// Mask is a single-channel coverage map, row-major, origin top-left.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8 // len = Width*Height
	Scale  Scale
}

// Extract keeps the green channel of an RGB readback. scale must describe the
// value the fragment stage wrote; it is recorded, never inferred from the
// pixels. Readback row r becomes mask row r.
func Extract(rgb []uint8, width, height int, scale Scale) (*Mask, error) {
	if width <= 0 || height <= 0 || len(rgb) != width*height*3 {
		return nil, fmt.Errorf("mask: %d bytes for %dx%d RGB", len(rgb), width, height)
	}
	m := &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
		Scale:  scale,
	}
	for i := range m.Pix {
		m.Pix[i] = rgb[i*3+1]
	}
	return m, nil
}

// ToByte rescales a ScaleUnit mask ×255 in place and retags it. ScaleByte
// masks, including empty ones, are left untouched.
func (m *Mask) ToByte() *Mask {
	if m.Scale != ScaleUnit {
		return m
	}
	for i, v := range m.Pix {
		if v > 0 {
			m.Pix[i] = 255
		}
	}
	m.Scale = ScaleByte
	return m
}

// Coverage returns the fraction of non-zero pixels.
func (m *Mask) Coverage() float64 {
	if len(m.Pix) == 0 {
		return 0
	}
	n := 0
	for _, v := range m.Pix {
		if v > 0 {
			n++
		}
	}
	return float64(n) / float64(len(m.Pix))
}

// Gray returns the mask as a single-channel image sharing Pix.
func (m *Mask) Gray() *image.Gray {
	return &image.Gray{
		Pix:    m.Pix,
		Stride: m.Width,
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
}

// RGB returns the mask replicated across R, G and B (opaque).
func (m *Mask) RGB() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Pix {
		j := i * 4
		img.Pix[j] = v
		img.Pix[j+1] = v
		img.Pix[j+2] = v
		img.Pix[j+3] = 255
	}
	return img
}
