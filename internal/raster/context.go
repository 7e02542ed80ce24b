package raster

import (
	"errors"
	"fmt"
)

var (
	ErrContextInit   = errors.New("raster: cannot create rendering context")
	ErrContextClosed = errors.New("raster: context closed")
	ErrNoVertices    = errors.New("raster: empty vertex buffer")
	ErrIndexRange    = errors.New("raster: element index out of range")
)

// Program is the shader pair: a pass-through vertex stage (2D position to
// clip space with z = 0, w = 1) and a constant-color fragment stage.
type Program struct {
	Color [3]uint8
}

// FlatGreen paints covered pixels pure green.
var FlatGreen = Program{Color: [3]uint8{0, 255, 0}}

// Context is an off-screen rendering context owning one framebuffer, one
// vertex buffer of 2D float32 positions and one element buffer of uint32
// triangle indices. Create one per rasterization and Close it afterwards.
//
// A Context is not safe for concurrent use.
type Context struct {
	fb         *FrameBuffer
	program    Program
	vertices   []float32
	elements   []uint32
	clearColor [3]uint8
	closed     bool
}

// NewContext creates a context with a width×height color attachment.
func NewContext(width, height int) (*Context, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrContextInit, width, height)
	}
	return &Context{
		fb:      NewFrameBuffer(width, height),
		program: FlatGreen,
	}, nil
}

// Size returns the framebuffer dimensions.
func (c *Context) Size() (int, int) {
	return c.fb.Width, c.fb.Height
}

// UseProgram selects the program for subsequent draws.
func (c *Context) UseProgram(p Program) {
	c.program = p
}

// BufferVertices uploads interleaved x, y positions in normalized device
// coordinates.
func (c *Context) BufferVertices(data []float32) error {
	if c.closed {
		return ErrContextClosed
	}
	if len(data)%2 != 0 {
		return fmt.Errorf("raster: vertex buffer length %d is not a multiple of 2", len(data))
	}
	c.vertices = append(c.vertices[:0], data...)
	return nil
}

// BufferElements uploads triangle indices, three per triangle.
func (c *Context) BufferElements(data []uint32) error {
	if c.closed {
		return ErrContextClosed
	}
	if len(data)%3 != 0 {
		return fmt.Errorf("raster: element buffer length %d is not a multiple of 3", len(data))
	}
	c.elements = append(c.elements[:0], data...)
	return nil
}

// ClearColor sets the color used by Clear.
func (c *Context) ClearColor(r, g, b uint8) {
	c.clearColor = [3]uint8{r, g, b}
}

// Clear fills the framebuffer with the clear color.
func (c *Context) Clear() error {
	if c.closed {
		return ErrContextClosed
	}
	c.fb.Clear(c.clearColor)
	return nil
}

// DrawElements draws the element buffer as a triangle list. Every index is
// checked before anything is drawn, so a bad buffer leaves the framebuffer
// untouched.
func (c *Context) DrawElements() error {
	if c.closed {
		return ErrContextClosed
	}
	nv := uint32(len(c.vertices) / 2)
	if nv == 0 {
		return ErrNoVertices
	}
	for i, idx := range c.elements {
		if idx >= nv {
			return fmt.Errorf("%w: element %d = %d, %d vertices", ErrIndexRange, i, idx, nv)
		}
	}

	w, h := float64(c.fb.Width), float64(c.fb.Height)
	var wx, wy [3]float64
	for t := 0; t+2 < len(c.elements); t += 3 {
		for k := 0; k < 3; k++ {
			v := c.elements[t+k] * 2
			// Viewport transform
			wx[k] = (float64(c.vertices[v]) + 1) / 2 * w
			wy[k] = (float64(c.vertices[v+1]) + 1) / 2 * h
		}
		RasterizeTriangle(c.fb, wx[0], wy[0], wx[1], wy[1], wx[2], wy[2], c.program.Color)
	}
	return nil
}

// ReadPixels returns a copy of the framebuffer as width*height*3 RGB bytes,
// rows in window order (row 0 at normalized y = -1).
func (c *Context) ReadPixels() ([]uint8, error) {
	if c.closed {
		return nil, ErrContextClosed
	}
	out := make([]uint8, len(c.fb.Color))
	copy(out, c.fb.Color)
	return out, nil
}

// Close releases the buffers. Further calls fail with ErrContextClosed.
func (c *Context) Close() error {
	if c.closed {
		return ErrContextClosed
	}
	c.closed = true
	c.fb = &FrameBuffer{}
	c.vertices = nil
	c.elements = nil
	return nil
}
