package raster

// FrameBuffer holds the color attachment as a flat slice for cache locality.
// Row 0 is window y = 0, the bottom of normalized device space, which is the
// order glReadPixels returns.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8 // RGB interleaved, len = W*H*3
}

// NewFrameBuffer allocates a zeroed (black) color buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, w*h*3),
	}
}

// Clear fills every pixel with c.
func (fb *FrameBuffer) Clear(c [3]uint8) {
	for i := 0; i < len(fb.Color); i += 3 {
		fb.Color[i] = c[0]
		fb.Color[i+1] = c[1]
		fb.Color[i+2] = c[2]
	}
}
