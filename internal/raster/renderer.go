package raster

import (
	"vertex-mask/internal/geometry"
)

// RenderMesh rasterizes faces over vertices given in normalized device
// coordinates and returns the width×height×3 RGB readback: covered pixels
// carry prog's color, everything else is black. The context lives for this
// call only.
func RenderMesh(faces [][3]int, vertices []geometry.Vec2, width, height int, prog Program) ([]uint8, error) {
	ctx, err := NewContext(width, height)
	if err != nil {
		return nil, err
	}
	defer ctx.Close()

	ctx.UseProgram(prog)
	if err := ctx.BufferElements(PackElements(faces)); err != nil {
		return nil, err
	}
	if err := ctx.BufferVertices(PackVertices(vertices)); err != nil {
		return nil, err
	}

	ctx.ClearColor(0, 0, 0)
	if err := ctx.Clear(); err != nil {
		return nil, err
	}
	if err := ctx.DrawElements(); err != nil {
		return nil, err
	}
	return ctx.ReadPixels()
}

// PackElements flattens faces into an element buffer. Negative indices wrap
// to values DrawElements rejects.
func PackElements(faces [][3]int) []uint32 {
	out := make([]uint32, 0, len(faces)*3)
	for _, f := range faces {
		out = append(out, uint32(f[0]), uint32(f[1]), uint32(f[2]))
	}
	return out
}

// PackVertices flattens vertices into an interleaved float32 buffer.
func PackVertices(vs []geometry.Vec2) []float32 {
	out := make([]float32, 0, len(vs)*2)
	for _, v := range vs {
		out = append(out, float32(v[0]), float32(v[1]))
	}
	return out
}
