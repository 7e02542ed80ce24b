package geometry

// Normalize maps pixel coordinates of a width×height image to normalized
// device coordinates: x' = x/w*2-1, y' = y/h*2-1. The full image extent lands
// on [-1, 1] on both axes. The input slice is not modified.
func Normalize(vs []Vec2, width, height int) []Vec2 {
	out := make([]Vec2, len(vs))
	w, h := float64(width), float64(height)
	for i, v := range vs {
		out[i] = Vec2{v[0]/w*2 - 1, v[1]/h*2 - 1}
	}
	return out
}

// Denormalize is the inverse of Normalize.
func Denormalize(vs []Vec2, width, height int) []Vec2 {
	out := make([]Vec2, len(vs))
	w, h := float64(width), float64(height)
	for i, v := range vs {
		out[i] = Vec2{(v[0] + 1) / 2 * w, (v[1] + 1) / 2 * h}
	}
	return out
}
