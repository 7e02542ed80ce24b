package raster

import "math"

// RasterizeTriangle fills a triangle given in window coordinates with a flat
// color. No depth test, no blending, no anti-aliasing: a pixel is written when
// its center lies inside the triangle. Centers exactly on an edge are owned by
// top and left edges only, so triangles sharing an edge never both claim a
// pixel and never both skip it. Winding order does not matter.
func RasterizeTriangle(fb *FrameBuffer, x0, y0, x1, y1, x2, y2 float64, c [3]uint8) {
	area := edgeFn(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}
	// Normalize to counter-clockwise (y up) so the interior is positive.
	if area < 0 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}

	// Bounding box
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	tl0 := isTopLeft(x1, y1, x2, y2)
	tl1 := isTopLeft(x2, y2, x0, y0)
	tl2 := isTopLeft(x0, y0, x1, y1)

	for sy := minY; sy <= maxY; sy++ {
		py := float64(sy) + 0.5
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			px := float64(sx) + 0.5

			if !inside(edgeFn(x1, y1, x2, y2, px, py), tl0) ||
				!inside(edgeFn(x2, y2, x0, y0, px, py), tl1) ||
				!inside(edgeFn(x0, y0, x1, y1, px, py), tl2) {
				continue
			}

			i := (rowOff + sx) * 3
			fb.Color[i] = c[0]
			fb.Color[i+1] = c[1]
			fb.Color[i+2] = c[2]
		}
	}
}

// edgeFn returns twice the signed area of (a, b, p); positive when p is left
// of a→b. The endpoints are put in a canonical order first so that
// edgeFn(a, b, p) == -edgeFn(b, a, p) holds exactly in floating point.
func edgeFn(ax, ay, bx, by, px, py float64) float64 {
	if ax > bx || (ax == bx && ay > by) {
		return -((ax-bx)*(py-by) - (ay-by)*(px-bx))
	}
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// isTopLeft reports whether a→b of a counter-clockwise triangle (y up) is a
// left edge (running down) or a top edge (horizontal, running left).
func isTopLeft(ax, ay, bx, by float64) bool {
	dy := by - ay
	return dy < 0 || (dy == 0 && bx < ax)
}

func inside(e float64, topLeft bool) bool {
	return e > 0 || (e == 0 && topLeft)
}
