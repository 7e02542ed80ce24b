package geometry

import "math"

// Vec2 is a 2-component vector (value type, stack-allocated).
type Vec2 [2]float64

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a[0] + b[0], a[1] + b[1]}
}

func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a[0] - b[0], a[1] - b[1]}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

// Cross returns the z component of the 3D cross product.
func (a Vec2) Cross(b Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

func (v Vec2) Len() float64 {
	return math.Hypot(v[0], v[1])
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	Min, Max Vec2
}

func (r Rect) Dx() float64 { return r.Max[0] - r.Min[0] }
func (r Rect) Dy() float64 { return r.Max[1] - r.Min[1] }

// Bounds returns the bounding box of vs. ok is false for an empty slice.
func Bounds(vs []Vec2) (r Rect, ok bool) {
	if len(vs) == 0 {
		return Rect{}, false
	}
	r.Min = Vec2{math.Inf(1), math.Inf(1)}
	r.Max = Vec2{math.Inf(-1), math.Inf(-1)}
	for _, v := range vs {
		for k := 0; k < 2; k++ {
			if v[k] < r.Min[k] {
				r.Min[k] = v[k]
			}
			if v[k] > r.Max[k] {
				r.Max[k] = v[k]
			}
		}
	}
	return r, true
}
