package annotation

import (
	"fmt"
	"math"

	"vertex-mask/internal/geometry"
	"vertex-mask/internal/mat"
)

// Variable names in the companion annotation file.
const (
	FaceVar     = "face"
	VerticesVar = "x2d"
)

// Mesh is a projected triangle mesh: faces index into Vertices, which are in
// image pixel coordinates (origin top-left). Immutable after Load.
type Mesh struct {
	Faces    [][3]int
	Vertices []geometry.Vec2
}

// Load reads the face and x2d variables of a .mat annotation. indexBase is
// subtracted from every stored face index (0 keeps them as stored).
func Load(path string, indexBase int) (*Mesh, error) {
	f, err := mat.Parse(path)
	if err != nil {
		return nil, err
	}
	m, err := FromFile(f, indexBase)
	if err != nil {
		return nil, fmt.Errorf("annotation: %s: %w", path, err)
	}
	return m, nil
}

// FromFile extracts a Mesh from a parsed MAT-file.
func FromFile(f *mat.File, indexBase int) (*Mesh, error) {
	faceVar := f.Var(FaceVar)
	if faceVar == nil {
		return nil, fmt.Errorf("missing variable %q", FaceVar)
	}
	vertVar := f.Var(VerticesVar)
	if vertVar == nil {
		return nil, fmt.Errorf("missing variable %q", VerticesVar)
	}
	if !faceVar.Class.Numeric() || faceVar.Cols() != 3 {
		return nil, fmt.Errorf("%q must be an N×3 numeric array, got %s %v", FaceVar, faceVar.Class, faceVar.Dims)
	}
	if !vertVar.Class.Numeric() || vertVar.Cols() < 2 {
		return nil, fmt.Errorf("%q must be an M×2 numeric array, got %s %v", VerticesVar, vertVar.Class, vertVar.Dims)
	}

	m := &Mesh{
		Faces:    make([][3]int, faceVar.Rows()),
		Vertices: make([]geometry.Vec2, vertVar.Rows()),
	}
	for i := range m.Vertices {
		m.Vertices[i] = geometry.Vec2{vertVar.At(i, 0), vertVar.At(i, 1)}
	}
	for i := range m.Faces {
		for k := 0; k < 3; k++ {
			x := faceVar.At(i, k)
			if x != math.Trunc(x) {
				return nil, fmt.Errorf("face %d: non-integer index %v", i, x)
			}
			m.Faces[i][k] = int(x) - indexBase
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks that every face index falls inside the vertex list.
func (m *Mesh) Validate() error {
	nv := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= nv {
				return fmt.Errorf("face %d: index %d out of range [0,%d)", i, idx, nv)
			}
		}
	}
	return nil
}
