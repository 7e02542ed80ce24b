package annotation

import (
	"path/filepath"
	"strings"
	"testing"

	"vertex-mask/internal/geometry"
	"vertex-mask/internal/mat"
)

func writeAnnotation(t *testing.T, vars ...*mat.Var) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "n03790512_11.mat")
	if err := mat.WriteFile(path, true, vars...); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeAnnotation(t,
		mat.NewMatrix("face", [][]float64{{0, 1, 2}}),
		mat.NewMatrix("x2d", [][]float64{{0, 0, 7}, {100, 0, 7}, {50, 50, 7}}),
	)
	m, err := Load(path, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(m.Faces) != 1 || m.Faces[0] != [3]int{0, 1, 2} {
		t.Errorf("faces = %v", m.Faces)
	}
	want := []geometry.Vec2{{0, 0}, {100, 0}, {50, 50}}
	for i, v := range want {
		if m.Vertices[i] != v {
			t.Errorf("vertex %d = %v, want %v", i, m.Vertices[i], v)
		}
	}
}

func TestLoadIndexBase(t *testing.T) {
	path := writeAnnotation(t,
		mat.NewMatrix("face", [][]float64{{1, 2, 3}}),
		mat.NewMatrix("x2d", [][]float64{{0, 0}, {1, 0}, {0, 1}}),
	)
	if _, err := Load(path, 0); err == nil {
		t.Fatal("one-based indices accepted with base 0")
	}
	m, err := Load(path, 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Faces[0] != [3]int{0, 1, 2} {
		t.Errorf("faces = %v", m.Faces)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		vars []*mat.Var
		want string
	}{
		{
			name: "missing face",
			vars: []*mat.Var{mat.NewMatrix("x2d", [][]float64{{0, 0}})},
			want: `missing variable "face"`,
		},
		{
			name: "missing x2d",
			vars: []*mat.Var{mat.NewMatrix("face", [][]float64{{0, 0, 0}})},
			want: `missing variable "x2d"`,
		},
		{
			name: "face shape",
			vars: []*mat.Var{
				mat.NewMatrix("face", [][]float64{{0, 0}}),
				mat.NewMatrix("x2d", [][]float64{{0, 0}}),
			},
			want: "N×3",
		},
		{
			name: "index out of range",
			vars: []*mat.Var{
				mat.NewMatrix("face", [][]float64{{0, 1, 5}}),
				mat.NewMatrix("x2d", [][]float64{{0, 0}, {1, 1}}),
			},
			want: "out of range",
		},
		{
			name: "fractional index",
			vars: []*mat.Var{
				mat.NewMatrix("face", [][]float64{{0, 0.5, 1}}),
				mat.NewMatrix("x2d", [][]float64{{0, 0}, {1, 1}}),
			},
			want: "non-integer",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeAnnotation(t, tc.vars...), 0)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want containing %q", err, tc.want)
			}
			if !strings.Contains(err.Error(), ".mat") {
				t.Errorf("error does not name the file: %v", err)
			}
		})
	}
}
