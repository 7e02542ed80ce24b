package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"vertex-mask/internal/annotation"
	"vertex-mask/internal/geometry"
	"vertex-mask/internal/mat"
)

func main() {
	base := flag.Int("base", 0, "Index base of the face array (0 or 1)")
	rows := flag.Int("rows", 3, "Rows of each numeric variable to print")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: inspectmat [-base N] [-rows N] file.mat...")
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		if err := inspect(path, *base, *rows); err != nil {
			fmt.Printf("Error: %v\n", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func inspect(path string, base, rows int) error {
	f, err := mat.Parse(path)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", path)
	fmt.Printf("  Header: %q (version 0x%04x, %v)\n", f.Header.Text, f.Header.Version, f.Header.Order)
	fmt.Printf("  Variables: %d\n", len(f.Names))
	for _, name := range f.Names {
		v := f.Vars[name]
		fmt.Printf("    %s: %s %v", name, v.Class, v.Dims)
		if v.Complex {
			fmt.Print(" complex")
		}
		fmt.Println()
		if v.Class == mat.ClassChar {
			fmt.Printf("      %q\n", v.Text)
			continue
		}
		if len(v.Data) == 0 {
			continue
		}
		for r := 0; r < min(rows, v.Rows()); r++ {
			fmt.Printf("      %v\n", v.Row(r))
		}
	}

	mesh, err := annotation.FromFile(f, base)
	if err != nil {
		fmt.Printf("  Mesh: %v\n", err)
		return nil
	}

	fmt.Printf("  Mesh: verts=%d, faces=%d\n", len(mesh.Vertices), len(mesh.Faces))
	if r, ok := geometry.Bounds(mesh.Vertices); ok {
		fmt.Printf("    BBox: X[%.1f, %.1f] Y[%.1f, %.1f]\n", r.Min[0], r.Max[0], r.Min[1], r.Max[1])
		fmt.Printf("    Size: %.1f x %.1f\n", r.Dx(), r.Dy())
	}

	// Signed area per winding; degenerate faces render nothing.
	var ccw, cw, degenerate int
	var area float64
	for _, tri := range mesh.Faces {
		a, b, c := mesh.Vertices[tri[0]], mesh.Vertices[tri[1]], mesh.Vertices[tri[2]]
		s := b.Sub(a).Cross(c.Sub(a)) / 2
		switch {
		case s > 0:
			ccw++
		case s < 0:
			cw++
		default:
			degenerate++
		}
		area += math.Abs(s)
	}
	fmt.Printf("    Winding: ccw=%d, cw=%d, degenerate=%d\n", ccw, cw, degenerate)
	fmt.Printf("    Triangle area (sum): %.1f sq px\n", area)
	return nil
}
