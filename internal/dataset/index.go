package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// AnnotationExt is the extension of the companion annotation file.
const AnnotationExt = ".mat"

// DefaultImageExts matches the dataset's image naming. Matching is
// case-sensitive.
var DefaultImageExts = []string{".JPEG"}

// Pair is one image with its companion annotation.
type Pair struct {
	Name       string // base name without extension
	Image      string
	Annotation string
}

// Index lists the annotated images of one directory, sorted by name.
type Index struct {
	Pairs   []Pair
	Skipped []string // images without a companion annotation
}

// BuildIndex scans dir (not recursively) for files with one of imageExts and
// pairs each with <base>.mat.
func BuildIndex(dir string, imageExts []string) (*Index, error) {
	if len(imageExts) == 0 {
		imageExts = DefaultImageExts
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", dir, err)
	}

	idx := &Index{}
	for _, e := range entries {
		// Annotations are reached through their image; Match maps a .mat
		// back to its pair only for the watcher.
		if e.IsDir() || !slices.Contains(imageExts, filepath.Ext(e.Name())) {
			continue
		}
		if p, ok := Match(dir, e.Name(), imageExts); ok {
			if _, err := os.Stat(p.Annotation); err != nil {
				idx.Skipped = append(idx.Skipped, p.Image)
				continue
			}
			idx.Pairs = append(idx.Pairs, p)
		}
	}

	slices.SortFunc(idx.Pairs, func(a, b Pair) int {
		return strings.Compare(a.Name, b.Name)
	})
	return idx, nil
}

// Match reports whether name is an image file and returns the pair it would
// form, without checking the annotation exists. A name ending in .mat maps to
// the first image extension whose file is present.
func Match(dir, name string, imageExts []string) (Pair, bool) {
	if len(imageExts) == 0 {
		imageExts = DefaultImageExts
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	if ext == AnnotationExt {
		for _, ie := range imageExts {
			img := filepath.Join(dir, base+ie)
			if _, err := os.Stat(img); err == nil {
				return Pair{Name: base, Image: img, Annotation: filepath.Join(dir, name)}, true
			}
		}
		return Pair{}, false
	}

	if !slices.Contains(imageExts, ext) {
		return Pair{}, false
	}
	return Pair{
		Name:       base,
		Image:      filepath.Join(dir, name),
		Annotation: filepath.Join(dir, base+AnnotationExt),
	}, true
}

// Len returns the number of pairs.
func (idx *Index) Len() int {
	return len(idx.Pairs)
}
