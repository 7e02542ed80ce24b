package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"vertex-mask/internal/annotation"
	"vertex-mask/internal/composite"
	"vertex-mask/internal/dataset"
	"vertex-mask/internal/geometry"
	"vertex-mask/internal/imageio"
	"vertex-mask/internal/mask"
	"vertex-mask/internal/raster"
)

// Output name suffixes.
const (
	SegmentSuffix = "_segment"
	OverlaySuffix = "_withmask"
)

// Config holds the settings shared by every item of a run.
type Config struct {
	OutputDir         string
	Overlay           imageio.Format
	FaceIndexBase     int
	PreviewWidth      int
	MinComponentRatio float64
	Program           *raster.Program // nil means raster.FlatGreen
	Logger            *log.Logger
}

func (c Config) program() raster.Program {
	if c.Program != nil {
		return *c.Program
	}
	return raster.FlatGreen
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

// Result holds the outcome of processing one item.
type Result struct {
	Name     string
	Segment  string
	Overlay  string
	Coverage float64
	Success  bool
	Error    string
}

// Run processes pairs one after another. A failing item is recorded in its
// Result and the run moves on. Cancelling ctx stops before the next item;
// only processed items are returned.
func Run(ctx context.Context, cfg Config, pairs []dataset.Pair) []Result {
	logger := cfg.logger()
	total := len(pairs)
	results := make([]Result, 0, total)
	start := time.Now()

	for i, p := range pairs {
		if err := ctx.Err(); err != nil {
			logger.Warn("batch interrupted", "processed", i, "total", total)
			break
		}

		logger.Info("Processing", "image", p.Image, "item", fmt.Sprintf("%d/%d", i+1, total))
		r := ProcessPair(cfg, p)
		if !r.Success {
			logger.Error("item failed", "name", r.Name, "err", r.Error)
		} else {
			logger.Debug("item done", "name", r.Name, "coverage", fmt.Sprintf("%.4f", r.Coverage))
		}
		results = append(results, r)
	}

	if n := len(results); n > 0 {
		elapsed := time.Since(start).Seconds()
		logger.Info("batch finished", "items", n, "rate", fmt.Sprintf("%.1f items/sec", float64(n)/elapsed))
	}
	return results
}

// ProcessPair runs the whole pipeline for one image and writes its two
// outputs. Nothing is written unless every stage before the writes succeeds,
// and a failed overlay write removes the segment already written.
func ProcessPair(cfg Config, p dataset.Pair) Result {
	res := Result{Name: p.Name}
	fail := func(err error) Result {
		res.Error = err.Error()
		return res
	}

	img, err := imageio.Load(p.Image)
	if err != nil {
		return fail(err)
	}
	mesh, err := annotation.Load(p.Annotation, cfg.FaceIndexBase)
	if err != nil {
		return fail(err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	ndc := geometry.Normalize(mesh.Vertices, w, h)

	prog := cfg.program()
	rgb, err := raster.RenderMesh(mesh.Faces, ndc, w, h, prog)
	if err != nil {
		return fail(err)
	}

	m, err := mask.Extract(rgb, w, h, mask.ScaleOf(prog.Color[1]))
	if err != nil {
		return fail(err)
	}
	m.ToByte()
	if cfg.MinComponentRatio > 0 {
		if n := m.RemoveSmallComponents(cfg.MinComponentRatio); n > 0 {
			cfg.logger().Debug("removed small components", "name", p.Name, "pixels", n)
		}
	}
	res.Coverage = m.Coverage()

	comp, err := composite.Blend(img, m)
	if err != nil {
		return fail(err)
	}
	overlay := composite.Thumbnail(comp.ToNRGBA(), cfg.PreviewWidth)

	overlayFormat := cfg.Overlay
	if overlayFormat == "" {
		overlayFormat = imageio.PNG
	}
	segPath := filepath.Join(cfg.OutputDir, p.Name+SegmentSuffix+imageio.PNG.Ext())
	overlayPath := filepath.Join(cfg.OutputDir, p.Name+OverlaySuffix+overlayFormat.Ext())

	if err := imageio.Save(segPath, m.RGB(), imageio.PNG); err != nil {
		return fail(err)
	}
	if err := imageio.Save(overlayPath, overlay, overlayFormat); err != nil {
		removePartial(cfg.logger(), segPath)
		return fail(err)
	}

	res.Segment = segPath
	res.Overlay = overlayPath
	res.Success = true
	return res
}

// removePartial deletes an output left behind by a failed item.
func removePartial(logger *log.Logger, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("cannot remove partial output", "path", path, "err", err)
	}
}

// Count returns the number of successful and failed results.
func Count(results []Result) (success, failed int) {
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
		}
	}
	return success, failed
}
