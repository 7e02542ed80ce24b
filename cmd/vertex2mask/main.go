package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"vertex-mask/internal/batch"
	"vertex-mask/internal/config"
	"vertex-mask/internal/dataset"
	"vertex-mask/internal/imageio"
	"vertex-mask/internal/logging"
	"vertex-mask/internal/watch"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	inputDir := flag.String("input_dir", "", "Directory of .JPEG images with companion .mat annotations (default: ./aeroplane)")
	outputDir := flag.String("output", "", "Existing output directory (default: mask)")
	overlay := flag.String("overlay", "", "Overlay format: png or webp (default: png)")
	manifest := flag.String("manifest", "", "Write a JSON run manifest to this path")
	watchDir := flag.Bool("watch", false, "Keep running and convert pairs as they appear")
	verbose := flag.Bool("verbose", false, "Debug logging")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputDir:  *inputDir,
		OutputDir: *outputDir,
		Overlay:   *overlay,
		Manifest:  *manifest,
		Verbose:   *verbose,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)

	if info, err := os.Stat(cfg.OutputDir); err != nil || !info.IsDir() {
		logger.Fatal("output directory must exist", "dir", cfg.OutputDir)
	}

	idx, err := dataset.BuildIndex(cfg.InputDir, cfg.ImageExts)
	if err != nil {
		logger.Fatal("cannot list input", "err", err)
	}
	for _, s := range idx.Skipped {
		logger.Warn("no annotation, skipping", "image", s)
	}

	overlayFormat, _ := imageio.ParseFormat(cfg.OverlayFormat)
	batchCfg := batch.Config{
		OutputDir:         cfg.OutputDir,
		Overlay:           overlayFormat,
		FaceIndexBase:     cfg.FaceIndexBase,
		PreviewWidth:      cfg.PreviewWidth,
		MinComponentRatio: cfg.MinComponentRatio,
		Logger:            logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("starting", "input", cfg.InputDir, "output", cfg.OutputDir, "items", idx.Len())
	start := time.Now()

	// Run batch
	results := batch.Run(ctx, batchCfg, idx.Pairs)

	if *watchDir && ctx.Err() == nil {
		w, err := watch.New(cfg.InputDir, cfg.ImageExts, logger)
		if err != nil {
			logger.Fatal("cannot watch input", "err", err)
		}
		logger.Info("watching for new annotations", "dir", cfg.InputDir)
		err = w.Run(ctx, func(p dataset.Pair) {
			results = append(results, batch.Run(ctx, batchCfg, []dataset.Pair{p})...)
		})
		if err != nil {
			logger.Warn("watch stopped", "err", err)
		}
	}

	success, failed := batch.Count(results)
	logger.Info("done", "elapsed", time.Since(start).Round(time.Millisecond), "converted", success, "failed", failed)

	if failed > 0 {
		limit := min(20, failed)
		for _, r := range results {
			if limit == 0 {
				break
			}
			if !r.Success {
				logger.Error("failed", "name", r.Name, "err", r.Error)
				limit--
			}
		}
	}

	// Write manifest
	if cfg.Manifest != "" {
		if err := batch.WriteManifest(cfg.Manifest, batch.NewManifest(cfg.InputDir, results)); err != nil {
			logger.Warn("manifest write failed", "err", err)
		} else {
			logger.Info("manifest written", "path", cfg.Manifest)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
