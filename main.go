package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// publisher uploads a written artifact and returns where it went
type publisher interface {
	Publish(ctx context.Context, path string) (string, error)
}

// newPublisher is replaced in tests
var newPublisher = func(cfg output.S3Config, logger core.Logger) (publisher, error) {
	p, err := output.NewS3Publisher(cfg, logger)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func main() {
	cfg, err := LoadConfig(os.Args[1:], os.LookupEnv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if cfg.Help {
		fmt.Print(usageText())
		return
	}
	if cfg.ListScenes {
		for _, info := range scene.ListScenes() {
			fmt.Printf("  %-8s %s\n", info.ID, info.Description)
		}
		return
	}

	logger := core.NewStdLogger(os.Stderr)
	artifacts, err := run(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("Render failed: %v", err)
	}
	for _, path := range artifacts {
		fmt.Printf("Render saved as %s\n", path)
	}
}

// run builds the scene, renders it and writes every requested artifact.
// It returns the paths written.
func run(ctx context.Context, cfg Config, logger core.Logger) ([]string, error) {
	sampling := cfg.Sampling

	// The scene layout uses its own stream so it matches across image sizes
	sceneSeed := time.Now().UnixNano()
	if sampling.Seeded {
		sceneSeed = sampling.Seed
	}
	selected, err := scene.New(cfg.Scene, rand.New(rand.NewSource(sceneSeed)))
	if err != nil {
		return nil, err
	}
	selected.CameraConfig = cfg.Camera.Apply(selected.CameraConfig)
	if err := selected.Validate(); err != nil {
		return nil, fmt.Errorf("scene %q: %w", cfg.Scene, err)
	}
	logger.Printf("Using %s scene (%d spheres)\n", cfg.Scene, selected.GetSphereCount())

	camera := selected.Camera(float64(sampling.Width) / float64(sampling.Height))
	integ := integrator.NewPathTracingIntegrator(sampling.MaxDepth, selected.Background)

	raytracer, err := renderer.NewRaytracer(selected.World, camera, integ, sampling, logger)
	if err != nil {
		return nil, err
	}

	grid, stats, err := raytracer.Render(ctx)
	if err != nil {
		return nil, err
	}
	logger.Printf("Average luminance %.3f over %d pixels\n", renderer.CalculateAverageLuminance(grid), stats.TotalPixels)

	w, h, ns := sampling.Width, sampling.Height, sampling.SamplesPerPixel
	ppmPath := output.PPMPath(cfg.OutputDir, w, h, ns)
	if err := output.WritePPM(ppmPath, grid); err != nil {
		return nil, err
	}
	artifacts := []string{ppmPath}

	if cfg.PNG {
		pngPath := output.PNGPath(cfg.OutputDir, w, h, ns)
		if err := output.WritePNG(pngPath, grid); err != nil {
			return artifacts, err
		}
		artifacts = append(artifacts, pngPath)
	}

	if cfg.Thumbnail > 0 {
		thumbPath := output.ThumbnailPath(cfg.OutputDir, w, h, ns)
		if err := output.WriteThumbnail(thumbPath, grid, cfg.Thumbnail); err != nil {
			return artifacts, err
		}
		artifacts = append(artifacts, thumbPath)
	}

	if cfg.S3.Enabled() {
		pub, err := newPublisher(cfg.S3, logger)
		if err != nil {
			return artifacts, err
		}
		for _, path := range artifacts {
			if _, err := pub.Publish(ctx, path); err != nil {
				return artifacts, err
			}
		}
	}

	return artifacts, nil
}
