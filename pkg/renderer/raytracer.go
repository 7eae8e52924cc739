package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
)

var (
	// ErrInvalidConfig is returned for sampling configs that cannot be rendered
	ErrInvalidConfig = errors.New("invalid sampling config")
	// ErrInvalidScene is returned when the world fails validation
	ErrInvalidScene = errors.New("invalid scene")
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int   // Image width in pixels
	Height          int   // Image height in pixels
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	NumWorkers      int   // Number of parallel workers (0 = use CPU count)
	TileSize        int   // Size of each tile (0 = DefaultTileSize)
	SampleBatches   int   // Number of batches each tile's samples are split into (0 = 1)
	Seed            int64 // Base seed, used when Seeded is set
	Seeded          bool  // Make output independent of worker count and scheduling
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          200,
		SamplesPerPixel: 50,
		MaxDepth:        integrator.DefaultMaxDepth,
		TileSize:        DefaultTileSize,
		SampleBatches:   1,
	}
}

// Validate reports whether the config can be rendered
func (c SamplingConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel %d", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth <= 0:
		return fmt.Errorf("%w: max depth %d", ErrInvalidConfig, c.MaxDepth)
	case c.NumWorkers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.NumWorkers)
	case c.TileSize < 0:
		return fmt.Errorf("%w: tile size %d", ErrInvalidConfig, c.TileSize)
	case c.SampleBatches < 0:
		return fmt.Errorf("%w: sample batches %d", ErrInvalidConfig, c.SampleBatches)
	}
	return nil
}

// validator is implemented by worlds that can check their own geometry
type validator interface {
	Validate() error
}

// Raytracer renders a world through a camera into a pixel grid
type Raytracer struct {
	config       SamplingConfig
	tileRenderer *TileRenderer
	logger       core.Logger
}

// NewRaytracer creates a new raytracer. The world, camera and integrator are
// shared read-only by all workers.
func NewRaytracer(world geometry.Hittable, camera *Camera, integratorInst integrator.Integrator, config SamplingConfig, logger core.Logger) (*Raytracer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if v, ok := world.(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
		}
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	return &Raytracer{
		config:       config,
		tileRenderer: NewTileRenderer(world, camera, integratorInst, config.Width, config.Height),
		logger:       logger,
	}, nil
}

// Config returns the sampling configuration
func (rt *Raytracer) Config() SamplingConfig {
	return rt.config
}

// Render renders the full image and returns the quantized, gamma-corrected grid
func (rt *Raytracer) Render(ctx context.Context) (*core.PixelGrid, RenderStats, error) {
	pixelStats, stats, err := rt.Accumulate(ctx)
	if err != nil {
		return nil, stats, err
	}
	return ResolvePixels(pixelStats), stats, nil
}

// Accumulate renders every tile and sample batch in parallel and returns the
// per-pixel sample sums indexed [row][x], row 0 being the top of the image
func (rt *Raytracer) Accumulate(ctx context.Context) ([][]PixelStats, RenderStats, error) {
	start := time.Now()
	width, height := rt.config.Width, rt.config.Height

	tiles := NewTileGrid(width, height, rt.config.TileSize)
	batches := SplitSamples(rt.config.SamplesPerPixel, rt.config.SampleBatches)
	totalTasks := len(tiles) * len(batches)

	pool := NewWorkerPool(rt.tileRenderer, rt.config.NumWorkers, totalTasks)
	if rt.config.Seeded {
		pool.SetSeed(rt.config.Seed)
	}

	rt.logger.Printf("Rendering %dx%d at %d samples per pixel (%d tiles x %d batches, %d workers)\n",
		width, height, rt.config.SamplesPerPixel, len(tiles), len(batches), pool.GetNumWorkers())

	pool.Start(ctx)

	// Batch-major order so every tile gets its first samples early
	submitted := 0
submit:
	for b, r := range batches {
		for _, tile := range tiles {
			if ctx.Err() != nil {
				break submit
			}
			pool.SubmitTask(TileTask{
				Tile:        tile,
				Batch:       b,
				SampleStart: r.Start,
				SampleCount: r.Count,
				TaskID:      submitted,
			})
			submitted++
		}
	}

	acc := newAccumulator(width, height, len(tiles))
	var renderErr error
	for i := 0; i < submitted; i++ {
		result, ok := pool.GetResult()
		if !ok {
			renderErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			if renderErr == nil {
				renderErr = result.Error
			}
			continue
		}
		if renderErr == nil {
			acc.add(result)
		}
	}
	pool.Stop()

	if renderErr == nil && submitted < totalTasks {
		renderErr = ctx.Err()
	}

	stats := RenderStats{
		TotalPixels:     width * height,
		TotalSamples:    acc.totalSamples,
		SamplesPerPixel: rt.config.SamplesPerPixel,
		Tiles:           len(tiles),
		Tasks:           acc.tasks,
		Workers:         pool.GetNumWorkers(),
		Duration:        time.Since(start),
	}
	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}

	if renderErr != nil {
		rt.logger.Printf("Render stopped after %d of %d tasks: %v\n", acc.tasks, totalTasks, renderErr)
		return nil, stats, renderErr
	}

	rt.logger.Printf("Render complete in %v (%d samples, %.1f per pixel)\n",
		stats.Duration, stats.TotalSamples, stats.AverageSamples)
	return acc.pixelStats, stats, nil
}

// ResolvePixels averages each pixel's samples, then clamps, gamma-corrects and quantizes it
func ResolvePixels(pixelStats [][]PixelStats) *core.PixelGrid {
	height := len(pixelStats)
	width := 0
	if height > 0 {
		width = len(pixelStats[0])
	}

	grid := core.NewPixelGrid(width, height)
	for row := 0; row < height; row++ {
		for x := 0; x < width; x++ {
			grid.Set(x, row, core.ToRGB8(pixelStats[row][x].GetColor()))
		}
	}
	return grid
}

// accumulator merges tile results into pixel stats. Batches of a tile are
// always merged in batch order, so the floating point sums do not depend on
// which worker finished first.
type accumulator struct {
	pixelStats   [][]PixelStats
	next         []int                // Next batch to merge, per tile
	pending      []map[int]TileResult // Results that arrived early, per tile
	totalSamples int
	tasks        int
}

func newAccumulator(width, height, numTiles int) *accumulator {
	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}
	return &accumulator{
		pixelStats: pixelStats,
		next:       make([]int, numTiles),
		pending:    make([]map[int]TileResult, numTiles),
	}
}

func (a *accumulator) add(result TileResult) {
	id := result.Tile.ID
	if result.Batch != a.next[id] {
		if a.pending[id] == nil {
			a.pending[id] = make(map[int]TileResult)
		}
		a.pending[id][result.Batch] = result
		return
	}

	a.merge(result)
	for {
		early, ok := a.pending[id][a.next[id]]
		if !ok {
			return
		}
		delete(a.pending[id], a.next[id])
		a.merge(early)
	}
}

func (a *accumulator) merge(result TileResult) {
	bounds := result.Tile.Bounds
	i := 0
	for row := bounds.Min.Y; row < bounds.Max.Y; row++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			a.pixelStats[row][x].AddSum(result.Sums[i], result.Samples)
			i++
		}
	}
	a.next[result.Tile.ID]++
	a.totalSamples += result.Samples * len(result.Sums)
	a.tasks++
}
