package renderer

import (
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of samples taken
	AverageSamples  float64       // Average samples per pixel
	SamplesPerPixel int           // Configured samples per pixel
	Tiles           int           // Number of tiles the image was split into
	Tasks           int           // Number of tile tasks completed
	Workers         int           // Number of workers used
	Duration        time.Duration // Wall time of the render
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator for final result
	SampleCount int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// AddSum merges a partial sum of count samples
func (ps *PixelStats) AddSum(sum core.Vec3, count int) {
	ps.ColorAccum = ps.ColorAccum.Add(sum)
	ps.SampleCount += count
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return core.Divide(ps.ColorAccum, float64(ps.SampleCount))
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of a grid in [0, 1]
func CalculateAverageLuminance(grid *core.PixelGrid) float64 {
	if grid == nil || len(grid.Pixels) == 0 {
		return 0
	}

	total := 0.0
	for _, p := range grid.Pixels {
		total += 0.2126*float64(p.R) + 0.7152*float64(p.G) + 0.0722*float64(p.B)
	}
	return total / (255.0 * float64(len(grid.Pixels)))
}
