package renderer

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator.
// It holds no mutable state and is shared by all workers.
type TileRenderer struct {
	world      geometry.Hittable
	camera     *Camera
	integrator integrator.Integrator
	width      int
	height     int
}

// NewTileRenderer creates a new tile renderer for an image of the given size
func NewTileRenderer(world geometry.Hittable, camera *Camera, integratorInst integrator.Integrator, width, height int) *TileRenderer {
	return &TileRenderer{
		world:      world,
		camera:     camera,
		integrator: integratorInst,
		width:      width,
		height:     height,
	}
}

// RenderTile takes task.SampleCount samples for every pixel of the task's tile and
// returns the per-pixel radiance sums in row-major order over the tile bounds
func (tr *TileRenderer) RenderTile(task TileTask, sampler core.Sampler) []core.Vec3 {
	bounds := task.Tile.Bounds
	sums := make([]core.Vec3, 0, bounds.Dx()*bounds.Dy())

	for row := bounds.Min.Y; row < bounds.Max.Y; row++ {
		// Image rows run top-down, viewport coordinates bottom-up
		y := tr.height - 1 - row
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sums = append(sums, tr.SamplePixel(x, y, task.SampleCount, sampler))
		}
	}

	return sums
}

// SamplePixel returns the sum of n jittered radiance samples for pixel (x, y),
// where y is counted from the bottom of the image
func (tr *TileRenderer) SamplePixel(x, y, n int, sampler core.Sampler) core.Vec3 {
	sum := core.Vec3{}
	for i := 0; i < n; i++ {
		du, dv := sampler.Get2D()
		s := (float64(x) + du) / float64(tr.width)
		t := (float64(y) + dv) / float64(tr.height)

		ray := tr.camera.GetRay(s, t, sampler)
		sum = sum.Add(tr.integrator.RayColor(ray, tr.world, sampler))
	}
	return sum
}
