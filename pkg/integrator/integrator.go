package integrator

import (
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
)

const (
	// TMin offsets secondary rays off the surface they leave, avoiding shadow acne
	TMin = 0.001
	// TMax is effectively infinity
	TMax = math.MaxFloat64
	// DefaultMaxDepth caps the number of bounces per camera ray
	DefaultMaxDepth = 50
)

// Integrator defines the interface for light transport algorithms.
// Implementations must be safe for concurrent use; all mutable state lives in the sampler.
type Integrator interface {
	RayColor(ray core.Ray, world geometry.Hittable, sampler core.Sampler) core.Vec3
}

// Gradient is a vertical sky gradient used for rays that escape the scene
type Gradient struct {
	Bottom core.Vec3 // Color looking straight down
	Top    core.Vec3 // Color looking straight up
}

// DefaultSky returns the white-to-blue sky
func DefaultSky() Gradient {
	return Gradient{
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
		Top:    core.NewVec3(0.5, 0.7, 1.0),
	}
}

// Color returns the background seen along direction
func (g Gradient) Color(direction core.Vec3) core.Vec3 {
	// Map y from [-1,1] to [0,1]
	t := 0.5 * (direction.Normalize().Y + 1.0)
	return core.Lerp(g.Bottom, g.Top, t)
}
