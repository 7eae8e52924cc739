package integrator

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
)

// PathTracingIntegrator implements recursive unidirectional path tracing.
// Paths end on absorption, on escaping to the sky, or at the depth cap.
type PathTracingIntegrator struct {
	maxDepth   int
	background Gradient
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(maxDepth int, background Gradient) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		maxDepth:   maxDepth,
		background: background,
	}
}

// MaxDepth returns the bounce limit
func (pt *PathTracingIntegrator) MaxDepth() int {
	return pt.maxDepth
}

// RayColor computes the radiance arriving along a camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Hittable, sampler core.Sampler) core.Vec3 {
	return pt.RayColorAt(ray, world, sampler, 0)
}

// RayColorAt computes the radiance along ray when it is already depth bounces deep
func (pt *PathTracingIntegrator) RayColorAt(ray core.Ray, world geometry.Hittable, sampler core.Sampler, depth int) core.Vec3 {
	hit, isHit := world.Hit(ray, TMin, TMax)
	if !isHit {
		return pt.background.Color(ray.Direction)
	}

	// Out of bounces: no more light is gathered
	if depth >= pt.maxDepth {
		return core.Vec3{}
	}

	scatter, didScatter := hit.Material.Scatter(ray, hit, sampler)
	if !didScatter {
		return core.Vec3{}
	}

	return core.MultiplyVec(scatter.Attenuation, pt.RayColorAt(scatter.Scattered, world, sampler, depth+1))
}
