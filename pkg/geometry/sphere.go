package geometry

import (
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) Sphere {
	return Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Roots returns both solutions of the ray/sphere quadratic, nearest first.
// ok is false when the ray misses or only grazes the sphere.
func (s Sphere) Roots(ray core.Ray) (near, far float64, ok bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Sub(s.Center)

	// Quadratic coefficients for a*t² + 2*b*t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	// A zero-length direction never reaches anything
	if a == 0 {
		return 0, 0, false
	}

	discriminant := b*b - a*c
	if !(discriminant > 0) {
		return 0, 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	return (-b - sqrtD) / a, (-b + sqrtD) / a, true
}

// Hit tests if a ray intersects with the sphere strictly inside (tMin, tMax)
func (s Sphere) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	near, far, ok := s.Roots(ray)
	if !ok {
		return material.HitRecord{}, false
	}

	// Try the closer intersection point first
	root := near
	if !(root > tMin && root < tMax) {
		root = far
		if !(root > tMin && root < tMax) {
			return material.HitRecord{}, false
		}
	}

	point := ray.At(root)
	return material.HitRecord{
		T:        root,
		Point:    point,
		Normal:   point.Sub(s.Center).Mul(1.0 / s.Radius),
		Material: s.Material,
	}, true
}
