package geometry

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// Hittable is anything a ray can be intersected with: a single Sphere or a whole World
type Hittable interface {
	Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool)
}

var (
	_ Hittable = Sphere{}
	_ Hittable = (*World)(nil)
)
