package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// ErrInvalidSphere is wrapped by World.Validate for degenerate primitives
var ErrInvalidSphere = errors.New("invalid sphere")

// World is the ordered collection of spheres a render intersects against.
// It is read-only while rendering, so any number of goroutines may call Hit.
type World struct {
	Spheres []Sphere
}

// NewWorld creates a world from the given spheres
func NewWorld(spheres ...Sphere) *World {
	return &World{Spheres: spheres}
}

// Add appends spheres to the world
func (w *World) Add(spheres ...Sphere) {
	w.Spheres = append(w.Spheres, spheres...)
}

// Len returns the number of spheres
func (w *World) Len() int {
	return len(w.Spheres)
}

// Hit returns the closest intersection in (tMin, tMax) over all spheres.
// Candidates with a NaN distance are skipped. When two spheres report the same
// distance the earlier one wins.
func (w *World) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	var closest material.HitRecord
	closestSoFar := tMax
	hitAnything := false

	for i := range w.Spheres {
		hit, isHit := w.Spheres[i].Hit(ray, tMin, closestSoFar)
		if !isHit || math.IsNaN(hit.T) {
			continue
		}
		if hit.T < closestSoFar {
			hitAnything = true
			closestSoFar = hit.T
			closest = hit
		}
	}

	return closest, hitAnything
}

// Validate checks every sphere for a positive, finite radius and finite center
func (w *World) Validate() error {
	for i, s := range w.Spheres {
		if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
			return fmt.Errorf("%w: sphere %d has radius %v", ErrInvalidSphere, i, s.Radius)
		}
		if core.HasNaN(s.Center) {
			return fmt.Errorf("%w: sphere %d has center %v", ErrInvalidSphere, i, s.Center)
		}
	}
	return nil
}
