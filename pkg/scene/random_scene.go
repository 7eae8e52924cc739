package scene

import (
	"math/rand"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

const (
	smallSphereRadius = 0.2
	gridExtent        = 11
)

// heroClearing is the point the small spheres keep away from so the metal hero sphere stays visible
var heroClearing = core.NewVec3(4, 0.2, 0)

// NewRandomScene creates the field of small random spheres around three large ones.
// All randomness comes from random, so a seeded generator gives the same scene every time.
func NewRandomScene(random *rand.Rand) *Scene {
	world := geometry.NewWorld(
		// Ground
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	)

	for a := -gridExtent; a < gridExtent; a++ {
		for b := -gridExtent; b < gridExtent; b++ {
			chooseMat := random.Float64()
			center := core.NewVec3(
				float64(a)+0.9*random.Float64(),
				smallSphereRadius,
				float64(b)+0.9*random.Float64(),
			)

			if center.Sub(heroClearing).Norm() <= 0.9 {
				continue
			}

			var mat material.Material
			switch {
			case chooseMat < 0.5:
				mat = material.NewLambertian(core.NewVec3(
					random.Float64()*random.Float64(),
					random.Float64()*random.Float64(),
					random.Float64()*random.Float64(),
				))
			case chooseMat < 0.9:
				albedo := core.NewVec3(
					0.5*(1+random.Float64()),
					0.5*(1+random.Float64()),
					0.5*(1+random.Float64()),
				)
				mat = material.NewMetal(albedo, 0.5*random.Float64())
			default:
				mat = material.NewDielectric(1.5)
			}

			world.Add(geometry.NewSphere(center, smallSphereRadius, mat))
		}
	}

	world.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0)),
	)

	return &Scene{
		World:        world,
		CameraConfig: renderer.DefaultCameraConfig(),
		Background:   integrator.DefaultSky(),
	}
}
