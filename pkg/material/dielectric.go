package material

import (
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// NewDielectric creates a clear refractive material such as glass (1.5)
func NewDielectric(refractiveIndex float64) Material {
	return Material{Kind: KindDielectric, RefractiveIndex: refractiveIndex}
}

func (m Material) scatterDielectric(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Clear glass absorbs nothing
	attenuation := core.NewVec3(1.0, 1.0, 1.0)
	direction := rayIn.Direction
	reflected := Reflect(direction, hit.Normal)

	var outwardNormal core.Vec3
	var ratio, cosine float64
	if dot := direction.Dot(hit.Normal); dot > 0 {
		// Leaving the medium
		outwardNormal = hit.Normal.Mul(-1)
		ratio = m.RefractiveIndex
		cosine = m.RefractiveIndex * dot / direction.Norm()
	} else {
		// Entering the medium
		outwardNormal = hit.Normal
		ratio = 1.0 / m.RefractiveIndex
		cosine = -dot / direction.Norm()
	}

	scattered := core.NewRay(hit.Point, reflected)
	if refracted, ok := Refract(direction, outwardNormal, ratio); ok {
		if sampler.Get1D() >= Schlick(cosine, m.RefractiveIndex) {
			scattered = core.NewRay(hit.Point, refracted)
		}
	}

	return ScatterResult{
		Scattered:   scattered,
		Attenuation: attenuation,
	}, true
}

// Refract bends v through a surface with normal n using Snell's law. ratio is the
// incident index over the transmitted index. It reports false on total internal reflection.
func Refract(v, n core.Vec3, ratio float64) (core.Vec3, bool) {
	uv := v.Normalize()
	dt := uv.Dot(n)
	discriminant := 1.0 - ratio*ratio*(1.0-dt*dt)
	if discriminant <= 0 {
		return core.Vec3{}, false
	}
	return uv.Sub(n.Mul(dt)).Mul(ratio).Sub(n.Mul(math.Sqrt(discriminant))), true
}

// Schlick approximates Fresnel reflectance for a given cosine and refractive index
func Schlick(cosine, refractiveIndex float64) float64 {
	r0 := (1 - refractiveIndex) / (1 + refractiveIndex)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
