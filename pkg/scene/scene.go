package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// ErrInvalidCamera is returned by Validate for cameras that cannot form a view
var ErrInvalidCamera = errors.New("invalid camera")

// Scene contains all the elements needed for rendering
type Scene struct {
	World        *geometry.World       // Spheres in intersection order
	CameraConfig renderer.CameraConfig // Recommended view
	Background   integrator.Gradient   // Sky seen by escaping rays
}

// Camera builds the scene camera for an image with the given aspect ratio
func (s *Scene) Camera(aspectRatio float64) *renderer.Camera {
	config := s.CameraConfig
	config.AspectRatio = aspectRatio
	return renderer.NewCamera(config)
}

// Validate checks the world geometry and the camera setup
func (s *Scene) Validate() error {
	if s.World == nil {
		return fmt.Errorf("scene has no world")
	}
	if err := s.World.Validate(); err != nil {
		return err
	}

	c := s.CameraConfig
	switch {
	case c.LookFrom.Sub(c.LookAt).Norm() == 0:
		return fmt.Errorf("%w: look-from equals look-at %v", ErrInvalidCamera, c.LookAt)
	case c.Up.Cross(c.LookFrom.Sub(c.LookAt)).Norm() == 0:
		return fmt.Errorf("%w: up %v is parallel to the view direction", ErrInvalidCamera, c.Up)
	case !(c.VFov > 0 && c.VFov < 180):
		return fmt.Errorf("%w: vertical field of view %v", ErrInvalidCamera, c.VFov)
	case c.Aperture < 0 || math.IsNaN(c.Aperture):
		return fmt.Errorf("%w: aperture %v", ErrInvalidCamera, c.Aperture)
	case core.HasNaN(c.LookFrom) || core.HasNaN(c.LookAt):
		return fmt.Errorf("%w: camera position is NaN", ErrInvalidCamera)
	}
	return nil
}

// GetSphereCount returns the number of spheres in the scene
func (s *Scene) GetSphereCount() int {
	if s.World == nil {
		return 0
	}
	return s.World.Len()
}
