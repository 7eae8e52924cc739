package output

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// PNGPath returns <dir>/<w>x<h>x<ns>.png
func PNGPath(dir string, width, height, samples int) string {
	return filepath.Join(dir, ArtifactName(width, height, samples, "", ".png"))
}

// ThumbnailPath returns <dir>/<w>x<h>x<ns>_thumb.png
func ThumbnailPath(dir string, width, height, samples int) string {
	return filepath.Join(dir, ArtifactName(width, height, samples, "_thumb", ".png"))
}

// WritePNG saves the grid as a PNG companion to the PPM output
func WritePNG(path string, grid *core.PixelGrid) error {
	return saveImage(path, grid.ToImage())
}

// Thumbnail scales the grid down to fit within maxSize x maxSize, keeping its aspect ratio.
// Grids already small enough are returned at their original size.
func Thumbnail(grid *core.PixelGrid, maxSize uint) image.Image {
	return resize.Thumbnail(maxSize, maxSize, grid.ToImage(), resize.Bilinear)
}

// WriteThumbnail saves a preview no larger than maxSize on either side
func WriteThumbnail(path string, grid *core.PixelGrid, maxSize uint) error {
	if maxSize == 0 {
		return fmt.Errorf("thumbnail size must be positive")
	}
	return saveImage(path, Thumbnail(grid, maxSize))
}

func saveImage(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
