package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// DefaultDir is where rendered images are written unless configured otherwise
const DefaultDir = "images"

// ArtifactName returns the base name for a render of the given size and sample count,
// e.g. "400x200x50" + suffix + ext
func ArtifactName(width, height, samples int, suffix, ext string) string {
	return fmt.Sprintf("%dx%dx%d%s%s", width, height, samples, suffix, ext)
}

// PPMPath returns <dir>/<w>x<h>x<ns>.ppm
func PPMPath(dir string, width, height, samples int) string {
	return filepath.Join(dir, ArtifactName(width, height, samples, "", ".ppm"))
}

// EncodePPM writes the grid as plain-text PPM (P3): a "P3\n<w> <h>\n255\n" header
// followed by one "R G B" line per pixel, top row first
func EncodePPM(w io.Writer, grid *core.PixelGrid) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", grid.Width, grid.Height); err != nil {
		return err
	}
	for _, p := range grid.Pixels {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", p.R, p.G, p.B); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WritePPM encodes the grid to path, creating the parent directory if needed
func WritePPM(path string, grid *core.PixelGrid) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := EncodePPM(file, grid); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
