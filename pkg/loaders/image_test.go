package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// TestLoadImage creates a test PNG and verifies loading
func TestLoadImage(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.png")

	// Create a simple 2x2 test image
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})

	f, err := os.Create(testFile)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	f.Close()

	grid, err := LoadImage(testFile)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	if grid.Width != 2 || grid.Height != 2 {
		t.Errorf("Expected 2x2 image, got %dx%d", grid.Width, grid.Height)
	}

	expected := []core.RGB8{
		{R: 255, G: 255, B: 255},
		{R: 255},
		{G: 255},
		{B: 255},
	}
	for i, want := range expected {
		if grid.Pixels[i] != want {
			t.Errorf("Pixel %d: expected %v, got %v", i, want, grid.Pixels[i])
		}
	}
}

func TestLoadImage_Missing(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestFromImage_OffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 7, 6))
	img.Set(5, 5, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.Set(6, 5, color.RGBA{R: 40, G: 50, B: 60, A: 255})

	grid := FromImage(img)
	if grid.Width != 2 || grid.Height != 1 {
		t.Fatalf("Expected 2x1 grid, got %dx%d", grid.Width, grid.Height)
	}
	if grid.At(0, 0) != (core.RGB8{R: 10, G: 20, B: 30}) || grid.At(1, 0) != (core.RGB8{R: 40, G: 50, B: 60}) {
		t.Errorf("Unexpected pixels %v", grid.Pixels)
	}
}
