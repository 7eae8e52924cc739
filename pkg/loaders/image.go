package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder

	"github.com/disintegration/imaging"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// LoadImage loads a PNG or JPEG image into a pixel grid
func LoadImage(filename string) (*core.PixelGrid, error) {
	img, err := imaging.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", filename, err)
	}
	return FromImage(img), nil
}

// FromImage converts any image to an 8-bit pixel grid, dropping alpha
func FromImage(img image.Image) *core.PixelGrid {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	grid := core.NewPixelGrid(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]
			grid.Set(x, y, core.RGB8{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})
		}
	}

	return grid
}
