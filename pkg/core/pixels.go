package core

import (
	"image"
	"image/color"
	"math"
)

// RGB8 is a quantized display color
type RGB8 struct {
	R, G, B uint8
}

// PixelGrid is a flat row-major pixel buffer, top row first
type PixelGrid struct {
	Width  int
	Height int
	Pixels []RGB8
}

// NewPixelGrid allocates a black grid
func NewPixelGrid(width, height int) *PixelGrid {
	return &PixelGrid{
		Width:  width,
		Height: height,
		Pixels: make([]RGB8, width*height),
	}
}

// At returns the pixel in column x of row y (row 0 is the top of the image)
func (g *PixelGrid) At(x, y int) RGB8 {
	return g.Pixels[y*g.Width+x]
}

// Set stores the pixel in column x of row y
func (g *PixelGrid) Set(x, y int, c RGB8) {
	g.Pixels[y*g.Width+x] = c
}

// ToImage converts the grid to an opaque RGBA image
func (g *PixelGrid) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := g.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: p.R, G: p.G, B: p.B, A: 255})
		}
	}
	return img
}

// QuantizeComponent maps a display-space component to [0, 255] via floor(255.999*c),
// clamping c to [0, 1] first.
func QuantizeComponent(c float64) uint8 {
	if math.IsNaN(c) || c <= 0 {
		return 0
	}
	if c >= 1 {
		return 255
	}
	return uint8(math.Floor(255.999 * c))
}

// ToRGB8 clamps a linear color to [0,1], applies gamma 2 (square root) and quantizes it
func ToRGB8(linear Vec3) RGB8 {
	c := GammaCorrect(Clamp(linear, 0, 1), 2.0)
	return RGB8{
		R: QuantizeComponent(c.X),
		G: QuantizeComponent(c.Y),
		B: QuantizeComponent(c.Z),
	}
}
