package core

import (
	"math"
	"testing"
)

func TestQuantizeComponent(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected uint8
	}{
		{"zero", 0, 0},
		{"negative", -0.3, 0},
		{"NaN", math.NaN(), 0},
		{"one", 1, 255},
		{"above one", 4.2, 255},
		{"half", 0.5, 127},
		{"just below one", 0.9999, 255},
		{"small", 1.0 / 255.0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuantizeComponent(tt.input); got != tt.expected {
				t.Errorf("QuantizeComponent(%f) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestToRGB8_GammaAndClamp(t *testing.T) {
	got := ToRGB8(NewVec3(0.25, 2.0, -1.0))
	// sqrt(0.25) = 0.5 -> floor(127.9995) = 127
	expected := RGB8{R: 127, G: 255, B: 0}
	if got != expected {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestPixelGrid_RowMajor(t *testing.T) {
	grid := NewPixelGrid(3, 2)
	grid.Set(2, 1, RGB8{R: 9, G: 8, B: 7})

	if grid.Pixels[1*3+2] != (RGB8{R: 9, G: 8, B: 7}) {
		t.Errorf("Pixel not stored in row-major position: %v", grid.Pixels)
	}
	if grid.At(2, 1) != (RGB8{R: 9, G: 8, B: 7}) {
		t.Errorf("At returned %v", grid.At(2, 1))
	}

	img := grid.ToImage()
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("Unexpected image bounds %v", img.Bounds())
	}
	c := img.RGBAAt(2, 1)
	if c.R != 9 || c.G != 8 || c.B != 7 || c.A != 255 {
		t.Errorf("Unexpected image pixel %v", c)
	}
}
