package renderer

import "image"

// DefaultTileSize is the edge length of a square render tile in pixels
const DefaultTileSize = 32

// Tile represents a rectangular region of the image
type Tile struct {
	ID     int             // Unique tile identifier
	Bounds image.Rectangle // Pixel bounds in image coordinates (row 0 is the top)
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
	}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	var tiles []*Tile
	tileID := 0

	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1)))
			tileID++
		}
	}

	return tiles
}

// SampleRange is a contiguous run of per-pixel sample indices
type SampleRange struct {
	Start int
	Count int
}

// SplitSamples divides samplesPerPixel into at most batches contiguous ranges
// whose sizes differ by at most one. Every range has at least one sample.
func SplitSamples(samplesPerPixel, batches int) []SampleRange {
	if samplesPerPixel <= 0 {
		return nil
	}
	if batches <= 0 {
		batches = 1
	}
	batches = min(batches, samplesPerPixel)

	ranges := make([]SampleRange, 0, batches)
	base := samplesPerPixel / batches
	extra := samplesPerPixel % batches
	start := 0
	for i := 0; i < batches; i++ {
		count := base
		if i < extra {
			count++
		}
		ranges = append(ranges, SampleRange{Start: start, Count: count})
		start += count
	}
	return ranges
}
