package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// maxPPMDimension bounds the grid allocated for a header
const maxPPMDimension = 1 << 15

// LoadPPM reads a plain-text (P3) PPM file
func LoadPPM(filename string) (*core.PixelGrid, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PPM file: %w", err)
	}
	defer file.Close()

	grid, err := DecodePPM(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return grid, nil
}

// DecodePPM parses a P3 PPM stream. Comments starting with '#' are skipped and
// samples are rescaled to 8 bits when the maximum value is not 255.
func DecodePPM(r io.Reader) (*core.PixelGrid, error) {
	tokens := &ppmTokens{scanner: bufio.NewScanner(r)}

	magic, err := tokens.next()
	if err != nil {
		return nil, fmt.Errorf("reading magic number: %w", err)
	}
	if magic != "P3" {
		return nil, fmt.Errorf("unsupported PPM format %q, expected P3", magic)
	}

	width, err := tokens.int("width")
	if err != nil {
		return nil, err
	}
	height, err := tokens.int("height")
	if err != nil {
		return nil, err
	}
	maxVal, err := tokens.int("max value")
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 || width > maxPPMDimension || height > maxPPMDimension {
		return nil, fmt.Errorf("invalid PPM size %dx%d", width, height)
	}
	if maxVal <= 0 || maxVal > 65535 {
		return nil, fmt.Errorf("invalid PPM max value %d", maxVal)
	}

	grid := core.NewPixelGrid(width, height)
	for i := range grid.Pixels {
		var rgb [3]uint8
		for c := 0; c < 3; c++ {
			v, err := tokens.int("sample")
			if err != nil {
				return nil, fmt.Errorf("pixel %d: %w", i, err)
			}
			if v < 0 || v > maxVal {
				return nil, fmt.Errorf("pixel %d: sample %d out of range [0, %d]", i, v, maxVal)
			}
			rgb[c] = uint8(v * 255 / maxVal)
		}
		grid.Pixels[i] = core.RGB8{R: rgb[0], G: rgb[1], B: rgb[2]}
	}

	return grid, nil
}

// ppmTokens yields whitespace separated header and sample tokens, skipping comments
type ppmTokens struct {
	scanner *bufio.Scanner
	pending []string
}

func (t *ppmTokens) next() (string, error) {
	for len(t.pending) == 0 {
		if !t.scanner.Scan() {
			if err := t.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		line := t.scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		t.pending = strings.Fields(line)
	}

	word := t.pending[0]
	t.pending = t.pending[1:]
	return word, nil
}

func (t *ppmTokens) int(what string) (int, error) {
	word, err := t.next()
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", what, err)
	}
	v, err := strconv.Atoi(word)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", what, err)
	}
	return v, nil
}
