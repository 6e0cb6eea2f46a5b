// Package enhance turns a raw proton image slice into an 8-bit display image
// with a clip, normalize, CLAHE, re-clip pipeline.
package enhance

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Empirical noise floors of the proton scanner output. Each clip works on the
// scale of the stage it follows.
const (
	// RawNoiseFloor zeroes raw intensities below it before normalization
	RawNoiseFloor = 5.0

	// NormalizedNoiseFloor zeroes normalized [0,1] values below it
	NormalizedNoiseFloor = 0.05

	// EqualizedNoiseFloor zeroes 8-bit CLAHE output below it
	EqualizedNoiseFloor = 5
)

// TileGrid is the number of CLAHE tiles along each image axis
const TileGrid = 8

// DefaultContrast is the CLAHE clip limit used when the caller gives none
const DefaultContrast = 1.0

var (
	ErrDegenerateSlice = errors.New("degenerate slice")
	ErrInvalidContrast = errors.New("invalid contrast")
)

// SliceError reports why a slice could not be enhanced
type SliceError struct {
	Kind error

	// Value is the flat intensity of a degenerate slice, or the rejected contrast
	Value float64

	Rows, Cols int
}

func (e *SliceError) Error() string {
	if e.Kind == ErrInvalidContrast {
		return fmt.Sprintf("enhance: %v: %v (must be positive and finite)", e.Kind, e.Value)
	}
	return fmt.Sprintf("enhance: %v: %dx%d slice has constant intensity %v after noise clipping", e.Kind, e.Rows, e.Cols, e.Value)
}

func (e *SliceError) Unwrap() error {
	return e.Kind
}

// ValidateContrast rejects clip limits that are not positive and finite
func ValidateContrast(contrast float64) error {
	if !(contrast > 0) || math.IsInf(contrast, 1) {
		return &SliceError{Kind: ErrInvalidContrast, Value: contrast}
	}
	return nil
}

// Enhance runs the full proton pipeline on a raw intensity slice (rows are
// image rows) and returns an 8-bit image of the same size:
//
//  1. raw values below RawNoiseFloor become 0
//  2. min-max normalize to [0,1] over this slice
//  3. normalized values below NormalizedNoiseFloor become 0
//  4. CLAHE with clip limit contrast on an 8x8 tile grid, on the 8-bit rescale
//  5. 8-bit values below EqualizedNoiseFloor become 0, rescale to [0,1] and
//     clip below NormalizedNoiseFloor again
//  6. rescale to 8 bits
//
// raw is not modified.
func Enhance(raw mat.Matrix, contrast float64) (*image.Gray, error) {
	if err := ValidateContrast(contrast); err != nil {
		return nil, err
	}

	rows, cols := raw.Dims()
	normalized, err := normalize(raw)
	if err != nil {
		return nil, err
	}

	gray := image.NewGray(image.Rect(0, 0, cols, rows))
	for i, v := range normalized {
		// Truncating conversion, as an unsigned 8-bit cast of the scaled value
		gray.Pix[i] = uint8(v * 255)
	}

	equalized := CLAHE(gray, contrast, TileGrid, TileGrid)

	for i, v := range equalized.Pix {
		if v < EqualizedNoiseFloor {
			v = 0
		}
		rescaled := float64(v) / 255.0
		if rescaled < NormalizedNoiseFloor {
			rescaled = 0
		}
		equalized.Pix[i] = uint8(rescaled * 255)
	}

	return equalized, nil
}

// normalize applies steps 1-3 and returns the values in row-major order
func normalize(raw mat.Matrix) ([]float64, error) {
	rows, cols := raw.Dims()
	if rows == 0 || cols == 0 {
		return nil, &SliceError{Kind: ErrDegenerateSlice, Rows: rows, Cols: cols}
	}

	data := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := raw.At(r, c)
			if v < RawNoiseFloor {
				v = 0
			}
			data[r*cols+c] = v
		}
	}

	lo, hi := floats.Min(data), floats.Max(data)
	if lo == hi {
		return nil, &SliceError{Kind: ErrDegenerateSlice, Value: lo, Rows: rows, Cols: cols}
	}

	span := hi - lo
	for i, v := range data {
		n := (v - lo) / span
		if n < NormalizedNoiseFloor {
			n = 0
		}
		data[i] = n
	}
	return data, nil
}
