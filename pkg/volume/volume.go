// Package volume extracts 2-D planes and spectra from a decoded acquisition.
package volume

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"

	"hpmri/pkg/mrd"
)

// ErrPositionOutOfRange is returned for plane or spectrum selectors outside
// the acquisition
var ErrPositionOutOfRange = errors.New("position out of range")

// Position selects everything but the samples and views axes
type Position struct {
	SliceView int
	Slice     int
	Echo      int
	NEX       int
}

func (p Position) check(arr *mrd.Array) error {
	d := arr.Dims
	switch {
	case p.SliceView < 0 || p.SliceView >= d.SliceViews:
		return fmt.Errorf("%w: slice view %d exceeds %d", ErrPositionOutOfRange, p.SliceView, d.SliceViews)
	case p.Slice < 0 || p.Slice >= d.Slices:
		return fmt.Errorf("%w: slice %d exceeds %d", ErrPositionOutOfRange, p.Slice, d.Slices)
	case p.Echo < 0 || p.Echo >= d.Echoes:
		return fmt.Errorf("%w: echo %d exceeds %d", ErrPositionOutOfRange, p.Echo, d.Echoes)
	case p.NEX < 0 || p.NEX >= d.NEX:
		return fmt.Errorf("%w: nex %d exceeds %d", ErrPositionOutOfRange, p.NEX, d.NEX)
	}
	return nil
}

// Plane returns the magnitude of one samples x views plane as a matrix with
// one row per view and one column per sample.
func Plane(arr *mrd.Array, pos Position) (*mat.Dense, error) {
	if err := pos.check(arr); err != nil {
		return nil, err
	}

	samples, views := arr.Dims.Samples, arr.Dims.Views
	plane := mat.NewDense(views, samples, nil)
	for v := 0; v < views; v++ {
		// Samples are contiguous in memory for a fixed view
		start := arr.Index(0, v, pos.SliceView, pos.Slice, pos.Echo, pos.NEX)
		for s := 0; s < samples; s++ {
			plane.Set(v, s, cmplx.Abs(arr.Data[start+s]))
		}
	}
	return plane, nil
}

// Spectrum returns the discrete Fourier transform of the samples of one view,
// i.e. along the spectroscopic axis of an EPSI acquisition.
func Spectrum(arr *mrd.Array, view int, pos Position) ([]complex128, error) {
	if err := pos.check(arr); err != nil {
		return nil, err
	}
	if view < 0 || view >= arr.Dims.Views {
		return nil, fmt.Errorf("%w: view %d exceeds %d", ErrPositionOutOfRange, view, arr.Dims.Views)
	}

	n := arr.Dims.Samples
	start := arr.Index(0, view, pos.SliceView, pos.Slice, pos.Echo, pos.NEX)
	seq := make([]complex128, n)
	copy(seq, arr.Data[start:start+n])

	fft := fourier.NewCmplxFFT(n)
	return fft.Coefficients(nil, seq), nil
}

// Magnitudes returns |x| for every sample, in storage order
func Magnitudes(arr *mrd.Array) []float64 {
	out := make([]float64, len(arr.Data))
	for i, v := range arr.Data {
		out[i] = cmplx.Abs(v)
	}
	return out
}

// PlaneImage scales a plane to 16-bit grey, mapping its maximum to white.
// Rows become image rows.
func PlaneImage(plane mat.Matrix) *image.Gray16 {
	rows, cols := plane.Dims()
	img := image.NewGray16(image.Rect(0, 0, cols, rows))

	peak := mat.Max(plane)
	if peak <= 0 {
		return img
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			value := uint16(math.Max(0, math.Min(65535, plane.At(y, x)/peak*65535)))
			img.SetGray16(x, y, color.Gray16{Y: value})
		}
	}
	return img
}
