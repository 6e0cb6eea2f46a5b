package volume

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"hpmri/internal/models"
	"hpmri/pkg/mrd"
)

// createTestArray builds an acquisition whose samples encode their coordinates
func createTestArray() *mrd.Array {
	dims := models.Dimensions{Samples: 8, Views: 3, SliceViews: 1, Slices: 2, Echoes: 2, NEX: 1}
	arr := &mrd.Array{Dims: dims, Data: make([]complex128, 8*3*2*2)}
	for e := 0; e < 2; e++ {
		for sl := 0; sl < 2; sl++ {
			for v := 0; v < 3; v++ {
				for s := 0; s < 8; s++ {
					arr.Data[arr.Index(s, v, 0, sl, e, 0)] = complex(float64(s+10*v+100*sl+1000*e), 0)
				}
			}
		}
	}
	return arr
}

func TestPlane(t *testing.T) {
	arr := createTestArray()

	plane, err := Plane(arr, Position{Slice: 1, Echo: 1})
	if err != nil {
		t.Fatalf("Failed to extract plane: %v", err)
	}

	rows, cols := plane.Dims()
	if rows != 3 || cols != 8 {
		t.Fatalf("Expected 3x8 plane, got %dx%d", rows, cols)
	}

	if v := plane.At(2, 5); v != 1125 {
		t.Errorf("Expected 1125 at view 2 sample 5, got %v", v)
	}

	if _, err := Plane(arr, Position{Slice: 2}); !errors.Is(err, ErrPositionOutOfRange) {
		t.Errorf("Expected ErrPositionOutOfRange for out of range slice, got %v", err)
	}
}

func TestSpectrum(t *testing.T) {
	dims := models.Dimensions{Samples: 8, Views: 1, SliceViews: 1, Slices: 1, Echoes: 1, NEX: 1}
	arr := &mrd.Array{Dims: dims, Data: make([]complex128, 8)}

	// A complex exponential at bin 2 transforms to a single peak
	for s := 0; s < 8; s++ {
		arr.Data[s] = cmplx.Exp(complex(0, 2*math.Pi*2*float64(s)/8))
	}

	spec, err := Spectrum(arr, 0, Position{})
	if err != nil {
		t.Fatalf("Failed to compute spectrum: %v", err)
	}

	for k, c := range spec {
		want := 0.0
		if k == 2 {
			want = 8
		}
		if math.Abs(cmplx.Abs(c)-want) > 1e-9 {
			t.Errorf("Bin %d: expected magnitude %v, got %v", k, want, cmplx.Abs(c))
		}
	}

	if _, err := Spectrum(arr, 1, Position{}); !errors.Is(err, ErrPositionOutOfRange) {
		t.Errorf("Expected ErrPositionOutOfRange for out of range view, got %v", err)
	}
}

func TestMagnitudes(t *testing.T) {
	arr := &mrd.Array{Data: []complex128{3 + 4i, -2, 0}}
	mags := Magnitudes(arr)
	want := []float64{5, 2, 0}
	for i := range want {
		if mags[i] != want[i] {
			t.Errorf("Expected magnitude %v at %d, got %v", want[i], i, mags[i])
		}
	}
}

func TestPlaneImage(t *testing.T) {
	arr := createTestArray()
	plane, err := Plane(arr, Position{})
	if err != nil {
		t.Fatalf("Failed to extract plane: %v", err)
	}

	img := PlaneImage(plane)
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 3 {
		t.Fatalf("Expected 8x3 image, got %v", img.Bounds())
	}

	// The largest magnitude (view 2, sample 7) maps to white
	if v := img.Gray16At(7, 2).Y; v != 65535 {
		t.Errorf("Expected 65535 at the peak, got %d", v)
	}
	if v := img.Gray16At(0, 0).Y; v != 0 {
		t.Errorf("Expected 0 at the minimum, got %d", v)
	}
}
