package dicomio

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestMatrixFromGray16(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetGray16(x, y, color.Gray16{Y: uint16(1000*y + x)})
		}
	}

	m := MatrixFromImage(img)
	rows, cols := m.Dims()
	if rows != 3 || cols != 4 {
		t.Fatalf("Expected 3x4 matrix, got %dx%d", rows, cols)
	}

	if v := m.At(2, 3); v != 2003 {
		t.Errorf("Expected raw value 2003 at (2,3), got %v", v)
	}
}

func TestMatrixFromGrayOffsetBounds(t *testing.T) {
	img := image.NewGray(image.Rect(10, 20, 12, 22))
	img.SetGray(11, 21, color.Gray{Y: 77})

	m := MatrixFromImage(img)
	if v := m.At(1, 1); v != 77 {
		t.Errorf("Expected 77 at (1,1), got %v", v)
	}
	if v := m.At(0, 0); v != 0 {
		t.Errorf("Expected 0 at (0,0), got %v", v)
	}
}

func TestMatrixFromRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.White)

	m := MatrixFromImage(img)
	if v := m.At(0, 0); v != 65535 {
		t.Errorf("Expected white to convert to 65535, got %v", v)
	}
	if v := m.At(0, 1); v != 0 {
		t.Errorf("Expected transparent black to convert to 0, got %v", v)
	}
}

func TestReadSliceInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.dcm")
	if err := os.WriteFile(path, []byte("not a dicom"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if _, err := ReadSlice(path); err == nil {
		t.Error("Expected error for invalid DICOM, got nil")
	}

	if _, err := ReadSlice(filepath.Join(t.TempDir(), "missing.dcm")); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}
