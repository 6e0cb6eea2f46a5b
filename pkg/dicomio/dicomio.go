// Package dicomio reads the pixel array of a single-slice DICOM file into a
// matrix. DICOM parsing itself is left to github.com/suyashkumar/dicom.
package dicomio

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
	"gonum.org/v1/gonum/mat"
)

// ReadSlice parses the DICOM file at path and returns the first frame of its
// pixel data as a rows x columns matrix of raw intensities.
func ReadSlice(path string) (*mat.Dense, error) {
	dataset, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse DICOM %s", path)
	}

	pixelElement, err := dataset.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, errors.Wrapf(err, "no pixel data in %s", path)
	}

	info := dicom.MustGetPixelDataInfo(pixelElement.Value)
	if len(info.Frames) == 0 {
		return nil, errors.Errorf("no frames in pixel data of %s", path)
	}

	img, err := info.Frames[0].GetImage()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read frame of %s", path)
	}

	return MatrixFromImage(img), nil
}

// MatrixFromImage copies the grey levels of img into a matrix, one row per
// image row. 8 and 16 bit grey images keep their raw values; anything else is
// converted to 16 bit grey first.
func MatrixFromImage(img image.Image) *mat.Dense {
	bounds := img.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()
	data := make([]float64, rows*cols)

	switch src := img.(type) {
	case *image.Gray16:
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				data[y*cols+x] = float64(src.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y)
			}
		}
	case *image.Gray:
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				data[y*cols+x] = float64(src.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
			}
		}
	default:
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				g := color.Gray16Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
				data[y*cols+x] = float64(g.Y)
			}
		}
	}

	return mat.NewDense(rows, cols, data)
}
