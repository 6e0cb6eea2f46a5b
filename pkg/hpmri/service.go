// Package hpmri ties the dataset catalog, the MRD decoder and the proton
// enhancement pipeline together behind the three operations the request
// layer calls.
package hpmri

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"hpmri/internal/models"
	"hpmri/pkg/catalog"
	"hpmri/pkg/enhance"
	"hpmri/pkg/logger"
	"hpmri/pkg/mrd"
	"hpmri/pkg/volume"
)

// SliceReader loads the raw pixel array of a proton DICOM file
type SliceReader func(path string) (*mat.Dense, error)

// Params holds everything a Service is built from
type Params struct {
	// Catalog resolves EPSI dataset indices to MRD files
	Catalog *catalog.Catalog

	// Protons resolves slice indices to proton DICOM files
	Protons *catalog.ProtonSeries

	// ReadSlice reads a proton DICOM file, normally dicomio.ReadSlice
	ReadSlice SliceReader

	// NumCores bounds the goroutines used for the header inventory
	NumCores int

	Log logger.ILogger
}

// Service answers dataset, proton image and HP-MRI data requests. It keeps no
// per-request state, so one Service can serve concurrent requests.
type Service struct {
	params *Params
}

// NewService creates a service from the provided parameters
func NewService(params *Params) *Service {
	if params.Log == nil {
		params.Log = &logger.NullLogger{}
	}
	if params.NumCores < 1 {
		params.NumCores = 1
	}
	return &Service{params: params}
}

// DatasetCount returns the number of EPSI datasets
func (s *Service) DatasetCount() int {
	return s.params.Catalog.Len()
}

// SliceCount returns the number of proton slices
func (s *Service) SliceCount() int {
	if s.params.Protons == nil {
		return 0
	}
	return s.params.Protons.Len()
}

// Inventory reads the header of every dataset
func (s *Service) Inventory(ctx context.Context) ([]models.DatasetInfo, error) {
	return catalog.Inventory(ctx, s.params.Catalog, s.params.NumCores, s.params.Log)
}

// Acquisition decodes a dataset without filtering
func (s *Service) Acquisition(datasetIndex int) (*mrd.Array, []byte, error) {
	path, err := s.params.Catalog.Resolve(datasetIndex)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	arr, parameters, err := mrd.DecodeFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "dataset %d", datasetIndex)
	}
	s.params.Log.Debugf("Decoded %s (%s, %v) in %v", path, arr.Format, arr.Dims.Slice(), time.Since(start))

	return arr, parameters, nil
}

// DecodeAcquisition decodes a dataset and summarises it: its dimensions, the
// parameter text and the sample format.
func (s *Service) DecodeAcquisition(datasetIndex int) (models.AcquisitionSummary, error) {
	arr, parameters, err := s.Acquisition(datasetIndex)
	if err != nil {
		return models.AcquisitionSummary{}, err
	}

	name, _ := s.params.Catalog.Name(datasetIndex)
	return models.AcquisitionSummary{
		Dataset:       name,
		Dimensions:    arr.Dims,
		ParameterText: string(parameters),
		SampleFormat:  arr.Format.String(),
		Magnitude:     magnitudeStats(arr),
	}, nil
}

// ExtractThresholded decodes a dataset and masks every sample whose
// magnitude is below threshold.
func (s *Service) ExtractThresholded(datasetIndex int, threshold float64) (*mrd.Array, []byte, error) {
	// Reject the threshold before touching the file
	if err := validateThreshold(threshold); err != nil {
		return nil, nil, err
	}

	arr, parameters, err := s.Acquisition(datasetIndex)
	if err != nil {
		return nil, nil, err
	}

	masked, err := Threshold(arr, threshold)
	if err != nil {
		return nil, nil, err
	}
	return masked, parameters, nil
}

// Spectrum decodes a dataset and returns the Fourier transform of the
// samples of one view at pos, along the spectroscopic axis.
func (s *Service) Spectrum(datasetIndex, view int, pos volume.Position) ([]complex128, error) {
	arr, _, err := s.Acquisition(datasetIndex)
	if err != nil {
		return nil, err
	}

	spectrum, err := volume.Spectrum(arr, view, pos)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset %d", datasetIndex)
	}
	return spectrum, nil
}

// EnhanceProtonSlice reads a proton slice, runs the enhancement pipeline
// with the given CLAHE contrast and returns the result as PNG bytes.
func (s *Service) EnhanceProtonSlice(sliceIndex int, contrast float64) ([]byte, error) {
	// Reject the contrast before parsing the DICOM file
	if err := enhance.ValidateContrast(contrast); err != nil {
		return nil, err
	}

	if s.params.Protons == nil {
		return nil, &catalog.IndexError{Kind: catalog.ErrSliceNotFound, Index: sliceIndex}
	}

	path, err := s.params.Protons.Path(sliceIndex)
	if err != nil {
		return nil, err
	}

	raw, err := s.params.ReadSlice(path)
	if err != nil {
		return nil, errors.Wrapf(err, "slice %d", sliceIndex)
	}

	img, err := enhance.Enhance(raw, contrast)
	if err != nil {
		return nil, errors.Wrapf(err, "slice %d", sliceIndex)
	}

	return enhance.EncodePNG(img)
}

func magnitudeStats(arr *mrd.Array) models.MagnitudeStats {
	mags := volume.Magnitudes(arr)
	if len(mags) == 0 {
		return models.MagnitudeStats{}
	}
	return models.MagnitudeStats{
		Min:  floats.Min(mags),
		Max:  floats.Max(mags),
		Mean: stat.Mean(mags, nil),
	}
}
