package models

// Dimensions holds the six acquisition extents of an MRD dataset in the
// order the decoder lays them out (samples varies fastest).
type Dimensions struct {
	Samples    int `json:"samples"`
	Views      int `json:"views"`
	SliceViews int `json:"sliceViews"`
	Slices     int `json:"slices"`
	Echoes     int `json:"echoes"`
	NEX        int `json:"nex"`
}

// Slice returns the extents as [samples, views, slice_views, slices, echoes, nex]
func (d Dimensions) Slice() []int {
	return []int{d.Samples, d.Views, d.SliceViews, d.Slices, d.Echoes, d.NEX}
}

// MagnitudeStats summarises the magnitude of every decoded sample
type MagnitudeStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// AcquisitionSummary is what a dataset query answers with: the shape of the
// decoded array, the trailing parameter text and the sample format name.
type AcquisitionSummary struct {
	// Dataset is the catalog identifier (folder name) of the acquisition
	Dataset string `json:"dataset"`

	Dimensions Dimensions `json:"dimensions"`

	// ParameterText is the free-text scanner metadata found after the sample data
	ParameterText string `json:"parameterText"`

	// SampleFormat names the element kind, e.g. "complex int16"
	SampleFormat string `json:"sampleFormat"`

	Magnitude MagnitudeStats `json:"magnitude"`
}

// DatasetInfo is one entry of a header inventory over the dataset catalog.
// Err is set (and the other fields left zero) when the header could not be read.
type DatasetInfo struct {
	Index        int        `json:"index"`
	Dataset      string     `json:"dataset"`
	Path         string     `json:"path,omitempty"`
	Dimensions   Dimensions `json:"dimensions"`
	SampleFormat string     `json:"sampleFormat,omitempty"`
	Err          string     `json:"error,omitempty"`
}
