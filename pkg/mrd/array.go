package mrd

import (
	"hpmri/internal/models"
)

// Array is a decoded six dimensional acquisition indexed
// [samples, views, slice_views, slices, echoes, nex]. Data is stored with the
// first index varying fastest, which is also the order of the file.
// Samples of real formats (code 3) have a zero imaginary part.
type Array struct {
	Dims   models.Dimensions
	Format SampleFormat
	Data   []complex128
}

// Len returns the number of samples in the array
func (a *Array) Len() int {
	return len(a.Data)
}

// Shape returns the extents in index order
func (a *Array) Shape() [6]int {
	d := a.Dims
	return [6]int{d.Samples, d.Views, d.SliceViews, d.Slices, d.Echoes, d.NEX}
}

// Index converts coordinates into an offset into Data. It panics with
// ErrIndexOutOfRange when a coordinate is outside its extent.
func (a *Array) Index(s, v, sv, sl, e, n int) int {
	shape := a.Shape()
	coords := [6]int{s, v, sv, sl, e, n}

	idx := 0
	stride := 1
	for i, c := range coords {
		if c < 0 || c >= shape[i] {
			panic(ErrIndexOutOfRange)
		}
		idx += c * stride
		stride *= shape[i]
	}
	return idx
}

// At returns the sample at the given coordinates
func (a *Array) At(s, v, sv, sl, e, n int) complex128 {
	return a.Data[a.Index(s, v, sv, sl, e, n)]
}

// Clone returns a deep copy of the array
func (a *Array) Clone() *Array {
	data := make([]complex128, len(a.Data))
	copy(data, a.Data)
	return &Array{Dims: a.Dims, Format: a.Format, Data: data}
}
