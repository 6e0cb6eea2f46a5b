// Package mrd decodes the raw MRD acquisition files written by MR Solutions
// scanners: a 512 byte header, the interleaved sample data and a free-text
// parameter block running to the end of the file.
package mrd

import (
	"encoding/binary"
	"io"
	"math"

	"hpmri/internal/models"
)

// HeaderSize is the fixed length of the MRD header; sample data starts here.
const HeaderSize = 512

// Byte offsets of the header fields the decoder uses. The layout is sparse
// and everything between these fields is reserved by the instrument.
const (
	offsetSamples    = 0
	offsetViews      = 4
	offsetSliceViews = 8
	offsetSlices     = 12
	offsetSampleType = 18
	offsetEchoes     = 152
	offsetNEX        = 156
)

// Header holds the fields read from the fixed MRD header
type Header struct {
	Samples    int32
	Views      int32
	SliceViews int32
	Slices     int32
	SampleType int16
	Echoes     int32
	NEX        int32
}

// ParseHeader reads the header fields from the start of b
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, &DecodeError{Kind: ErrTruncatedHeader, Declared: HeaderSize, Available: len(b)}
	}

	le := binary.LittleEndian
	return Header{
		Samples:    int32(le.Uint32(b[offsetSamples:])),
		Views:      int32(le.Uint32(b[offsetViews:])),
		SliceViews: int32(le.Uint32(b[offsetSliceViews:])),
		Slices:     int32(le.Uint32(b[offsetSlices:])),
		SampleType: int16(le.Uint16(b[offsetSampleType:])),
		Echoes:     int32(le.Uint32(b[offsetEchoes:])),
		NEX:        int32(le.Uint32(b[offsetNEX:])),
	}, nil
}

// ReadHeader reads exactly HeaderSize bytes from r and parses them. The
// sample data is not touched, which makes it cheap to inventory many files.
func ReadHeader(r io.Reader) (Header, error) {
	buf := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, buf)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return Header{}, &DecodeError{Kind: ErrTruncatedHeader, Declared: HeaderSize, Available: n}
	}
	if err != nil {
		return Header{}, err
	}
	return ParseHeader(buf)
}

// put writes the header fields into b, which must be at least HeaderSize long.
// Reserved bytes are left as they are.
func (h Header) put(b []byte) {
	le := binary.LittleEndian
	le.PutUint32(b[offsetSamples:], uint32(h.Samples))
	le.PutUint32(b[offsetViews:], uint32(h.Views))
	le.PutUint32(b[offsetSliceViews:], uint32(h.SliceViews))
	le.PutUint32(b[offsetSlices:], uint32(h.Slices))
	le.PutUint16(b[offsetSampleType:], uint16(h.SampleType))
	le.PutUint32(b[offsetEchoes:], uint32(h.Echoes))
	le.PutUint32(b[offsetNEX:], uint32(h.NEX))
}

// Dimensions returns the six extents in decode order
func (h Header) Dimensions() models.Dimensions {
	return models.Dimensions{
		Samples:    int(h.Samples),
		Views:      int(h.Views),
		SliceViews: int(h.SliceViews),
		Slices:     int(h.Slices),
		Echoes:     int(h.Echoes),
		NEX:        int(h.NEX),
	}
}

// Format looks up the sample format selected by the header
func (h Header) Format() (SampleFormat, error) {
	return LookupSampleFormat(h.SampleType)
}

// TotalPoints returns the product of all six extents. Every extent must be
// at least 1 and the product must fit in an int.
func (h Header) TotalPoints() (int, error) {
	extents := []struct {
		name   string
		offset int
		value  int32
	}{
		{"samples", offsetSamples, h.Samples},
		{"views", offsetViews, h.Views},
		{"slice_views", offsetSliceViews, h.SliceViews},
		{"slices", offsetSlices, h.Slices},
		{"echoes", offsetEchoes, h.Echoes},
		{"nex", offsetNEX, h.NEX},
	}

	total := 1
	for _, e := range extents {
		if e.value < 1 {
			return 0, &DecodeError{Kind: ErrInvalidExtent, Offset: e.offset, Field: e.name, Value: int64(e.value)}
		}
		if total > math.MaxInt/int(e.value) {
			return 0, &DecodeError{Kind: ErrDimensionOverflow, Offset: e.offset, Field: e.name, Value: int64(e.value)}
		}
		total *= int(e.value)
	}
	return total, nil
}

// dataEnd returns the offset one past the last sample byte
func (h Header) dataEnd(f SampleFormat) (int, error) {
	total, err := h.TotalPoints()
	if err != nil {
		return 0, err
	}
	if total > (math.MaxInt-HeaderSize)/f.BytesPerSample {
		return 0, &DecodeError{Kind: ErrDimensionOverflow, Offset: HeaderSize, Field: "payload"}
	}
	return HeaderSize + total*f.BytesPerSample, nil
}
