package mrd

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ElementKind is the numeric type of a single stored element. A complex
// sample is made of two consecutive elements (real, imaginary).
type ElementKind int

const (
	KindUint8 ElementKind = iota + 1
	KindInt8
	KindInt16
	KindInt32
	KindFloat32
	KindFloat64
)

// Size returns the width of one element in bytes
func (k ElementKind) Size() int {
	switch k {
	case KindUint8, KindInt8:
		return 1
	case KindInt16:
		return 2
	case KindInt32, KindFloat32:
		return 4
	case KindFloat64:
		return 8
	}
	return 0
}

func (k ElementKind) String() string {
	switch k {
	case KindUint8:
		return "uint8"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	}
	return fmt.Sprintf("ElementKind(%d)", int(k))
}

// reader returns a function decoding one little-endian element from the
// start of b. Selected once per decode so the sample loop stays branch free.
func (k ElementKind) reader() func(b []byte) float64 {
	switch k {
	case KindUint8:
		return func(b []byte) float64 { return float64(b[0]) }
	case KindInt8:
		return func(b []byte) float64 { return float64(int8(b[0])) }
	case KindInt16:
		return func(b []byte) float64 { return float64(int16(binary.LittleEndian.Uint16(b))) }
	case KindInt32:
		return func(b []byte) float64 { return float64(int32(binary.LittleEndian.Uint32(b))) }
	case KindFloat32:
		return func(b []byte) float64 { return float64(math.Float32frombits(binary.LittleEndian.Uint32(b))) }
	case KindFloat64:
		return func(b []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(b)) }
	}
	return nil
}

// writer is the inverse of reader. Integer kinds truncate toward zero.
func (k ElementKind) writer() func(b []byte, v float64) {
	switch k {
	case KindUint8:
		return func(b []byte, v float64) { b[0] = uint8(v) }
	case KindInt8:
		return func(b []byte, v float64) { b[0] = uint8(int8(v)) }
	case KindInt16:
		return func(b []byte, v float64) { binary.LittleEndian.PutUint16(b, uint16(int16(v))) }
	case KindInt32:
		return func(b []byte, v float64) { binary.LittleEndian.PutUint32(b, uint32(int32(v))) }
	case KindFloat32:
		return func(b []byte, v float64) { binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v))) }
	case KindFloat64:
		return func(b []byte, v float64) { binary.LittleEndian.PutUint64(b, math.Float64bits(v)) }
	}
	return nil
}

// SampleFormat describes how the samples of an MRD file are stored, as
// selected by the sample type code in the header.
type SampleFormat struct {
	// Code is the header value this format was looked up with
	Code int16

	// Kind is the type of each stored element
	Kind ElementKind

	// BytesPerSample is the on-disk size of one sample (both halves for complex formats)
	BytesPerSample int

	// Complex is true when adjacent elements pair up as (real, imaginary)
	Complex bool
}

// ElementsPerSample is 2 for complex formats and 1 for real formats
func (f SampleFormat) ElementsPerSample() int {
	if f.Complex {
		return 2
	}
	return 1
}

func (f SampleFormat) String() string {
	if f.Complex {
		return "complex " + f.Kind.String()
	}
	return "real " + f.Kind.String()
}

// sampleFormats is the closed set of sample type codes the instrument writes.
// Anything else is rejected rather than guessed.
var sampleFormats = map[int16]SampleFormat{
	3:  {Code: 3, Kind: KindInt16, BytesPerSample: 2, Complex: false},
	16: {Code: 16, Kind: KindUint8, BytesPerSample: 2, Complex: true},
	17: {Code: 17, Kind: KindInt8, BytesPerSample: 2, Complex: true},
	18: {Code: 18, Kind: KindInt16, BytesPerSample: 4, Complex: true},
	19: {Code: 19, Kind: KindInt16, BytesPerSample: 4, Complex: true},
	20: {Code: 20, Kind: KindInt32, BytesPerSample: 8, Complex: true},
	21: {Code: 21, Kind: KindFloat32, BytesPerSample: 8, Complex: true},
	22: {Code: 22, Kind: KindFloat64, BytesPerSample: 16, Complex: true},
}

// LookupSampleFormat resolves a header sample type code
func LookupSampleFormat(code int16) (SampleFormat, error) {
	f, ok := sampleFormats[code]
	if !ok {
		return SampleFormat{}, &DecodeError{Kind: ErrUnknownSampleFormat, Offset: offsetSampleType, Code: code}
	}
	return f, nil
}

// SampleFormatCodes lists every recognised code in ascending order
func SampleFormatCodes() []int16 {
	return []int16{3, 16, 17, 18, 19, 20, 21, 22}
}
