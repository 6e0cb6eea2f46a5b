package mrd

import (
	"fmt"
	"io"
	"os"
)

// Decode parses a complete MRD buffer. It returns the sample array and the
// parameter block found after the sample data. Both are freshly allocated and
// do not alias b.
//
// Decoding is all or nothing: on error neither value is returned.
func Decode(b []byte) (*Array, []byte, error) {
	hdr, err := ParseHeader(b)
	if err != nil {
		return nil, nil, err
	}

	format, err := hdr.Format()
	if err != nil {
		return nil, nil, err
	}

	end, err := hdr.dataEnd(format)
	if err != nil {
		return nil, nil, err
	}
	if end > len(b) {
		return nil, nil, &DecodeError{Kind: ErrTruncatedPayload, Offset: HeaderSize, Declared: end, Available: len(b)}
	}

	arr := &Array{
		Dims:   hdr.Dimensions(),
		Format: format,
		Data:   decodeSamples(b[HeaderSize:end], format),
	}

	params := make([]byte, len(b)-end)
	copy(params, b[end:])

	return arr, params, nil
}

// decodeSamples converts the raw payload into samples. For complex formats
// element 2i is the real part and element 2i+1 the imaginary part of sample i.
// The payload is already in first-index-fastest order, so no reordering is needed.
func decodeSamples(payload []byte, format SampleFormat) []complex128 {
	read := format.Kind.reader()
	size := format.Kind.Size()
	n := len(payload) / format.BytesPerSample
	out := make([]complex128, n)

	var parts [2]float64
	for i := range out {
		off := i * format.BytesPerSample
		for j := 0; j < format.ElementsPerSample(); j++ {
			parts[j] = read(payload[off+j*size:])
		}
		out[i] = complex(parts[0], parts[1])
	}
	return out
}

// DecodeReader reads r to the end and decodes the result
func DecodeReader(r io.Reader) (*Array, []byte, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	return Decode(b)
}

// DecodeFile opens path read-only, decodes it and closes it again before
// returning, whether or not decoding succeeded.
func DecodeFile(path string) (*Array, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open MRD file: %w", err)
	}
	defer f.Close()

	arr, params, err := DecodeReader(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return arr, params, nil
}

// ReadHeaderFile reads only the header of the file at path
func ReadHeaderFile(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, fmt.Errorf("failed to open MRD file: %w", err)
	}
	defer f.Close()

	hdr, err := ReadHeader(f)
	if err != nil {
		return Header{}, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	return hdr, nil
}
