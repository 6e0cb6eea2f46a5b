package mrd

import (
	"fmt"
)

// Encode builds an MRD byte stream from a header, the samples in
// first-index-fastest order and a trailing parameter block. Integer formats
// truncate each part toward zero; real formats only store the real part.
func Encode(hdr Header, samples []complex128, params []byte) ([]byte, error) {
	format, err := hdr.Format()
	if err != nil {
		return nil, err
	}

	end, err := hdr.dataEnd(format)
	if err != nil {
		return nil, err
	}

	total, _ := hdr.TotalPoints()
	if len(samples) != total {
		return nil, fmt.Errorf("mrd: header declares %d samples, got %d", total, len(samples))
	}

	buf := make([]byte, end+len(params))
	hdr.put(buf)

	write := format.Kind.writer()
	size := format.Kind.Size()
	payload := buf[HeaderSize:end]
	for i, s := range samples {
		off := i * format.BytesPerSample
		parts := [2]float64{real(s), imag(s)}
		for j := 0; j < format.ElementsPerSample(); j++ {
			write(payload[off+j*size:], parts[j])
		}
	}

	copy(buf[end:], params)
	return buf, nil
}
