package enhance

import (
	"bufio"
	"bytes"
	"image"
	"image/png"
)

// EncodePNG losslessly encodes img as PNG bytes
func EncodePNG(img image.Image) ([]byte, error) {
	var b bytes.Buffer
	writer := bufio.NewWriter(&b)

	if err := png.Encode(writer, img); err != nil {
		return nil, err
	}

	if err := writer.Flush(); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}
