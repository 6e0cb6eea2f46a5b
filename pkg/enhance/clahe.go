package enhance

import (
	"image"
	"math"
)

// histSize is the number of grey levels of an 8-bit image
const histSize = 256

// CLAHE applies contrast limited adaptive histogram equalization to an 8-bit
// image. The image is split into tilesX x tilesY tiles, each tile gets its own
// clipped equalization table and every output pixel is bilinearly interpolated
// between the tables of the four nearest tile centres.
//
// clipLimit is relative to the average bin height of a tile histogram, so a
// value of 1 caps every bin at tileArea/256 counts. A non-positive clipLimit
// disables clipping (plain adaptive equalization).
//
// When the image does not divide evenly into tiles, the histograms are taken
// over a copy extended on the right and bottom by mirror reflection (without
// repeating the edge pixel).
func CLAHE(src *image.Gray, clipLimit float64, tilesX, tilesY int) *image.Gray {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	dst := image.NewGray(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return dst
	}

	// Padded dimensions used for the per-tile tables
	lutWidth, lutHeight := width, height
	if width%tilesX != 0 || height%tilesY != 0 {
		lutWidth = width + tilesX - width%tilesX
		lutHeight = height + tilesY - height%tilesY
	}
	tileWidth := lutWidth / tilesX
	tileHeight := lutHeight / tilesY
	tileArea := tileWidth * tileHeight

	limit := 0
	if clipLimit > 0 {
		limit = int(clipLimit * float64(tileArea) / histSize)
		if limit < 1 {
			limit = 1
		}
	}

	pixel := func(x, y int) uint8 {
		return src.Pix[reflect101(y, height)*src.Stride+reflect101(x, width)]
	}

	luts := make([][histSize]uint8, tilesX*tilesY)
	lutScale := float32(histSize-1) / float32(tileArea)

	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			var hist [histSize]int
			for y := ty * tileHeight; y < (ty+1)*tileHeight; y++ {
				for x := tx * tileWidth; x < (tx+1)*tileWidth; x++ {
					hist[pixel(x, y)]++
				}
			}

			if limit > 0 {
				clipHistogram(&hist, limit)
			}

			lut := &luts[ty*tilesX+tx]
			sum := 0
			for i := 0; i < histSize; i++ {
				sum += hist[i]
				lut[i] = saturateUint8(float32(sum) * lutScale)
			}
		}
	}

	// Horizontal interpolation positions are the same for every row
	invTileWidth := 1 / float32(tileWidth)
	invTileHeight := 1 / float32(tileHeight)
	tx1 := make([]int, width)
	tx2 := make([]int, width)
	xa := make([]float32, width)
	for x := 0; x < width; x++ {
		txf := float32(x)*invTileWidth - 0.5
		t1 := int(math.Floor(float64(txf)))
		xa[x] = txf - float32(t1)
		tx1[x] = max(t1, 0)
		tx2[x] = min(t1+1, tilesX-1)
	}

	for y := 0; y < height; y++ {
		tyf := float32(y)*invTileHeight - 0.5
		t1 := int(math.Floor(float64(tyf)))
		ya := tyf - float32(t1)
		ya1 := 1 - ya
		ty1 := max(t1, 0)
		ty2 := min(t1+1, tilesY-1)

		row := src.Pix[y*src.Stride:]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < width; x++ {
			v := row[x]
			xa1 := 1 - xa[x]
			top := float32(luts[ty1*tilesX+tx1[x]][v])*xa1 + float32(luts[ty1*tilesX+tx2[x]][v])*xa[x]
			bottom := float32(luts[ty2*tilesX+tx1[x]][v])*xa1 + float32(luts[ty2*tilesX+tx2[x]][v])*xa[x]
			out[x] = saturateUint8(top*ya1 + bottom*ya)
		}
	}

	return dst
}

// clipHistogram caps every bin at limit and spreads the excess evenly over
// all bins. The remainder that does not divide evenly is handed out one count
// at a time at a fixed stride starting from bin 0.
func clipHistogram(hist *[histSize]int, limit int) {
	clipped := 0
	for i := range hist {
		if hist[i] > limit {
			clipped += hist[i] - limit
			hist[i] = limit
		}
	}

	batch := clipped / histSize
	residual := clipped - batch*histSize
	for i := range hist {
		hist[i] += batch
	}

	if residual != 0 {
		step := max(histSize/residual, 1)
		for i := 0; i < histSize && residual > 0; i, residual = i+step, residual-1 {
			hist[i]++
		}
	}
}

// reflect101 maps p into [0, n) by mirroring about the edge pixels, e.g.
// for n=4: 4->2, 5->1, -1->1.
func reflect101(p, n int) int {
	if n == 1 {
		return 0
	}
	for p < 0 || p >= n {
		if p < 0 {
			p = -p
		} else {
			p = 2*(n-1) - p
		}
	}
	return p
}

// saturateUint8 rounds half to even and clamps to [0, 255]
func saturateUint8(v float32) uint8 {
	r := math.RoundToEven(float64(v))
	if r <= 0 {
		return 0
	}
	if r >= 255 {
		return 255
	}
	return uint8(r)
}
