package pixellift

import (
	"image"
	"math"
)

// grayPlane extracts a single luma plane (Rec. 601 weights).
func grayPlane(img *image.NRGBA) ([]uint8, int, int) {
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	p := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			lum := 0.299*float64(row[x*4]) + 0.587*float64(row[x*4+1]) + 0.114*float64(row[x*4+2])
			p[y*w+x] = clampByte(lum)
		}
	}
	return p, w, h
}

// planeToNRGBA expands a single plane into three identical color
// channels with opaque alpha, restoring the channel layout the rest of
// the system expects.
func planeToNRGBA(p []uint8, w, h int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for x := 0; x < w; x++ {
			v := p[y*w+x]
			row[x*4] = v
			row[x*4+1] = v
			row[x*4+2] = v
			row[x*4+3] = 255
		}
	}
	return out
}

// gaussianBlurPlane applies a separable Gaussian blur to a single
// plane. Kernel radius is 3*sigma, which covers >99% of the kernel mass.
func gaussianBlurPlane(src []uint8, w, h int, sigma float64) []uint8 {
	if sigma <= 0 || w == 0 || h == 0 {
		out := make([]uint8, len(src))
		copy(out, src)
		return out
	}

	radius := int(math.Ceil(3.0 * sigma))
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2.0 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	// Horizontal pass into a float buffer, then vertical pass.
	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0.0
			for k := -radius; k <= radius; k++ {
				xx := x + k
				if xx < 0 {
					xx = 0
				} else if xx > w-1 {
					xx = w - 1
				}
				acc += kernel[k+radius] * float64(src[y*w+xx])
			}
			tmp[y*w+x] = acc
		}
	}
	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0.0
			for k := -radius; k <= radius; k++ {
				yy := y + k
				if yy < 0 {
					yy = 0
				} else if yy > h-1 {
					yy = h - 1
				}
				acc += kernel[k+radius] * tmp[yy*w+x]
			}
			out[y*w+x] = clampByte(acc)
		}
	}
	return out
}

// Adaptive binarization parameters for the document pipeline: the
// threshold for each pixel is a Gaussian-weighted neighborhood mean
// over a 35px block, offset by a constant of 15.
const (
	binarizeBlock  = 35
	binarizeOffset = 15.0
)

// adaptiveBinarize thresholds a grayscale plane to pure black/white
// using a local Gaussian-weighted mean.
func adaptiveBinarize(src []uint8, w, h int) []uint8 {
	// Sigma derived from the block size the same way fixed-aperture
	// Gaussian kernels conventionally are.
	sigma := 0.3*(float64(binarizeBlock-1)*0.5-1.0) + 0.8
	mean := gaussianBlurPlane(src, w, h, sigma)

	out := make([]uint8, w*h)
	for i := range src {
		if float64(src[i]) > float64(mean[i])-binarizeOffset {
			out[i] = 255
		}
	}
	return out
}
