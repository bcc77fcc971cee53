package pixellift

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// unsharpSigma is the Gaussian sigma of the blurred copy used for
// unsharp masking. All modes sharpen with the same sigma and differ
// only in amount.
const unsharpSigma = 1.0

// sharpen applies unsharp masking: base*(1+amount) - blurred*amount.
func sharpen(img *image.NRGBA, amount float64) *image.NRGBA {
	blurred := imaging.Blur(img, unsharpSigma)
	return addWeighted(img, 1.0+amount, blurred, -amount)
}

// sharpenPlane is the single-channel variant used by the document
// pipeline before binarization.
func sharpenPlane(src []uint8, w, h int, amount float64) []uint8 {
	blurred := gaussianBlurPlane(src, w, h, unsharpSigma)
	out := make([]uint8, len(src))
	for i := range src {
		out[i] = clampByte((1.0+amount)*float64(src[i]) - amount*float64(blurred[i]))
	}
	return out
}

// adjustGamma remaps intensities through a (x/255)^gamma lookup table.
// Gamma slightly above 1 compresses highlights, which is how the
// restoration pipeline lifts blown-out areas of old prints.
func adjustGamma(img *image.NRGBA, gamma float64) *image.NRGBA {
	var lut [256]uint8
	for i := range lut {
		lut[i] = clampByte(math.Pow(float64(i)/255.0, gamma) * 255.0)
	}

	w := img.Rect.Dx()
	h := img.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for x := 0; x < w; x++ {
			dst[x*4] = lut[src[x*4]]
			dst[x*4+1] = lut[src[x*4+1]]
			dst[x*4+2] = lut[src[x*4+2]]
			dst[x*4+3] = src[x*4+3]
		}
	}
	return out
}

// grayWorldWhiteBalance rescales each color channel so the three
// channel means converge on the overall gray mean, neutralizing color
// casts. Used by the product pipeline.
func grayWorldWhiteBalance(img *image.NRGBA) *image.NRGBA {
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	if w == 0 || h == 0 {
		return img
	}

	var sumR, sumG, sumB float64
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			sumR += float64(row[x*4])
			sumG += float64(row[x*4+1])
			sumB += float64(row[x*4+2])
		}
	}
	n := float64(w * h)
	meanR := sumR / n
	meanG := sumG / n
	meanB := sumB / n
	meanGray := (meanR + meanG + meanB) / 3.0

	const eps = 1e-6
	scaleR := meanGray / (meanR + eps)
	scaleG := meanGray / (meanG + eps)
	scaleB := meanGray / (meanB + eps)

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dst := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for x := 0; x < w; x++ {
			dst[x*4] = clampByte(float64(src[x*4]) * scaleR)
			dst[x*4+1] = clampByte(float64(src[x*4+1]) * scaleG)
			dst[x*4+2] = clampByte(float64(src[x*4+2]) * scaleB)
			dst[x*4+3] = src[x*4+3]
		}
	}
	return out
}
