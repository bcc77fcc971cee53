package pixellift

import (
	"image"
	"math"
)

// bilateralFilter smooths img while preserving edges. d is the pixel
// neighborhood diameter; sigmaColor controls how large a color
// difference still counts as "similar"; sigmaSpace weights neighbors by
// distance. Pixels across a strong edge get near-zero weight, so edges
// survive while flat regions are averaged.
func bilateralFilter(img *image.NRGBA, d int, sigmaColor, sigmaSpace float64) *image.NRGBA {
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	if w == 0 || h == 0 || d < 2 {
		return img
	}
	radius := d / 2

	// Precompute the spatial weights and the color-distance falloff.
	spatial := make([]float64, (2*radius+1)*(2*radius+1))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			dist2 := float64(dx*dx + dy*dy)
			spatial[(dy+radius)*(2*radius+1)+(dx+radius)] = math.Exp(-dist2 / (2.0 * sigmaSpace * sigmaSpace))
		}
	}
	var colorLUT [766]float64 // max squared-distance domain is 3*255^2, indexed by |dr|+|dg|+|db|
	for i := range colorLUT {
		colorLUT[i] = math.Exp(-float64(i*i) / (2.0 * sigmaColor * sigmaColor))
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ci := y*img.Stride + x*4
			cr := float64(img.Pix[ci])
			cg := float64(img.Pix[ci+1])
			cb := float64(img.Pix[ci+2])

			var accR, accG, accB, accW float64
			for dy := -radius; dy <= radius; dy++ {
				yy := y + dy
				if yy < 0 {
					yy = 0
				} else if yy > h-1 {
					yy = h - 1
				}
				for dx := -radius; dx <= radius; dx++ {
					xx := x + dx
					if xx < 0 {
						xx = 0
					} else if xx > w-1 {
						xx = w - 1
					}
					ni := yy*img.Stride + xx*4
					nr := float64(img.Pix[ni])
					ng := float64(img.Pix[ni+1])
					nb := float64(img.Pix[ni+2])

					cd := int(math.Abs(nr-cr) + math.Abs(ng-cg) + math.Abs(nb-cb))
					wgt := spatial[(dy+radius)*(2*radius+1)+(dx+radius)] * colorLUT[cd]
					accR += wgt * nr
					accG += wgt * ng
					accB += wgt * nb
					accW += wgt
				}
			}

			oi := y*out.Stride + x*4
			out.Pix[oi] = clampByte(accR / accW)
			out.Pix[oi+1] = clampByte(accG / accW)
			out.Pix[oi+2] = clampByte(accB / accW)
			out.Pix[oi+3] = img.Pix[ci+3]
		}
	}
	return out
}

// denoise reduces noise with a fixed-aperture bilateral pass whose
// color tolerance scales with the requested magnitude. Used by the
// restoration and product pipelines, which map strength linearly onto
// the magnitude.
func denoise(img *image.NRGBA, magnitude float64) *image.NRGBA {
	if magnitude <= 0 {
		return img
	}
	return bilateralFilter(img, 7, magnitude*4.0, magnitude)
}
