package pixellift

import "image"

// addWeighted computes wa*a + wb*b per channel, clamped to [0,255].
// Both images must have identical dimensions; the smaller common area is
// used if they differ, so a stray off-by-one from resampling cannot
// panic the pipeline.
func addWeighted(a *image.NRGBA, wa float64, b *image.NRGBA, wb float64) *image.NRGBA {
	w := a.Rect.Dx()
	h := a.Rect.Dy()
	if bw := b.Rect.Dx(); bw < w {
		w = bw
	}
	if bh := b.Rect.Dy(); bh < h {
		h = bh
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		aRow := a.Pix[y*a.Stride:]
		bRow := b.Pix[y*b.Stride:]
		outRow := out.Pix[y*out.Stride:]
		for i := 0; i < w*4; i++ {
			outRow[i] = clampByte(wa*float64(aRow[i]) + wb*float64(bRow[i]))
		}
	}
	return out
}

// blend returns alpha*a + (1-alpha)*b, the composite used to mix an
// enhanced result back against its reference image.
func blend(a, b *image.NRGBA, alpha float64) *image.NRGBA {
	return addWeighted(a, alpha, b, 1.0-alpha)
}

// faceBlendAlpha converts a 0-100 restoration strength into the blend
// weight for a restored face layer. The floor of 0.3 means restored
// output is never fully discarded, and the ceiling of 1.0 means full
// trust only at maximum strength.
func faceBlendAlpha(strength int) float64 {
	alpha := float64(clampStrength(strength)) / 100.0
	if alpha < 0.3 {
		return 0.3
	}
	return alpha
}
