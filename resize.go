package pixellift

import (
	"image"

	"github.com/disintegration/imaging"
)

// Per-mode caps on the longest edge before an image is handed to an AI
// capability. Inference cost grows at least linearly with pixel count,
// so capping keeps worst-case latency bounded regardless of source
// resolution. Print tolerates a higher cap for higher quality; the
// document pipeline is classical-only and never consults the governor.
const (
	maxSidePhoto       = 1600
	maxSideRestoration = 1600
	maxSideProduct     = 1600
	maxSidePrint       = 2200
)

// resizeForCapability bounds the longest edge of img to maxSide. Images
// already within the cap are returned unchanged, so applying the
// governor twice with the same cap is a no-op. Downscaling uses
// area-averaging (box) resampling.
func resizeForCapability(img *image.NRGBA, maxSide int) *image.NRGBA {
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxSide {
		return img
	}

	scale := float64(maxSide) / float64(longest)
	return imaging.Resize(img, scaleDim(w, scale), scaleDim(h, scale), imaging.Box)
}

// scaleImage resizes img by a uniform factor with cubic interpolation.
func scaleImage(img *image.NRGBA, factor float64) *image.NRGBA {
	return imaging.Resize(img, scaleDim(img.Rect.Dx(), factor), scaleDim(img.Rect.Dy(), factor), imaging.CatmullRom)
}

// scaleDim scales a dimension, rounding to nearest and never collapsing
// below one pixel. Rounding matters: truncation would turn an exact cap
// ratio like 2200/2600 into an off-by-one output edge.
func scaleDim(dim int, factor float64) int {
	scaled := int(float64(dim)*factor + 0.5)
	if scaled < 1 {
		return 1
	}
	return scaled
}
