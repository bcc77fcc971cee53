package pixellift

import (
	"image"

	"github.com/disintegration/imaging"
)

// Per-mode summary strings. Advisory metadata only; the classical print
// summary deliberately names the fallback so callers can surface it.
const (
	summaryDocument       = "Document / OCR - maximized text clarity and contrast."
	summaryPhotoClassical = "Photo mode - classical detail recovery with soft contrast, denoising and blending."
	summaryPhotoAI        = "Photo mode - AI upscaled with face restoration where available."
	summaryPrintClassical = "Print mode - classical upscale and sharpen (AI models not available)."
	summaryPrintAI        = "Print mode - AI upscaled for crisp, print-ready output."
	summaryOldClassical   = "Restoration - noise reduced and tones revived, with highlights protected."
	summaryOldAI          = "Restoration mode - AI face repair and detail recovery."
	summaryProduct        = "Product mode - neutral white balance and crisp catalog clarity."
)

// enhanceDocument is the document/OCR pipeline: grayscale, cubic
// upscale, localized contrast, sharpen, adaptive binarize, expand back
// to three channels. Classical only, fixed sequence, no size governor.
func (cfg *Config) enhanceDocument(img *image.NRGBA, strength int) (*image.NRGBA, string) {
	s := clampStrength(strength)

	gray := imaging.Grayscale(img)
	gray = scaleImage(gray, lerp(s, 1.0, 2.5))

	plane, w, h := grayPlane(gray)
	plane = clahe(plane, w, h, 2.0)
	plane = sharpenPlane(plane, w, h, lerp(s, 0.5, 1.5))
	bw := adaptiveBinarize(plane, w, h)

	return planeToNRGBA(bw, w, h), summaryDocument
}

// photoClassical is the non-AI photo path: cubic resize, Lab contrast
// equalization, bilateral smoothing, unsharp, then a strength-driven
// blend against the resized original so the effect stays natural.
// Also reused by print mode when the upscaler is absent.
func (cfg *Config) photoClassical(img *image.NRGBA, strength int) *image.NRGBA {
	s := clampStrength(strength)

	base := scaleImage(img, lerp(s, 1.0, 1.8))
	contrast := equalizeContrast(base, lerp(s, 1.0, 2.5))

	d := 5 + int(3.0*float64(s)/100.0)
	smoothed := bilateralFilter(contrast, d, lerp(s, 30, 70), lerp(s, 15, 40))
	sharp := sharpen(smoothed, lerp(s, 0.15, 0.5))

	return blend(sharp, base, lerp(s, 0.4, 0.8))
}

// enhancePhoto prefers the AI path (face restore, then upscale) and
// falls back to photoClassical when both capabilities are absent.
func (cfg *Config) enhancePhoto(img *image.NRGBA, strength int) (*image.NRGBA, string) {
	reg := cfg.reg()
	if reg.resolvePath(true) == pathClassical {
		return cfg.photoClassical(img, strength), summaryPhotoClassical
	}

	s := clampStrength(strength)
	work := resizeForCapability(img, maxSidePhoto)
	work = reg.restoreFaces(work, s)
	return reg.upscale(work, lerp(s, 1.5, 3.0)), summaryPhotoAI
}

// enhanceOld is the restoration pipeline for aged photos.
func (cfg *Config) enhanceOld(img *image.NRGBA, strength int) (*image.NRGBA, string) {
	s := clampStrength(strength)
	reg := cfg.reg()

	if reg.resolvePath(true) == pathClassical {
		resized := scaleImage(img, lerp(s, 1.0, 1.6))
		contrast := equalizeContrast(resized, lerp(s, 1.2, 2.5))
		cleaned := denoise(contrast, lerp(s, 5, 15))
		sharp := sharpen(cleaned, lerp(s, 0.15, 0.5))
		tone := adjustGamma(sharp, lerp(s, 1.0, 1.05))
		return blend(tone, resized, lerp(s, 0.5, 0.8)), summaryOldClassical
	}

	work := resizeForCapability(img, maxSideRestoration)
	work = reg.restoreFaces(work, s)
	upscaled := reg.upscale(work, lerp(s, 1.8, 2.5))

	// Soft Lab contrast pass for a revived tone.
	return equalizeContrast(upscaled, lerp(s, 1.1, 2.1)), summaryOldAI
}

// enhancePrint pushes the upscaler hard for high-DPI output and never
// runs face restoration. Without the upscaler it delegates to the
// classical photo path under its own summary.
func (cfg *Config) enhancePrint(img *image.NRGBA, strength int) (*image.NRGBA, string) {
	reg := cfg.reg()
	if reg.resolvePath(false) == pathClassical {
		return cfg.photoClassical(img, strength), summaryPrintClassical
	}

	s := clampStrength(strength)
	work := resizeForCapability(img, maxSidePrint)
	return reg.upscale(work, lerp(s, 2.5, 4.0)), summaryPrintAI
}

// enhanceProduct neutralizes color casts and cleans surfaces for
// catalog images. The classical steps run unconditionally; only the
// size cap and upscale are gated on the AI path.
func (cfg *Config) enhanceProduct(img *image.NRGBA, strength int) (*image.NRGBA, string) {
	s := clampStrength(strength)
	reg := cfg.reg()

	balanced := grayWorldWhiteBalance(img)
	work := denoise(balanced, lerp(s, 3, 10))

	if reg.resolvePath(false) == pathAI {
		work = resizeForCapability(work, maxSideProduct)
		work = reg.upscale(work, lerp(s, 1.8, 2.8))
	}

	return sharpen(work, lerp(s, 0.3, 0.8)), summaryProduct
}
