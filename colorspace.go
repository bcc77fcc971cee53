package pixellift

import (
	"image"
	"math"
)

// CIE Lab conversion constants, D65 reference white.
const (
	labXn = 0.950456
	labYn = 1.0
	labZn = 1.088754
)

func labF(t float64) float64 {
	if t > 0.008856 {
		return math.Cbrt(t)
	}
	return 7.787*t + 16.0/116.0
}

func labFInv(t float64) float64 {
	if t3 := t * t * t; t3 > 0.008856 {
		return t3
	}
	return (t - 16.0/116.0) / 7.787
}

// labPlanes holds a Lab decomposition of an image with 8-bit planes:
// L is scaled from [0,100] to [0,255], a and b are offset by +128.
type labPlanes struct {
	l, a, b []uint8
	w, h    int
}

// splitLab converts an NRGBA image to Lab and returns the three planes.
// The alpha channel is not represented; mergeLab restores it from a
// reference image.
func splitLab(img *image.NRGBA) *labPlanes {
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	p := &labPlanes{
		l: make([]uint8, w*h),
		a: make([]uint8, w*h),
		b: make([]uint8, w*h),
		w: w,
		h: h,
	}
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			r := float64(row[x*4]) / 255.0
			g := float64(row[x*4+1]) / 255.0
			bb := float64(row[x*4+2]) / 255.0

			xx := 0.412453*r + 0.357580*g + 0.180423*bb
			yy := 0.212671*r + 0.715160*g + 0.072169*bb
			zz := 0.019334*r + 0.119193*g + 0.950227*bb

			fx := labF(xx / labXn)
			fy := labF(yy / labYn)
			fz := labF(zz / labZn)

			lv := 116.0*fy - 16.0
			av := 500.0 * (fx - fy)
			bv := 200.0 * (fy - fz)

			i := y*w + x
			p.l[i] = clampByte(lv * 255.0 / 100.0)
			p.a[i] = clampByte(av + 128.0)
			p.b[i] = clampByte(bv + 128.0)
		}
	}
	return p
}

// mergeLab converts Lab planes back to NRGBA, taking alpha from ref.
// ref must have the same dimensions as the planes.
func mergeLab(p *labPlanes, ref *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, p.w, p.h))
	for y := 0; y < p.h; y++ {
		refRow := ref.Pix[y*ref.Stride : y*ref.Stride+p.w*4]
		outRow := out.Pix[y*out.Stride : y*out.Stride+p.w*4]
		for x := 0; x < p.w; x++ {
			i := y*p.w + x
			lv := float64(p.l[i]) * 100.0 / 255.0
			av := float64(p.a[i]) - 128.0
			bv := float64(p.b[i]) - 128.0

			fy := (lv + 16.0) / 116.0
			fx := fy + av/500.0
			fz := fy - bv/200.0

			xx := labFInv(fx) * labXn
			yy := labFInv(fy) * labYn
			zz := labFInv(fz) * labZn

			r := 3.240479*xx - 1.537150*yy - 0.498535*zz
			g := -0.969256*xx + 1.875992*yy + 0.041556*zz
			bb := 0.055648*xx - 0.204043*yy + 1.057311*zz

			outRow[x*4] = clampByte(r * 255.0)
			outRow[x*4+1] = clampByte(g * 255.0)
			outRow[x*4+2] = clampByte(bb * 255.0)
			outRow[x*4+3] = refRow[x*4+3]
		}
	}
	return out
}

// clampByte rounds v to the nearest integer and clamps it to [0,255].
func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
