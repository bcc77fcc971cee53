package pixellift

import (
	"image"
	"math"
)

// claheTileGrid is the tile grid dimension for localized histogram
// equalization. 8x8 matches the tile size used throughout the mode
// pipelines.
const claheTileGrid = 8

// clahe applies contrast-limited adaptive histogram equalization to a
// single 8-bit plane. clipLimit bounds the per-bin histogram height as a
// multiple of the uniform bin height; excess counts are redistributed
// evenly. Tile mappings are blended with bilinear interpolation, which
// avoids visible tile seams.
func clahe(src []uint8, w, h int, clipLimit float64) []uint8 {
	if w <= 0 || h <= 0 {
		return nil
	}
	tilesX := claheTileGrid
	tilesY := claheTileGrid
	if tilesX > w {
		tilesX = w
	}
	if tilesY > h {
		tilesY = h
	}
	// Tiles are evenly divided (widths differ by at most one pixel),
	// so every tile is non-empty and owns a valid mapping.
	luts := make([][256]uint8, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0, x1 := tx*w/tilesX, (tx+1)*w/tilesX
			y0, y1 := ty*h/tilesY, (ty+1)*h/tilesY

			var hist [256]int
			for y := y0; y < y1; y++ {
				row := src[y*w : y*w+w]
				for x := x0; x < x1; x++ {
					hist[row[x]]++
				}
			}
			area := (x1 - x0) * (y1 - y0)

			limit := int(clipLimit * float64(area) / 256.0)
			if limit < 1 {
				limit = 1
			}
			excess := 0
			for i := range hist {
				if hist[i] > limit {
					excess += hist[i] - limit
					hist[i] = limit
				}
			}
			// Redistribute clipped counts across all bins, spreading
			// the integer remainder so the histogram total (and with
			// it the LUT range) is preserved.
			share := excess / 256
			for i := range hist {
				hist[i] += share
			}
			if rem := excess % 256; rem > 0 {
				step := 256 / rem
				if step < 1 {
					step = 1
				}
				for i := 0; i < 256 && rem > 0; i += step {
					hist[i]++
					rem--
				}
			}

			scale := 255.0 / float64(area)
			cdf := 0
			lut := &luts[ty*tilesX+tx]
			for i := 0; i < 256; i++ {
				cdf += hist[i]
				lut[i] = clampByte(float64(cdf) * scale)
			}
		}
	}

	dst := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		fy := (float64(y)+0.5)*float64(tilesY)/float64(h) - 0.5
		ty0 := int(math.Floor(fy))
		wy := fy - float64(ty0)
		ty1 := ty0 + 1
		if ty0 < 0 {
			ty0 = 0
		}
		if ty1 > tilesY-1 {
			ty1 = tilesY - 1
		}
		for x := 0; x < w; x++ {
			fx := (float64(x)+0.5)*float64(tilesX)/float64(w) - 0.5
			tx0 := int(math.Floor(fx))
			wx := fx - float64(tx0)
			tx1 := tx0 + 1
			if tx0 < 0 {
				tx0 = 0
			}
			if tx1 > tilesX-1 {
				tx1 = tilesX - 1
			}

			v := src[y*w+x]
			top := (1.0-wx)*float64(luts[ty0*tilesX+tx0][v]) + wx*float64(luts[ty0*tilesX+tx1][v])
			bot := (1.0-wx)*float64(luts[ty1*tilesX+tx0][v]) + wx*float64(luts[ty1*tilesX+tx1][v])
			dst[y*w+x] = clampByte((1.0-wy)*top + wy*bot)
		}
	}
	return dst
}

// equalizeContrast runs CLAHE on the lightness channel of img in Lab
// space and converts back, leaving color (a/b) untouched. This is the
// "LAB contrast equalize" step shared by the photo, restoration, and
// product-adjacent pipelines.
func equalizeContrast(img *image.NRGBA, clipLimit float64) *image.NRGBA {
	p := splitLab(img)
	p.l = clahe(p.l, p.w, p.h, clipLimit)
	return mergeLab(p, img)
}
