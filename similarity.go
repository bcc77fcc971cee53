package pixellift

import (
	"image"

	"github.com/corona10/goimagehash"
)

// HashDistance returns the Hamming distance between the difference
// hashes of two images. Small distances mean the images are
// perceptually close; gentle enhancements should stay within a few
// bits of the input. Dimensions may differ, since hashing normalizes
// size.
func HashDistance(a, b image.Image) (int, error) {
	ha, err := goimagehash.DifferenceHash(a)
	if err != nil {
		return 0, err
	}
	hb, err := goimagehash.DifferenceHash(b)
	if err != nil {
		return 0, err
	}
	return ha.Distance(hb)
}
