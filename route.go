package pixellift

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// Route runs img through the pipeline for modeName and returns the
// enhanced image plus a summary. This is the single entry point the
// transport layer calls. Mode matching is case-insensitive and
// unrecognized names default to photo; strength is clamped to [0,100].
// The input image is never mutated; the only error condition is a nil
// or zero-dimension image.
func (cfg *Config) Route(img image.Image, modeName string, strength int) (*Result, error) {
	if img == nil {
		return nil, ErrInvalidImage
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, ErrInvalidImage
	}

	mode := normalizeMode(modeName)
	strength = clampStrength(strength)
	if cfg.OnEnhance != nil {
		cfg.OnEnhance(mode, strength)
	}

	src := imaging.Clone(img)

	var out *image.NRGBA
	var info string
	switch mode {
	case ModeDocument:
		out, info = cfg.enhanceDocument(src, strength)
	case ModePrint:
		out, info = cfg.enhancePrint(src, strength)
	case ModeRestoration:
		out, info = cfg.enhanceOld(src, strength)
	case ModeProduct:
		out, info = cfg.enhanceProduct(src, strength)
	default:
		out, info = cfg.enhancePhoto(src, strength)
	}

	return &Result{
		Image:   out,
		Summary: fmt.Sprintf("%s Strength %d/100.", info, strength),
	}, nil
}

// normalizeMode maps a requested mode name onto a canonical mode
// constant. Both short and long spellings are accepted.
func normalizeMode(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ModeDocument, "document":
		return ModeDocument
	case ModePrint:
		return ModePrint
	case ModeRestoration, "restoration":
		return ModeRestoration
	case ModeProduct:
		return ModeProduct
	default:
		return ModePhoto
	}
}
