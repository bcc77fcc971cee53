// Package pixellift enhances a single image according to a selected
// mode (document, photo, print, restoration, product) and a 0-100
// strength, producing an improved image plus a short summary of what
// was done. Heavy AI capabilities (upscaling, face restoration) are
// optional: when they are unavailable every mode degrades to a
// deterministic classical pipeline instead of failing.
package pixellift

import (
	"image"
	"sync"
)

// Mode names understood by Route. Matching is case-insensitive and
// unrecognized names fall back to ModePhoto.
const (
	ModePhoto       = "photo"
	ModeDocument    = "doc"
	ModePrint       = "print"
	ModeRestoration = "old"
	ModeProduct     = "product"
)

// Result is the outcome of one enhancement: the new image and an
// advisory human-readable summary. The summary is metadata only, never
// used for control flow.
type Result struct {
	Image   *image.NRGBA
	Summary string
}

// Upscaler is an opaque AI super-resolution capability. Implementations
// may hold mutable scratch state; callers must not invoke Upscale
// concurrently on one instance (the registry serializes calls).
type Upscaler interface {
	// Upscale returns img scaled by outscale (> 1.0).
	Upscale(img *image.NRGBA, outscale float64) (*image.NRGBA, error)
}

// FaceRestorer is an opaque AI face-restoration capability. Restore
// must return an image with the same dimensions as its input.
type FaceRestorer interface {
	Restore(img *image.NRGBA) (*image.NRGBA, error)
}

// Config holds all dependencies injected by the consumer. The zero
// value is usable: with no capability initializers every mode runs its
// classical pipeline.
type Config struct {
	// UpscalerInit creates the upscaling capability. Attempted at most
	// once per Config lifetime, on first need; an error leaves the
	// capability permanently absent (no retry).
	UpscalerInit func() (Upscaler, error)

	// FaceRestorerInit creates the face-restoration capability. Only
	// attempted after a successful UpscalerInit, because the restorer
	// uses the upscaler as its background enhancer.
	FaceRestorerInit func(bg Upscaler) (FaceRestorer, error)

	// Optional callbacks for metrics/logging.
	OnEnhance func(mode string, strength int)
	OnPanic   func(tag string, r any)

	regOnce  sync.Once
	registry *registry
}

// reg returns the capability registry, creating it on first use. The
// registry is shared by every request routed through this Config.
func (cfg *Config) reg() *registry {
	cfg.regOnce.Do(func() {
		cfg.registry = &registry{cfg: cfg}
	})
	return cfg.registry
}
