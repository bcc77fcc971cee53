package pixellift

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
)

// registry tracks the two optional AI capabilities. Initialization is
// attempted at most once per Config lifetime; after that the handles
// are read-only and shared by all concurrent requests. Each capability
// carries a mutex gate because the underlying inference routines hold
// mutable scratch state: at most one in-flight call per capability.
type registry struct {
	cfg  *Config
	once sync.Once

	upscaler Upscaler
	restorer FaceRestorer

	upMu   sync.Mutex
	faceMu sync.Mutex
}

// ensureInit attempts capability initialization exactly once. Failures
// are logged and leave the handle absent; they never abort the process,
// because the system must stay usable in degraded mode.
func (r *registry) ensureInit() {
	r.once.Do(func() {
		if r.cfg.UpscalerInit == nil {
			slog.Debug("pixellift: no upscaler configured, classical pipelines only")
			return
		}
		up, err := r.cfg.UpscalerInit()
		if err != nil || up == nil {
			slog.Warn("pixellift: upscaler unavailable", "err", err)
			return
		}
		r.upscaler = up

		// The face restorer needs the upscaler as a background
		// enhancer, so it is only attempted once the upscaler exists.
		if r.cfg.FaceRestorerInit == nil {
			return
		}
		fr, err := r.cfg.FaceRestorerInit(up)
		if err != nil || fr == nil {
			slog.Warn("pixellift: face restorer unavailable", "err", err)
			return
		}
		r.restorer = fr
	})
}

// tryAcquireUpscaler returns the upscaling capability, or nil when it
// is absent. Absence is a normal outcome, not an error.
func (r *registry) tryAcquireUpscaler() Upscaler {
	r.ensureInit()
	return r.upscaler
}

// tryAcquireFaceRestorer returns the face-restoration capability, or
// nil when it is absent.
func (r *registry) tryAcquireFaceRestorer() FaceRestorer {
	r.ensureInit()
	return r.restorer
}

// pathVariant is the per-invocation resolution of "AI or classical".
// Each pipeline resolves it once from the registry's current state and
// then behaves as a pure function of (image, strength, variant).
type pathVariant int

const (
	pathClassical pathVariant = iota
	pathAI
)

// resolvePath picks the AI path when the capabilities the pipeline can
// use are present. withFace is true for the pipelines that also run
// face restoration (photo, restoration).
func (r *registry) resolvePath(withFace bool) pathVariant {
	if r.tryAcquireUpscaler() != nil {
		return pathAI
	}
	if withFace && r.tryAcquireFaceRestorer() != nil {
		return pathAI
	}
	return pathClassical
}

// upscale runs one serialized upscaler inference. On absence or any
// call-time failure (error or panic) the input is returned untouched
// and the pipeline continues.
func (r *registry) upscale(img *image.NRGBA, outscale float64) *image.NRGBA {
	if r.tryAcquireUpscaler() == nil {
		return img
	}
	out, err := r.callUpscaler(img, outscale)
	if err != nil || out == nil {
		slog.Warn("pixellift: upscale failed, continuing with input", "err", err)
		return img
	}
	return out
}

func (r *registry) callUpscaler(img *image.NRGBA, outscale float64) (out *image.NRGBA, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if r.cfg.OnPanic != nil {
				r.cfg.OnPanic("upscale", rec)
			}
			out, err = nil, fmt.Errorf("upscaler panic: %v", rec)
		}
	}()
	r.upMu.Lock()
	defer r.upMu.Unlock()
	return r.upscaler.Upscale(img, outscale)
}

// restoreFaces runs one serialized face-restoration inference and
// blends the restored layer against the input with the strength-driven
// alpha policy, so AI output is never returned raw. On absence or
// failure the input is returned untouched.
func (r *registry) restoreFaces(img *image.NRGBA, strength int) *image.NRGBA {
	if r.tryAcquireFaceRestorer() == nil {
		return img
	}
	restored, err := r.callRestorer(img)
	if err != nil || restored == nil {
		slog.Warn("pixellift: face restoration failed, continuing with input", "err", err)
		return img
	}
	if restored.Rect.Dx() != img.Rect.Dx() || restored.Rect.Dy() != img.Rect.Dy() {
		slog.Warn("pixellift: face restorer changed dimensions, discarding result",
			"got_w", restored.Rect.Dx(), "got_h", restored.Rect.Dy(),
			"want_w", img.Rect.Dx(), "want_h", img.Rect.Dy())
		return img
	}
	return blend(restored, img, faceBlendAlpha(strength))
}

func (r *registry) callRestorer(img *image.NRGBA) (out *image.NRGBA, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if r.cfg.OnPanic != nil {
				r.cfg.OnPanic("face_restore", rec)
			}
			out, err = nil, fmt.Errorf("face restorer panic: %v", rec)
		}
	}()
	r.faceMu.Lock()
	defer r.faceMu.Unlock()
	return r.restorer.Restore(img)
}
