package pixellift

import (
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeUpscaler records calls and can be told to fail or panic.
type fakeUpscaler struct {
	mu       sync.Mutex
	inFlight int32
	overlaps int32

	outscales []float64
	inputs    []image.Point
	err       error
	panicMsg  string
	delay     time.Duration
}

func (f *fakeUpscaler) Upscale(img *image.NRGBA, outscale float64) (*image.NRGBA, error) {
	if n := atomic.AddInt32(&f.inFlight, 1); n > 1 {
		atomic.AddInt32(&f.overlaps, 1)
	}
	defer atomic.AddInt32(&f.inFlight, -1)

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}

	f.mu.Lock()
	f.outscales = append(f.outscales, outscale)
	f.inputs = append(f.inputs, image.Pt(img.Rect.Dx(), img.Rect.Dy()))
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return scaleImage(img, outscale), nil
}

// fakeRestorer returns a solid white layer of the same size, which
// makes blend weights directly observable in output pixels.
type fakeRestorer struct {
	err      error
	badDims  bool
	restored int32
}

func (f *fakeRestorer) Restore(img *image.NRGBA) (*image.NRGBA, error) {
	if f.err != nil {
		return nil, f.err
	}
	atomic.AddInt32(&f.restored, 1)
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	if f.badDims {
		w++
	}
	return solidNRGBA(w, h, 255, 255, 255), nil
}

func aiConfig(up *fakeUpscaler, fr *fakeRestorer) *Config {
	cfg := &Config{}
	if up != nil {
		cfg.UpscalerInit = func() (Upscaler, error) { return up, nil }
	}
	if fr != nil {
		cfg.FaceRestorerInit = func(bg Upscaler) (FaceRestorer, error) { return fr, nil }
	}
	return cfg
}

func TestRegistryInitAttemptedOnce(t *testing.T) {
	t.Parallel()

	var attempts int32
	cfg := &Config{
		UpscalerInit: func() (Upscaler, error) {
			atomic.AddInt32(&attempts, 1)
			return nil, errors.New("weights missing")
		},
	}

	reg := cfg.reg()
	for i := 0; i < 5; i++ {
		if reg.tryAcquireUpscaler() != nil {
			t.Fatal("failed init must leave the capability absent")
		}
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("init attempts = %d, want exactly 1 (no retry after failure)", got)
	}
}

func TestRegistryFaceRestorerRequiresUpscaler(t *testing.T) {
	t.Parallel()

	var faceAttempts int32

	// Without an upscaler, the restorer must never be attempted.
	cfg := &Config{
		FaceRestorerInit: func(bg Upscaler) (FaceRestorer, error) {
			atomic.AddInt32(&faceAttempts, 1)
			return &fakeRestorer{}, nil
		},
	}
	if cfg.reg().tryAcquireFaceRestorer() != nil {
		t.Error("restorer must be absent when no upscaler exists")
	}
	if atomic.LoadInt32(&faceAttempts) != 0 {
		t.Error("restorer init must not run before a successful upscaler init")
	}

	// With an upscaler, it is attempted and receives it as background.
	up := &fakeUpscaler{}
	var gotBG Upscaler
	cfg2 := &Config{
		UpscalerInit: func() (Upscaler, error) { return up, nil },
		FaceRestorerInit: func(bg Upscaler) (FaceRestorer, error) {
			gotBG = bg
			return &fakeRestorer{}, nil
		},
	}
	if cfg2.reg().tryAcquireFaceRestorer() == nil {
		t.Fatal("restorer should be present")
	}
	if gotBG != Upscaler(up) {
		t.Error("restorer init must receive the upscaler as background enhancer")
	}
}

func TestUpscaleFailureReturnsInput(t *testing.T) {
	t.Parallel()

	img := gradientNRGBA(16, 16)

	errCfg := aiConfig(&fakeUpscaler{err: errors.New("numerical error")}, nil)
	if got := errCfg.reg().upscale(img, 2.0); got != img {
		t.Error("call-time error must yield the untouched input image")
	}

	var panicTag string
	panicCfg := aiConfig(&fakeUpscaler{panicMsg: "corrupt state"}, nil)
	panicCfg.OnPanic = func(tag string, r any) { panicTag = tag }
	if got := panicCfg.reg().upscale(img, 2.0); got != img {
		t.Error("a panicking capability must yield the untouched input image")
	}
	if panicTag != "upscale" {
		t.Errorf("OnPanic tag = %q, want %q", panicTag, "upscale")
	}

	// The gate must be released after a panic.
	if got := panicCfg.reg().upscale(img, 2.0); got != img {
		t.Error("gate must stay usable after a recovered panic")
	}
}

func TestRestoreFacesBlendPolicy(t *testing.T) {
	t.Parallel()

	img := solidNRGBA(16, 16, 100, 100, 100)

	cfg := aiConfig(&fakeUpscaler{}, &fakeRestorer{})
	full := cfg.reg().restoreFaces(img, 100)
	if full.Pix[0] != 255 {
		t.Errorf("strength 100 pixel = %d, want full trust in restored layer (255)", full.Pix[0])
	}

	low := cfg.reg().restoreFaces(img, 0)
	// Alpha floor 0.3: 0.3*255 + 0.7*100 = 146.5 -> 147.
	if low.Pix[0] < 145 || low.Pix[0] > 148 {
		t.Errorf("strength 0 pixel = %d, want ~147 (alpha floor 0.3)", low.Pix[0])
	}
}

func TestRestoreFacesRejectsDimensionChange(t *testing.T) {
	t.Parallel()

	img := solidNRGBA(16, 16, 100, 100, 100)
	cfg := aiConfig(&fakeUpscaler{}, &fakeRestorer{badDims: true})
	if got := cfg.reg().restoreFaces(img, 80); got != img {
		t.Error("dimension-changing restorer output must be discarded")
	}
}

func TestRestoreFacesFailureReturnsInput(t *testing.T) {
	t.Parallel()

	img := gradientNRGBA(16, 16)
	cfg := aiConfig(&fakeUpscaler{}, &fakeRestorer{err: errors.New("oom")})
	if got := cfg.reg().restoreFaces(img, 80); got != img {
		t.Error("restorer failure must yield the untouched input image")
	}
}

func TestUpscalerCallsAreSerialized(t *testing.T) {
	t.Parallel()

	up := &fakeUpscaler{delay: 2 * time.Millisecond}
	cfg := aiConfig(up, nil)
	reg := cfg.reg()
	img := solidNRGBA(8, 8, 50, 50, 50)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.upscale(img, 2.0)
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&up.overlaps); got != 0 {
		t.Errorf("observed %d overlapping inference calls, want 0 (one in-flight call per capability)", got)
	}
}
