package pixellift

import "testing"

func TestResizeForCapability(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		w, h         int
		maxSide      int
		wantW, wantH int
		wantIdentity bool
	}{
		{name: "under cap is identity", w: 800, h: 600, maxSide: 1600, wantW: 800, wantH: 600, wantIdentity: true},
		{name: "exactly at cap is identity", w: 1600, h: 900, maxSide: 1600, wantW: 1600, wantH: 900, wantIdentity: true},
		{name: "landscape over cap", w: 3200, h: 1600, maxSide: 1600, wantW: 1600, wantH: 800},
		{name: "portrait over cap", w: 1100, h: 4400, maxSide: 2200, wantW: 550, wantH: 2200},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			img := solidNRGBA(tc.w, tc.h, 128, 128, 128)
			got := resizeForCapability(img, tc.maxSide)
			if got.Rect.Dx() != tc.wantW || got.Rect.Dy() != tc.wantH {
				t.Errorf("resizeForCapability(%dx%d, %d) = %dx%d, want %dx%d",
					tc.w, tc.h, tc.maxSide, got.Rect.Dx(), got.Rect.Dy(), tc.wantW, tc.wantH)
			}
			if tc.wantIdentity && got != img {
				t.Error("expected identity (no copy) for image already within cap")
			}
		})
	}
}

func TestResizeForCapabilityIdempotent(t *testing.T) {
	t.Parallel()

	img := solidNRGBA(4000, 3000, 77, 77, 77)
	once := resizeForCapability(img, 1600)
	twice := resizeForCapability(once, 1600)
	if twice != once {
		t.Error("second application with the same cap should be a no-op returning the same image")
	}
}

func TestScaleImage(t *testing.T) {
	t.Parallel()

	img := solidNRGBA(200, 100, 10, 20, 30)
	got := scaleImage(img, 1.5)
	if got.Rect.Dx() != 300 || got.Rect.Dy() != 150 {
		t.Errorf("scaleImage(200x100, 1.5) = %dx%d, want 300x150", got.Rect.Dx(), got.Rect.Dy())
	}

	tiny := scaleImage(solidNRGBA(2, 2, 0, 0, 0), 0.1)
	if tiny.Rect.Dx() < 1 || tiny.Rect.Dy() < 1 {
		t.Error("scaleImage must never collapse a dimension below one pixel")
	}
}
