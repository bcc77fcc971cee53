package pixellift

// clampStrength normalizes a raw strength value into [0,100].
// Out-of-range input is clamped, never rejected, so -5 behaves like 0
// and 150 behaves like 100.
func clampStrength(strength int) int {
	if strength < 0 {
		return 0
	}
	if strength > 100 {
		return 100
	}
	return strength
}

// lerp maps a strength in [0,100] linearly onto [floor, ceiling].
// Every strength-to-parameter curve in the mode pipelines goes through
// this helper; the floor/ceiling pairs are pipeline configuration, not
// per-pipeline arithmetic.
func lerp(strength int, floor, ceiling float64) float64 {
	return floor + (ceiling-floor)*float64(clampStrength(strength))/100.0
}
