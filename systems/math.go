package systems

import "math"

// clampFloat clamps a value between min and max.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	return clampFloat(v, 0, 1)
}

// falloffCurve returns (1 - d/radius)^exp for d inside radius, else 0.
func falloffCurve(d, radius, exp float64) float64 {
	if d >= radius {
		return 0
	}
	return math.Pow(1-d/radius, exp)
}
