package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// clamp clamps v between minVal and maxVal.
func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// unitOrZero normalizes v, leaving the zero vector unchanged.
func unitOrZero(v r2.Vec) r2.Vec {
	n := r2.Norm(v)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return r2.Vec{}
	}
	return r2.Scale(1/n, v)
}

// Limit scales v down so its magnitude does not exceed max.
func Limit(v r2.Vec, max float64) r2.Vec {
	if max <= 0 {
		return r2.Vec{}
	}
	n2 := r2.Norm2(v)
	if n2 <= max*max {
		return v
	}
	return r2.Scale(max/math.Sqrt(n2), v)
}

// finite replaces NaN or infinite components with zero.
func finite(v r2.Vec) r2.Vec {
	if math.IsNaN(v.X) || math.IsInf(v.X, 0) {
		v.X = 0
	}
	if math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
		v.Y = 0
	}
	return v
}
