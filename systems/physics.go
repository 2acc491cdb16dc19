package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Integrate advances one frame of motion: velocity += acceleration, then drag,
// then the speed limit, then position += velocity.
func Integrate(pos, vel *r2.Vec, acc r2.Vec, drag, maxSpeed float64) {
	v := r2.Add(*vel, finite(acc))
	v = r2.Scale(clamp01(drag), v)
	v = Limit(finite(v), maxSpeed)
	*vel = v
	*pos = finite(r2.Add(*pos, v))
}

// Heading returns the direction of v in radians, or 0 for the zero vector.
func Heading(v r2.Vec) float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return math.Atan2(v.Y, v.X)
}
