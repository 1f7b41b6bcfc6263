package geom

import "math"

// PolarAngle returns the polar angle of (x, z) in (-pi, pi]. The quadrant
// is resolved from the signs of x and z, so points left of the vertical
// axis do not fold onto the principal arctangent branch. The origin maps
// to 0 by convention.
func PolarAngle(x, z float64) float64 {
	switch {
	case x > 0:
		return math.Atan(z / x)
	case x < 0 && z >= 0:
		return math.Atan(z/x) + math.Pi
	case x < 0:
		return math.Atan(z/x) - math.Pi
	case z > 0:
		return math.Pi / 2
	case z < 0:
		return -math.Pi / 2
	}
	return 0
}
