package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoIntersection indicates a line that misses the circle entirely.
// Callers arrange the geometry so that an intersection is guaranteed;
// seeing this error means a precondition was violated upstream.
var ErrNoIntersection = errors.New("geom: line does not intersect circle")

// CircleLineIntersection intersects the infinite line through p1 and p2
// with the circle of radius r centered at the origin and returns one of
// the two intersection points: the one farther from p1 when furthest is
// set, otherwise the nearer one. When both candidates are equidistant
// from p1 the choice falls to the second candidate.
//
// The candidates come from the determinant form: with d = p2-p1 and
// D = x1·z2 - x2·z1, the discriminant is r²·|d|² - D². p1 and p2 must be
// distinct.
func CircleLineIntersection(p1, p2 Point, r float64, furthest bool) (Point, error) {
	dx := p2.X - p1.X
	dz := p2.Z - p1.Z
	dr2 := dx*dx + dz*dz
	det := p1.X*p2.Z - p2.X*p1.Z

	disc := r*r*dr2 - det*det
	if disc < 0 {
		return Point{}, fmt.Errorf("%w: discriminant %g", ErrNoIntersection, disc)
	}

	// The ± candidates need the sign of dz with sgn(0) = +1.
	sgnDz := 1.0
	if dz < 0 {
		sgnDz = -1.0
	}
	root := math.Sqrt(disc)

	a := Point{
		X: (det*dz + sgnDz*dx*root) / dr2,
		Z: (-det*dx + math.Abs(dz)*root) / dr2,
	}
	b := Point{
		X: (det*dz - sgnDz*dx*root) / dr2,
		Z: (-det*dx - math.Abs(dz)*root) / dr2,
	}

	var far, near Point
	if p1.Dist(a) > p1.Dist(b) {
		far, near = a, b
	} else {
		far, near = b, a
	}
	if furthest {
		return far, nil
	}
	return near, nil
}
