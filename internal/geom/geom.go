// Package geom provides the plane geometry used by the tube billiard:
// quadrant-correct polar angles, line/circle intersections and specular
// reflection. The simulation plane uses (x, z) coordinates.
package geom

import "math"

// Point is a position in the simulation plane.
type Point struct {
	X, Z float64
}

// Norm returns the distance of p from the origin.
func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Z)
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Z-q.Z)
}

// Reflect mirrors the velocity (vx, vz) about the surface with unit
// normal (nx, nz): v' = v - 2(v·n)n. The speed is preserved.
func Reflect(vx, vz, nx, nz float64) (float64, float64) {
	d := 2 * (vx*nx + vz*nz)
	return vx - d*nx, vz - d*nz
}
