package billiard

import (
	"math"

	"github.com/ebeyhan/tubesim/internal/geom"
)

// solveCollision resolves a wall contact for a particle at st whose
// straight-line step over dt was detected to cross the wall. It locates
// the contact time as the root of
//
//	f(t) = Radius(θ(p + v·t)) − |p + v·t|
//
// near t = 0, reflects the velocity about the local wall tangent and
// advances the reflected state through the leftover dt − t. The leftover
// flight is not re-checked against the wall; the caller's next iteration
// detects a re-crossing and the solver then finds the root just behind
// its guess.
func (s *Simulator) solveCollision(st State, dt float64) (post State, hit geom.Point, tcol float64, err error) {
	f := func(t float64) float64 {
		x := st.X + st.VX*t
		z := st.Z + st.VZ*t
		return s.wall.Radius(geom.PolarAngle(x, z)) - math.Hypot(x, z)
	}
	tcol, err = s.finder.Find(f, 0)
	if err != nil {
		return State{}, geom.Point{}, 0, err
	}

	hit = geom.Point{X: st.X + st.VX*tcol, Z: st.Z + st.VZ*tcol}
	theta := geom.PolarAngle(hit.X, hit.Z)
	nx, nz := s.wall.Normal(theta)
	vx, vz := geom.Reflect(st.VX, st.VZ, nx, nz)

	left := dt - tcol
	post = State{
		X:  hit.X + vx*left,
		Z:  hit.Z + vz*left,
		VX: vx,
		VZ: vz,
	}
	return post, hit, tcol, nil
}
