package viz

import (
	"math"

	"github.com/ebeyhan/tubesim/internal/billiard"
	"github.com/ebeyhan/tubesim/internal/wall"
)

// wallSteps picks the outline sampling density. Tight corrugations need
// more segments to avoid visible chords.
func wallSteps(w wall.Wall) int {
	n := 48 * w.Wavefronts
	if n < 256 {
		n = 256
	}
	return n
}

func drawWall(f *Frame, w wall.Wall) {
	steps := wallSteps(w)
	px := w.Radius(0)
	pz := 0.0
	for i := 1; i <= steps; i++ {
		th := 2 * math.Pi * float64(i) / float64(steps)
		r := w.Radius(th)
		x := r * math.Cos(th)
		z := r * math.Sin(th)
		f.Line(px, pz, x, z)
		px, pz = x, z
	}
}

// Trajectory renders the wall outline with the recorded path drawn
// through it. Contact points are marked.
func Trajectory(w wall.Wall, recs []billiard.Record, width, height int) string {
	c := NewCanvas(width, height)
	r := w.OuterRadius()
	f := NewFrame(c, -r, r, -r, r)

	drawWall(f, w)

	for i := 1; i < len(recs); i++ {
		f.Line(recs[i-1].X, recs[i-1].Z, recs[i].X, recs[i].Z)
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Collision != recs[i-1].Collision {
			f.Mark(recs[i].X, recs[i].Z)
		}
	}

	return c.String()
}

// HitMap unrolls the boundary: the wall profile r(θ) as a curve with
// every recorded contact scattered onto it. Clustering along θ exposes
// uneven wall coverage.
func HitMap(w wall.Wall, recs []billiard.Record, width, height int) string {
	c := NewCanvas(width, height)
	f := NewFrame(c, 0, 2*math.Pi, w.InnerRadius(), w.OuterRadius())

	steps := wallSteps(w)
	pth := 0.0
	pr := w.Radius(0)
	for i := 1; i <= steps; i++ {
		th := 2 * math.Pi * float64(i) / float64(steps)
		f.Line(pth, pr, th, w.Radius(th))
		pth, pr = th, w.Radius(th)
	}

	for i := 1; i < len(recs); i++ {
		if recs[i].Collision == recs[i-1].Collision {
			continue
		}
		th := math.Atan2(recs[i].Z, recs[i].X)
		if th < 0 {
			th += 2 * math.Pi
		}
		f.Mark(th, math.Hypot(recs[i].X, recs[i].Z))
	}

	return c.String()
}
