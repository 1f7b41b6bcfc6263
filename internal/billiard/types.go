package billiard

import (
	"math"
	"time"
)

// State is one particle's instantaneous position and velocity in the
// tube cross-section plane.
type State struct {
	X, Z   float64
	VX, VZ float64
}

// Speed returns |v|.
func (s State) Speed() float64 {
	return math.Hypot(s.VX, s.VZ)
}

// IsValid reports whether every component is a finite number.
func (s State) IsValid() bool {
	for _, v := range [4]float64{s.X, s.Z, s.VX, s.VZ} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Record is one entry of a run's collision log. Collision starts at 0
// with the synthetic initial-state record and increases by one per wall
// contact; the endpoint record written when a run finishes reuses the
// index of the last contact. Stamp carries the wall-clock emission time
// for audit and plays no role in the dynamics.
type Record struct {
	Collision int
	Time      float64
	X, Z      float64
	VX, VZ    float64
	Stamp     time.Time
}

// Sink receives the records of one run in order. A sink shared across
// concurrent runs must serialize Append itself; the simulator calls it
// from a single goroutine per run.
type Sink interface {
	Append(rec Record)
}

// Buffer is an in-memory Sink. Ensemble workers collect each run into a
// Buffer and hand the finished sequence to storage in one call.
type Buffer struct {
	Records []Record
}

func (b *Buffer) Append(rec Record) {
	b.Records = append(b.Records, rec)
}

// Result summarizes one finished run.
type Result struct {
	Collisions int
	Steps      int
	Final      State
	Elapsed    float64
}

// PositionAt interpolates the particle position at time t from a run's
// records. Motion between consecutive records is a straight flight, so
// linear interpolation along the stored velocity is exact. Times outside
// the recorded range clamp to the nearest record.
func PositionAt(recs []Record, t float64) (x, z float64) {
	if len(recs) == 0 {
		return 0, 0
	}
	if t <= recs[0].Time {
		return recs[0].X, recs[0].Z
	}
	last := recs[len(recs)-1]
	if t >= last.Time {
		return last.X, last.Z
	}
	lo, hi := 0, len(recs)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if recs[mid].Time <= t {
			lo = mid
		} else {
			hi = mid
		}
	}
	r := recs[lo]
	dt := t - r.Time
	return r.X + r.VX*dt, r.Z + r.VZ*dt
}

// clock tracks simulated time within a run.
// Invariant: elapsed + remaining == total at every step boundary, and
// remaining reaches exactly 0 through the step clipping, never through a
// tolerance test.
type clock struct {
	total     float64
	elapsed   float64
	remaining float64
}

func newClock(total float64) *clock {
	return &clock{total: total, remaining: total}
}

func (c *clock) advance(dt float64) {
	c.elapsed += dt
	c.remaining -= dt
}

func (c *clock) running() bool {
	return c.remaining > 0
}
