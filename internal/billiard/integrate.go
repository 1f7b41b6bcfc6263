package billiard

import (
	"context"
	"math"
	"time"

	"github.com/ebeyhan/tubesim/internal/geom"
	"github.com/ebeyhan/tubesim/internal/roots"
	"github.com/ebeyhan/tubesim/internal/wall"
)

// Step-size bounds. A step never exceeds one fifth of a corrugation
// period, and at speed v it shrinks to λ/(10·v) so a single step cannot
// jump across a full corrugation. speedFloor keeps the speed-based bound
// finite for a particle at rest.
const (
	stepPeriodDiv = 5.0
	stepSpeedDiv  = 10.0
	speedFloor    = 1e-4
)

// Simulator advances single particles through the corrugated cross
// section. Instances are cheap and not safe for concurrent use; ensemble
// workers construct one per run.
type Simulator struct {
	wall   wall.Wall
	finder roots.Finder
}

// New builds a simulator for the given wall. The wall is validated here
// once: the inner-disc shortcut in Run is sound only while the wall's
// inner radius stays positive. A nil finder selects Newton with the
// default tolerance.
func New(w wall.Wall, finder roots.Finder) (*Simulator, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if finder == nil {
		finder = roots.NewNewton()
	}
	return &Simulator{wall: w, finder: finder}, nil
}

// Wall returns the boundary the simulator runs against.
func (s *Simulator) Wall() wall.Wall {
	return s.wall
}

// Run advances one particle from init until the simulated clock reaches
// exactly duration. Records are appended to sink in order, starting with
// the synthetic index-0 record of the initial state; a nil sink drops
// them, which bench callers use. The returned Result summarizes the run
// even when it ends early with an error.
func (s *Simulator) Run(ctx context.Context, init State, duration float64, sink Sink) (*Result, error) {
	if duration <= 0 {
		return nil, ErrDuration
	}
	if !init.IsValid() {
		return nil, ErrInvalidState
	}

	st := init
	clk := newClock(duration)
	res := &Result{Final: st}
	emit(sink, 0, 0, st)

	for clk.running() {
		select {
		case <-ctx.Done():
			res.Elapsed = clk.elapsed
			return res, &RunError{Step: res.Steps, Time: clk.elapsed, State: st, Wrapped: ErrCanceled}
		default:
		}
		if err := s.step(&st, clk, sink, res); err != nil {
			res.Elapsed = clk.elapsed
			return res, &RunError{Step: res.Steps, Time: clk.elapsed, State: st, Wrapped: err}
		}
		res.Steps++
		res.Final = st
	}

	res.Elapsed = clk.elapsed
	return res, nil
}

// step performs one adaptive iteration: a tentative straight advance,
// then either collision resolution when the endpoint leaves the wall or
// the inner-disc shortcut when the segment dips into the region the wall
// cannot reach.
func (s *Simulator) step(st *State, clk *clock, sink Sink, res *Result) error {
	speed := st.Speed()
	lam := s.wall.Wavelength
	dt := math.Min(lam/stepPeriodDiv, lam/((speed+speedFloor)*stepSpeedDiv))
	if clk.remaining < dt {
		dt = clk.remaining
	}
	final := clk.remaining == dt

	fx := st.X + st.VX*dt
	fz := st.Z + st.VZ*dt

	if s.wall.Outside(fx, fz) {
		post, hit, tcol, err := s.solveCollision(*st, dt)
		if err != nil {
			return err
		}
		res.Collisions++
		emit(sink, res.Collisions, clk.elapsed+tcol, State{X: hit.X, Z: hit.Z, VX: post.VX, VZ: post.VZ})
		if final {
			emit(sink, res.Collisions, clk.total, post)
		}
		*st = post
		clk.advance(dt)
		return nil
	}

	if final {
		emit(sink, res.Collisions, clk.total, State{X: fx, Z: fz, VX: st.VX, VZ: st.VZ})
		st.X, st.Z = fx, fz
		clk.advance(dt)
		return nil
	}

	// Inner-disc shortcut: a segment entering the circle of radius
	// InnerRadius cannot touch the wall before leaving it again, so jump
	// straight to the exit point and charge the flight time for it.
	inner := s.wall.InnerRadius()
	if math.Hypot(st.X, st.Z) >= inner && math.Hypot(fx, fz) < inner {
		exit, err := geom.CircleLineIntersection(
			geom.Point{X: st.X, Z: st.Z},
			geom.Point{X: fx, Z: fz},
			inner, true)
		if err != nil {
			return err
		}
		dt = math.Hypot(exit.X-st.X, exit.Z-st.Z) / speed
		fx, fz = exit.X, exit.Z
		if dt > clk.remaining {
			fx = st.X + st.VX*clk.remaining
			fz = st.Z + st.VZ*clk.remaining
			emit(sink, res.Collisions, clk.total, State{X: fx, Z: fz, VX: st.VX, VZ: st.VZ})
			dt = clk.remaining
		}
	}

	st.X, st.Z = fx, fz
	clk.advance(dt)
	return nil
}

func emit(sink Sink, collision int, t float64, st State) {
	if sink == nil {
		return
	}
	sink.Append(Record{
		Collision: collision,
		Time:      t,
		X:         st.X,
		Z:         st.Z,
		VX:        st.VX,
		VZ:        st.VZ,
		Stamp:     time.Now(),
	})
}
