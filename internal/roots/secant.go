package roots

import (
	"fmt"
	"math"
)

// secantStep offsets the second starting point from the guess.
const secantStep = 1e-4

// Secant runs the secant iteration from the guess and a nearby second
// point. It needs no derivative evaluations at all, at the cost of a
// slightly slower convergence order than Newton.
type Secant struct {
	Tol     float64
	MaxIter int
}

func NewSecant() *Secant {
	return &Secant{Tol: DefaultTol, MaxIter: DefaultMaxIter}
}

func (s *Secant) Name() string { return "secant" }

func (s *Secant) Find(f Func, guess float64) (float64, error) {
	x0 := guess
	f0 := f(x0)
	if math.Abs(f0) <= s.Tol {
		return x0, nil
	}
	x1 := guess + secantStep*(1+math.Abs(guess))
	f1 := f(x1)
	for i := 0; i < s.MaxIter; i++ {
		if math.Abs(f1) <= s.Tol {
			return x1, nil
		}
		if f1 == f0 {
			return x1, fmt.Errorf("%w: secant flat between x=%g and x=%g (iteration %d)", ErrNoConvergence, x0, x1, i)
		}
		x2 := x1 - f1*(x1-x0)/(f1-f0)
		x0, f0 = x1, f1
		x1 = x2
		f1 = f(x1)
	}
	if math.Abs(f1) <= s.Tol {
		return x1, nil
	}
	return x1, fmt.Errorf("%w: secant residual %g after %d iterations", ErrNoConvergence, f1, s.MaxIter)
}
