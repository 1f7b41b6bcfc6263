package roots

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

// derivStep scales the central-difference step used for the numerical
// derivative.
const derivStep = 1e-7

// Newton iterates x ← x − f(x)/f'(x) with the derivative taken by
// central difference, so callers never supply an analytic derivative.
// Starting from a guess rather than a bracket keeps roots slightly
// behind the guess reachable, which the collision solver relies on.
type Newton struct {
	Tol     float64
	MaxIter int
}

func NewNewton() *Newton {
	return &Newton{Tol: DefaultTol, MaxIter: DefaultMaxIter}
}

func (n *Newton) Name() string { return "newton" }

func (n *Newton) Find(f Func, guess float64) (float64, error) {
	x := guess
	fx := f(x)
	for i := 0; i < n.MaxIter; i++ {
		if math.Abs(fx) <= n.Tol {
			return x, nil
		}
		df := fd.Derivative(f, x, &fd.Settings{
			Formula: fd.Central,
			Step:    derivStep * (1 + math.Abs(x)),
		})
		if df == 0 {
			return x, fmt.Errorf("%w: newton hit zero derivative at x=%g (iteration %d)", ErrNoConvergence, x, i)
		}
		x -= fx / df
		fx = f(x)
	}
	if math.Abs(fx) <= n.Tol {
		return x, nil
	}
	return x, fmt.Errorf("%w: newton residual %g after %d iterations", ErrNoConvergence, fx, n.MaxIter)
}
