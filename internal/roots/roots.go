// Package roots provides scalar root finders for the collision-time
// equation. The finders are interchangeable behind [Finder] so the
// solver driving a simulation can be swapped from configuration.
package roots

import (
	"errors"
	"fmt"
)

// Defaults shared by the finders. The tolerance is absolute on |f(x)|.
const (
	DefaultTol     = 1e-6
	DefaultMaxIter = 64
)

// ErrNoConvergence indicates a finder gave up before |f| fell under its
// tolerance. For a simulation run this is fatal: the run is aborted, the
// error surfaces to the orchestrator.
var ErrNoConvergence = errors.New("roots: no convergence")

// Func is the scalar function whose root is sought.
type Func func(x float64) float64

// Finder locates a root of f near a starting guess. Implementations are
// stateless per call and safe for concurrent use.
type Finder interface {
	Find(f Func, guess float64) (float64, error)
	Name() string
}

// ByName builds the finder selected in configuration. A non-positive
// tol falls back to DefaultTol.
func ByName(name string, tol float64) (Finder, error) {
	if tol <= 0 {
		tol = DefaultTol
	}
	switch name {
	case "", "newton":
		n := NewNewton()
		n.Tol = tol
		return n, nil
	case "secant":
		s := NewSecant()
		s.Tol = tol
		return s, nil
	}
	return nil, fmt.Errorf("roots: unknown finder %q", name)
}
