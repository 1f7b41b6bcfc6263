// Package wall defines the corrugated boundary of the simulated region:
// a circle of mean radius N·λ/(2π) perturbed by a single-frequency
// sinusoid of amplitude A with N wavefronts around the circumference.
package wall

import (
	"errors"
	"fmt"
	"math"

	"github.com/ebeyhan/tubesim/internal/geom"
)

// ErrInvalid marks unusable wall parameters.
var ErrInvalid = errors.New("wall: invalid parameters")

// Wall is the boundary r(θ) = N·λ/(2π) + A·cos(N·θ). The zero value is
// not usable; construct with New or call Validate before use.
type Wall struct {
	Wavelength float64 // λ, arc length of one corrugation period
	Amplitude  float64 // A
	Wavefronts int     // N, full periods around the circumference
}

// New returns a validated wall.
func New(wavelength, amplitude float64, wavefronts int) (Wall, error) {
	w := Wall{Wavelength: wavelength, Amplitude: amplitude, Wavefronts: wavefronts}
	if err := w.Validate(); err != nil {
		return Wall{}, err
	}
	return w, nil
}

// Validate checks the parameters. The inner radius must stay positive:
// the integrator's shortcut across the wall-free inner disc is sound
// only under that invariant.
func (w Wall) Validate() error {
	if w.Wavelength <= 0 {
		return fmt.Errorf("%w: wavelength %g must be positive", ErrInvalid, w.Wavelength)
	}
	if w.Amplitude < 0 {
		return fmt.Errorf("%w: amplitude %g must not be negative", ErrInvalid, w.Amplitude)
	}
	if w.Wavefronts < 1 {
		return fmt.Errorf("%w: wavefront count %d must be at least 1", ErrInvalid, w.Wavefronts)
	}
	if w.InnerRadius() <= 0 {
		return fmt.Errorf("%w: amplitude %g must be below mean radius %g", ErrInvalid, w.Amplitude, w.MeanRadius())
	}
	return nil
}

// MeanRadius returns N·λ/(2π), the radius of the unperturbed circle.
func (w Wall) MeanRadius() float64 {
	return float64(w.Wavefronts) * w.Wavelength / (2 * math.Pi)
}

// InnerRadius returns the radius of the largest origin-centered circle
// guaranteed to lie entirely inside the wall.
func (w Wall) InnerRadius() float64 {
	return w.MeanRadius() - w.Amplitude
}

// OuterRadius returns the radius of the smallest origin-centered circle
// that contains the wall.
func (w Wall) OuterRadius() float64 {
	return w.MeanRadius() + w.Amplitude
}

// Radius evaluates the wall radius at polar angle theta.
func (w Wall) Radius(theta float64) float64 {
	return w.MeanRadius() + w.Amplitude*math.Cos(float64(w.Wavefronts)*theta)
}

// DRadius evaluates dr/dθ at polar angle theta.
func (w Wall) DRadius(theta float64) float64 {
	n := float64(w.Wavefronts)
	return -w.Amplitude * n * math.Sin(n*theta)
}

// Outside reports whether (x, z) lies on or beyond the wall. A point
// exactly on the boundary counts as outside, so a touch registers as a
// collision.
func (w Wall) Outside(x, z float64) bool {
	return math.Hypot(x, z) >= w.Radius(geom.PolarAngle(x, z))
}

// Normal returns the unit normal of the wall at polar angle theta. The
// tangent direction is (r'·cosθ − r·sinθ, r'·sinθ + r·cosθ); when its x
// component vanishes the tangent is vertical and the normal is (1, 0).
// The vanishing test is an exact comparison: the branch covers the
// analytic degenerate case, it is not a numeric tolerance.
func (w Wall) Normal(theta float64) (nx, nz float64) {
	r := w.Radius(theta)
	dr := w.DRadius(theta)
	sin, cos := math.Sincos(theta)
	dZ := dr*sin + r*cos
	dX := dr*cos - r*sin
	if dX == 0 {
		return 1, 0
	}
	slope := dZ / dX
	den := math.Sqrt(1 + slope*slope)
	return -slope / den, 1 / den
}
