package wall

import (
	"errors"
	"math"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		w    Wall
		ok   bool
	}{
		{"valid", Wall{Wavelength: 1, Amplitude: 0.05, Wavefronts: 8}, true},
		{"flat circle", Wall{Wavelength: 2 * math.Pi, Amplitude: 0, Wavefronts: 1}, true},
		{"zero wavelength", Wall{Wavelength: 0, Amplitude: 0.1, Wavefronts: 4}, false},
		{"negative amplitude", Wall{Wavelength: 1, Amplitude: -0.1, Wavefronts: 4}, false},
		{"no wavefronts", Wall{Wavelength: 1, Amplitude: 0.1, Wavefronts: 0}, false},
		{"amplitude swallows radius", Wall{Wavelength: 1, Amplitude: 2, Wavefronts: 6}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.w.Validate()
			if c.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !c.ok {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("Validate() = %v, want ErrInvalid", err)
				}
			}
		})
	}
}

func TestRadiusPeriodicity(t *testing.T) {
	w := Wall{Wavelength: 1.3, Amplitude: 0.07, Wavefronts: 6}
	period := 2 * math.Pi / float64(w.Wavefronts)
	for _, th := range []float64{-2.5, -0.3, 0, 0.9, 2.2, 3.1} {
		a := w.Radius(th)
		b := w.Radius(th + period)
		if math.Abs(a-b) > 1e-12 {
			t.Errorf("Radius(%g) = %g but Radius(+period) = %g", th, a, b)
		}
	}
}

func TestRadiusBounds(t *testing.T) {
	w := Wall{Wavelength: 1, Amplitude: 0.05, Wavefronts: 8}
	for th := -math.Pi; th <= math.Pi; th += 0.01 {
		r := w.Radius(th)
		if r < w.InnerRadius()-1e-12 || r > w.OuterRadius()+1e-12 {
			t.Fatalf("Radius(%g) = %g outside [%g, %g]", th, r, w.InnerRadius(), w.OuterRadius())
		}
	}
	if got := w.Radius(0); math.Abs(got-w.OuterRadius()) > 1e-12 {
		t.Errorf("Radius(0) = %g, want crest %g", got, w.OuterRadius())
	}
}

func TestDRadius(t *testing.T) {
	w := Wall{Wavelength: 1, Amplitude: 0.05, Wavefronts: 8}
	// Compare with a central difference of Radius.
	h := 1e-6
	for _, th := range []float64{-1.7, -0.2, 0.4, 1.9} {
		want := (w.Radius(th+h) - w.Radius(th-h)) / (2 * h)
		got := w.DRadius(th)
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("DRadius(%g) = %g, finite difference %g", th, got, want)
		}
	}
	if w.DRadius(0) != 0 {
		t.Errorf("DRadius(0) = %g, want 0 at a crest", w.DRadius(0))
	}
}

func TestOutside(t *testing.T) {
	w := Wall{Wavelength: 1, Amplitude: 0.05, Wavefronts: 8}
	if w.Outside(0, 0) {
		t.Error("origin reported outside")
	}
	if w.Outside(w.InnerRadius()*0.9, 0) {
		t.Error("point inside the inner disc reported outside")
	}
	if !w.Outside(w.OuterRadius()+0.01, 0) {
		t.Error("point beyond the outer circle reported inside")
	}
	// A touch counts as outside.
	if !w.Outside(w.Radius(0), 0) {
		t.Error("point exactly on the wall reported inside")
	}
}

func TestNormalIsUnit(t *testing.T) {
	w := Wall{Wavelength: 1, Amplitude: 0.05, Wavefronts: 8}
	for th := -math.Pi; th <= math.Pi; th += 0.05 {
		nx, nz := w.Normal(th)
		if math.Abs(math.Hypot(nx, nz)-1) > 1e-12 {
			t.Fatalf("Normal(%g) = (%g, %g) not unit length", th, nx, nz)
		}
	}
}

func TestNormalVerticalTangent(t *testing.T) {
	// On a perfect circle the tangent at θ=0 is vertical and the normal
	// must fall back to (1, 0).
	w := Wall{Wavelength: 2 * math.Pi, Amplitude: 0, Wavefronts: 1}
	nx, nz := w.Normal(0)
	if nx != 1 || nz != 0 {
		t.Errorf("Normal(0) = (%g, %g), want (1, 0)", nx, nz)
	}
}

func TestNormalCirclePointsRadially(t *testing.T) {
	// With zero amplitude the wall is a circle, so the normal is radial
	// up to sign.
	w := Wall{Wavelength: 2 * math.Pi, Amplitude: 0, Wavefronts: 1}
	for _, th := range []float64{0.3, 1.2, 2.8, -0.9, -2.2} {
		nx, nz := w.Normal(th)
		cross := nx*math.Sin(th) - nz*math.Cos(th)
		if math.Abs(cross) > 1e-9 {
			t.Errorf("Normal(%g) = (%g, %g) not radial (cross %g)", th, nx, nz, cross)
		}
	}
}
