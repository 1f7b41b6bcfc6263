package geom

import (
	"math"
	"testing"
)

func TestPolarAngleQuadrants(t *testing.T) {
	cases := []struct {
		name string
		x, z float64
		want float64
	}{
		{"first", 1, 1, math.Pi / 4},
		{"second", -1, 1, 3 * math.Pi / 4},
		{"third", -1, -1, -3 * math.Pi / 4},
		{"fourth", 1, -1, -math.Pi / 4},
		{"posX", 5, 0, 0},
		{"negX", -4, 0, math.Pi},
		{"posZ", 0, 2, math.Pi / 2},
		{"negZ", 0, -3, -math.Pi / 2},
		{"origin", 0, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := PolarAngle(c.x, c.z)
			if math.Abs(got-c.want) > 1e-12 {
				t.Errorf("PolarAngle(%g, %g) = %g, want %g", c.x, c.z, got, c.want)
			}
		})
	}
}

func TestPolarAngleRightHalfPlane(t *testing.T) {
	for _, p := range [][2]float64{{1, 0.3}, {2.5, -4}, {0.01, 0.02}, {7, 7}, {3, -0.001}} {
		got := PolarAngle(p[0], p[1])
		want := math.Atan(p[1] / p[0])
		if got != want {
			t.Errorf("PolarAngle(%g, %g) = %g, want atan %g", p[0], p[1], got, want)
		}
		if got <= -math.Pi/2 || got >= math.Pi/2 {
			t.Errorf("PolarAngle(%g, %g) = %g outside (-pi/2, pi/2)", p[0], p[1], got)
		}
	}
}

func TestPolarAngleRoundTrip(t *testing.T) {
	// Angles strictly inside (-pi, pi] must come back unchanged from
	// their unit-circle point.
	for _, th := range []float64{-3.0, -math.Pi / 2, -0.7, 0, 0.5, math.Pi / 2, 2.9, math.Pi} {
		x, z := math.Cos(th), math.Sin(th)
		got := PolarAngle(x, z)
		if math.Abs(got-th) > 1e-12 {
			t.Errorf("PolarAngle(cos %g, sin %g) = %g", th, th, got)
		}
	}
}
