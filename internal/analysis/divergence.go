package analysis

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ebeyhan/tubesim/internal/billiard"
	"github.com/ebeyhan/tubesim/internal/wall"
)

// Divergence traces how two trajectories separate when the second starts
// from the same point with its velocity rotated by a small angle.
type Divergence struct {
	Times  []float64
	LogSep []float64
	Rate   float64
}

// EstimateDivergence runs the trajectory pair and fits ln(separation)
// against time over the stretch before the separation saturates at the
// system size. The fitted slope is a practical mixing rate: near zero in
// the plain circle, positive when corrugation defocuses neighbouring
// paths.
func EstimateDivergence(w wall.Wall, init billiard.State, duration, angle float64, samples int) (*Divergence, error) {
	if samples <= 0 {
		samples = 200
	}

	sim, err := billiard.New(w, nil)
	if err != nil {
		return nil, err
	}

	sin, cos := math.Sincos(angle)
	pert := init
	pert.VX = init.VX*cos - init.VZ*sin
	pert.VZ = init.VX*sin + init.VZ*cos

	ctx := context.Background()
	var base, shifted billiard.Buffer
	if _, err := sim.Run(ctx, init, duration, &base); err != nil {
		return nil, err
	}
	if _, err := sim.Run(ctx, pert, duration, &shifted); err != nil {
		return nil, err
	}

	sat := w.InnerRadius()
	div := &Divergence{}
	for i := 1; i <= samples; i++ {
		t := duration * float64(i) / float64(samples)
		x0, z0 := billiard.PositionAt(base.Records, t)
		x1, z1 := billiard.PositionAt(shifted.Records, t)
		sep := math.Hypot(x1-x0, z1-z0)
		if sep == 0 {
			continue
		}
		if sep >= sat {
			break
		}
		div.Times = append(div.Times, t)
		div.LogSep = append(div.LogSep, math.Log(sep))
	}

	if len(div.Times) >= 2 {
		_, div.Rate = stat.LinearRegression(div.Times, div.LogSep, nil, false)
	}
	return div, nil
}
