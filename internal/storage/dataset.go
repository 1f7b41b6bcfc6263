package storage

import (
	"time"

	"github.com/ebeyhan/tubesim/internal/billiard"
)

// Dataset is the columnar view of a stored dataset: one entry per record,
// all runs concatenated in write order.
type Dataset struct {
	Collision []int
	Time      []float64
	X, Z      []float64
	VX, VZ    []float64
	Stamp     []time.Time
}

func (d *Dataset) Len() int {
	return len(d.Time)
}

// Runs returns the [start, end) bounds of each run. Every run opens with
// its synthetic initial record, which is the only record combining
// collision index 0 with time 0; collision records can share time 0 only
// with index ≥ 1, so the predicate never splits inside a run.
func (d *Dataset) Runs() [][2]int {
	var runs [][2]int
	start := -1
	for i := 0; i < d.Len(); i++ {
		if d.Collision[i] == 0 && d.Time[i] == 0 {
			if start >= 0 {
				runs = append(runs, [2]int{start, i})
			}
			start = i
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, d.Len()})
	}
	return runs
}

// Records reconstructs rows [a, b) as simulator records, for replay.
func (d *Dataset) Records(a, b int) []billiard.Record {
	recs := make([]billiard.Record, 0, b-a)
	for i := a; i < b; i++ {
		recs = append(recs, billiard.Record{
			Collision: d.Collision[i],
			Time:      d.Time[i],
			X:         d.X[i],
			Z:         d.Z[i],
			VX:        d.VX[i],
			VZ:        d.VZ[i],
			Stamp:     d.Stamp[i],
		})
	}
	return recs
}
