package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ebeyhan/tubesim/internal/storage"
)

// Speeds returns |v| of every record in the dataset.
func Speeds(ds *storage.Dataset) []float64 {
	speeds := make([]float64, ds.Len())
	for i := range speeds {
		speeds[i] = math.Hypot(ds.VX[i], ds.VZ[i])
	}
	return speeds
}

// SpeedHistogram bins record speeds into equal-width bins. It returns
// the bin dividers (len bins+1) and the count per bin. The top divider
// is nudged one ulp past the maximum so the fastest record still lands
// in the last bin.
func SpeedHistogram(ds *storage.Dataset, bins int) (dividers, counts []float64) {
	speeds := Speeds(ds)
	if len(speeds) == 0 || bins <= 0 {
		return nil, nil
	}
	sort.Float64s(speeds)

	lo, hi := speeds[0], speeds[len(speeds)-1]
	if lo == hi {
		hi = lo + 1
	}
	dividers = make([]float64, bins+1)
	floats.Span(dividers, lo, math.Nextafter(hi, hi+1))
	counts = stat.Histogram(nil, dividers, speeds, nil)
	return dividers, counts
}

// TimeBinnedSpeed averages record speeds over equal time bins across all
// runs, returning bin centers and means. A bin without records carries
// the previous bin's mean so the curve stays plottable.
func TimeBinnedSpeed(ds *storage.Dataset, bins int) (times, means []float64) {
	if ds.Len() == 0 || bins <= 0 {
		return nil, nil
	}
	tmax := floats.Max(ds.Time)
	if tmax == 0 {
		tmax = 1
	}
	width := tmax / float64(bins)

	sums := make([]float64, bins)
	counts := make([]int, bins)
	for i := 0; i < ds.Len(); i++ {
		b := int(ds.Time[i] / width)
		if b >= bins {
			b = bins - 1
		}
		sums[b] += math.Hypot(ds.VX[i], ds.VZ[i])
		counts[b]++
	}

	times = make([]float64, bins)
	means = make([]float64, bins)
	prev := 0.0
	for b := range sums {
		times[b] = (float64(b) + 0.5) * width
		if counts[b] > 0 {
			prev = sums[b] / float64(counts[b])
		}
		means[b] = prev
	}
	return times, means
}

// FreePaths returns the straight distances between consecutive wall
// contacts within each run. The opening segment from the start point to
// the first contact is not a wall-to-wall path and is excluded.
func FreePaths(ds *storage.Dataset) []float64 {
	var paths []float64
	for _, run := range ds.Runs() {
		last := -1
		for i := run[0] + 1; i < run[1]; i++ {
			if ds.Collision[i] == ds.Collision[i-1] {
				continue
			}
			if last >= 0 {
				paths = append(paths, math.Hypot(ds.X[i]-ds.X[last], ds.Z[i]-ds.Z[last]))
			}
			last = i
		}
	}
	return paths
}

// Summary aggregates a dataset for the stats command.
type Summary struct {
	Runs          int
	Records       int
	Collisions    int
	CollisionMean float64
	CollisionStd  float64
	MeanSpeed     float64
	MeanFreePath  float64
	MaxTime       float64
}

func Summarize(ds *storage.Dataset) Summary {
	s := Summary{Records: ds.Len()}

	runs := ds.Runs()
	s.Runs = len(runs)
	perRun := make([]float64, 0, len(runs))
	for _, r := range runs {
		c := ds.Collision[r[1]-1]
		perRun = append(perRun, float64(c))
		s.Collisions += c
	}
	if len(perRun) > 0 {
		s.CollisionMean = stat.Mean(perRun, nil)
	}
	if len(perRun) > 1 {
		s.CollisionStd = stat.StdDev(perRun, nil)
	}
	if speeds := Speeds(ds); len(speeds) > 0 {
		s.MeanSpeed = stat.Mean(speeds, nil)
	}
	if paths := FreePaths(ds); len(paths) > 0 {
		s.MeanFreePath = stat.Mean(paths, nil)
	}
	if ds.Len() > 0 {
		s.MaxTime = floats.Max(ds.Time)
	}
	return s
}
