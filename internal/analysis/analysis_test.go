package analysis

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/ebeyhan/tubesim/internal/storage"
)

// Two hand-built runs: a radial bounce with two contacts and a slower
// single-contact run.
func testDataset() *storage.Dataset {
	return &storage.Dataset{
		Collision: []int{0, 1, 2, 2, 0, 1, 1},
		Time:      []float64{0, 1, 3, 4.5, 0, 0.25, 1},
		X:         []float64{0, 1, -1, 0.5, 0.5, 0.5, 0.5},
		Z:         []float64{0, 0, 0, 0, 0, 0.5, -0.5},
		VX:        []float64{1, -1, 1, 1, 0, 2, 2},
		VZ:        []float64{0, 0, 0, 0, 2, 0, 0},
		Stamp:     make([]time.Time, 7),
	}
}

func TestSpeeds(t *testing.T) {
	speeds := Speeds(testDataset())
	want := []float64{1, 1, 1, 1, 2, 2, 2}
	if len(speeds) != len(want) {
		t.Fatalf("got %d speeds, want %d", len(speeds), len(want))
	}
	for i := range want {
		if speeds[i] != want[i] {
			t.Errorf("speed %d = %g, want %g", i, speeds[i], want[i])
		}
	}
}

func TestSpeedHistogram(t *testing.T) {
	dividers, counts := SpeedHistogram(testDataset(), 2)
	if len(dividers) != 3 || len(counts) != 2 {
		t.Fatalf("got %d dividers, %d counts", len(dividers), len(counts))
	}
	if counts[0] != 4 || counts[1] != 3 {
		t.Errorf("counts = %v, want [4 3]", counts)
	}
	if dividers[0] != 1 {
		t.Errorf("first divider = %g, want 1", dividers[0])
	}
	if dividers[2] < 2 {
		t.Errorf("last divider %g excludes the fastest record", dividers[2])
	}
}

func TestSpeedHistogramUniform(t *testing.T) {
	// All speeds identical: the histogram must not collapse to zero-width
	// bins.
	ds := &storage.Dataset{
		Collision: []int{0, 0},
		Time:      []float64{0, 1},
		X:         []float64{0, 1},
		Z:         []float64{0, 0},
		VX:        []float64{1, 1},
		VZ:        []float64{0, 0},
		Stamp:     make([]time.Time, 2),
	}
	_, counts := SpeedHistogram(ds, 4)
	total := 0.0
	for _, c := range counts {
		total += c
	}
	if total != 2 {
		t.Errorf("histogram lost records: total = %g", total)
	}
}

func TestTimeBinnedSpeed(t *testing.T) {
	times, means := TimeBinnedSpeed(testDataset(), 3)
	if len(times) != 3 || len(means) != 3 {
		t.Fatalf("got %d bins", len(times))
	}

	// Bin width 1.5: records at t in [0,1.5) have speeds 1,1,2,2,2. No
	// record lands in [1.5,3), so that bin carries bin 0's mean forward.
	if !scalar.EqualWithinAbs(means[0], 1.6, 1e-12) {
		t.Errorf("bin 0 mean = %g, want 1.6", means[0])
	}
	if !scalar.EqualWithinAbs(means[1], 1.6, 1e-12) {
		t.Errorf("empty bin 1 = %g, want carried 1.6", means[1])
	}
	if means[2] != 1 {
		t.Errorf("bin 2 = %g, want 1", means[2])
	}
	if !scalar.EqualWithinAbs(times[0], 0.75, 1e-12) {
		t.Errorf("bin 0 center = %g, want 0.75", times[0])
	}
}

func TestTimeBinnedSpeedCarriesEmptyBins(t *testing.T) {
	ds := &storage.Dataset{
		Collision: []int{0, 0},
		Time:      []float64{0, 10},
		X:         make([]float64, 2),
		Z:         make([]float64, 2),
		VX:        []float64{3, 3},
		VZ:        []float64{0, 0},
		Stamp:     make([]time.Time, 2),
	}
	_, means := TimeBinnedSpeed(ds, 5)
	for b, m := range means {
		if m != 3 {
			t.Errorf("bin %d = %g, want carried mean 3", b, m)
		}
	}
}

func TestFreePaths(t *testing.T) {
	paths := FreePaths(testDataset())
	// Run 1 has contacts at (1,0) and (-1,0); run 2 has a single contact
	// and contributes nothing.
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}
	if paths[0] != 2 {
		t.Errorf("path = %g, want 2", paths[0])
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(testDataset())

	if s.Runs != 2 {
		t.Errorf("runs = %d, want 2", s.Runs)
	}
	if s.Records != 7 {
		t.Errorf("records = %d, want 7", s.Records)
	}
	if s.Collisions != 3 {
		t.Errorf("collisions = %d, want 3", s.Collisions)
	}
	if !scalar.EqualWithinAbs(s.CollisionMean, 1.5, 1e-12) {
		t.Errorf("collision mean = %g, want 1.5", s.CollisionMean)
	}
	if !scalar.EqualWithinAbs(s.CollisionStd, math.Sqrt(0.5), 1e-12) {
		t.Errorf("collision stddev = %g, want %g", s.CollisionStd, math.Sqrt(0.5))
	}
	if !scalar.EqualWithinAbs(s.MeanSpeed, 10.0/7.0, 1e-12) {
		t.Errorf("mean speed = %g, want %g", s.MeanSpeed, 10.0/7.0)
	}
	if s.MeanFreePath != 2 {
		t.Errorf("mean free path = %g, want 2", s.MeanFreePath)
	}
	if s.MaxTime != 4.5 {
		t.Errorf("max time = %g, want 4.5", s.MaxTime)
	}
}

func TestEmptyDataset(t *testing.T) {
	ds := &storage.Dataset{}

	if got := Speeds(ds); len(got) != 0 {
		t.Errorf("Speeds on empty dataset returned %v", got)
	}
	if d, c := SpeedHistogram(ds, 4); d != nil || c != nil {
		t.Error("SpeedHistogram on empty dataset should return nil")
	}
	if tm, m := TimeBinnedSpeed(ds, 4); tm != nil || m != nil {
		t.Error("TimeBinnedSpeed on empty dataset should return nil")
	}
	if s := Summarize(ds); s.Runs != 0 || s.MeanSpeed != 0 {
		t.Errorf("Summarize on empty dataset = %+v", s)
	}
}
