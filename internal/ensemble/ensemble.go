package ensemble

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/ebeyhan/tubesim/internal/billiard"
	"github.com/ebeyhan/tubesim/internal/roots"
	"github.com/ebeyhan/tubesim/internal/wall"
)

// RunSink receives the complete record sequence of each finished run.
// Workers call WriteRun once per run, so implementations must be safe
// for concurrent use; records within one call are already in order.
type RunSink interface {
	WriteRun(run int, recs []billiard.Record) error
}

type Options struct {
	Runs     int
	Seed     int64
	Duration float64
	Params   billiard.SampleParams
	Finder   roots.Finder
	Workers  int
	Log      *zap.Logger
}

// RunStatus summarizes one run. Err is set when the run failed or was
// never started because the context expired; such runs contribute no
// records to the sink.
type RunStatus struct {
	Run        int
	Seed       uint64
	Collisions int
	Steps      int
	Err        error
}

// Runner executes independent runs against one wall with a bounded
// worker pool. Run i draws its start from seed base+i, so an ensemble
// is reproducible regardless of worker count or scheduling.
type Runner struct {
	wall wall.Wall
	opts Options
	log  *zap.Logger
}

func New(w wall.Wall, opts Options) (*Runner, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if opts.Runs <= 0 {
		opts.Runs = 1
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{wall: w, opts: opts, log: log.Named("ensemble")}, nil
}

// Run executes every run and returns one status per run index. A failing
// run is isolated in its status; the rest of the ensemble continues.
// Cancelling ctx stops feeding the pool, marks unstarted runs with the
// context error and returns it after the in-flight runs drain.
func (r *Runner) Run(ctx context.Context, sink RunSink) ([]RunStatus, error) {
	statuses := make([]RunStatus, r.opts.Runs)

	workers := r.opts.Workers
	if workers > r.opts.Runs {
		workers = r.opts.Runs
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				statuses[idx] = r.runOne(ctx, idx, sink)
			}
		}()
	}

feed:
	for i := 0; i < r.opts.Runs; i++ {
		select {
		case <-ctx.Done():
			for j := i; j < r.opts.Runs; j++ {
				statuses[j] = RunStatus{Run: j, Err: ctx.Err()}
			}
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return statuses, ctx.Err()
}

func (r *Runner) runOne(ctx context.Context, idx int, sink RunSink) RunStatus {
	seed := uint64(r.opts.Seed) + uint64(idx)
	status := RunStatus{Run: idx, Seed: seed}

	sim, err := billiard.New(r.wall, r.opts.Finder)
	if err != nil {
		status.Err = err
		return status
	}
	init := billiard.NewSampler(r.wall, r.opts.Params, seed, r.log).Sample()

	var buf billiard.Buffer
	res, err := sim.Run(ctx, init, r.opts.Duration, &buf)
	if res != nil {
		status.Collisions = res.Collisions
		status.Steps = res.Steps
	}
	if err != nil {
		r.log.Warn("run failed",
			zap.Int("run", idx),
			zap.Uint64("seed", seed),
			zap.Error(err))
		status.Err = err
		return status
	}

	if sink != nil {
		if err := sink.WriteRun(idx, buf.Records); err != nil {
			status.Err = err
		}
	}
	return status
}

// Failed counts the statuses carrying an error.
func Failed(statuses []RunStatus) int {
	n := 0
	for _, st := range statuses {
		if st.Err != nil {
			n++
		}
	}
	return n
}
