package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/ebeyhan/tubesim/internal/analysis"
	"github.com/ebeyhan/tubesim/internal/billiard"
	"github.com/ebeyhan/tubesim/internal/config"
	"github.com/ebeyhan/tubesim/internal/ensemble"
	"github.com/ebeyhan/tubesim/internal/logging"
	"github.com/ebeyhan/tubesim/internal/roots"
	"github.com/ebeyhan/tubesim/internal/storage"
	"github.com/ebeyhan/tubesim/internal/viz"
	"github.com/ebeyhan/tubesim/internal/wall"
)

var (
	dataDir  string
	logLevel string
	logFile  string

	wavelength float64
	amplitude  float64
	wavefronts int
	duration   float64
	runs       int
	seed       int64
	workers    int
	flowSpeed  float64
	variance   float64
	posX       float64
	posZ       float64
	velX       float64
	velZ       float64
	solver     string
	tolerance  float64
	configFile string
	preset     string

	runIndex int
	bins     int
	angle    float64
	samples  int
	plotW    int
	plotH    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tubesim",
		Short: "billiard transport lab for corrugated tube cross-sections",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Init(logLevel, logFile)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "data", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log to rotating file instead of stderr")

	runCmd := &cobra.Command{
		Use:   "run [name]",
		Short: "run a single trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSingle,
	}
	simFlags(runCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [name]",
		Short: "run many trajectories in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	simFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", config.DefaultRuns, "number of runs")
	ensembleCmd.Flags().IntVar(&workers, "workers", 0, "worker count (0 = all cpus)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list datasets",
		RunE:  listDatasets,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [dataset_id]",
		Short: "draw one run's trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&runIndex, "run", 0, "run index within the dataset")
	plotCmd.Flags().IntVar(&plotW, "width", 64, "canvas width in cells")
	plotCmd.Flags().IntVar(&plotH, "height", 28, "canvas height in cells")

	polarCmd := &cobra.Command{
		Use:   "polar [dataset_id]",
		Short: "wall contact map across all runs",
		Args:  cobra.ExactArgs(1),
		RunE:  polarPlot,
	}
	polarCmd.Flags().IntVar(&plotW, "width", 64, "canvas width in cells")
	polarCmd.Flags().IntVar(&plotH, "height", 16, "canvas height in cells")

	histCmd := &cobra.Command{
		Use:   "hist [dataset_id]",
		Short: "speed histogram",
		Args:  cobra.ExactArgs(1),
		RunE:  histRun,
	}
	histCmd.Flags().IntVar(&bins, "bins", 20, "histogram bins")

	flowCmd := &cobra.Command{
		Use:   "flow [dataset_id]",
		Short: "mean speed over time",
		Args:  cobra.ExactArgs(1),
		RunE:  flowRun,
	}
	flowCmd.Flags().IntVar(&bins, "bins", 40, "time bins")

	statsCmd := &cobra.Command{
		Use:   "stats [dataset_id]",
		Short: "summary statistics and divergence estimate",
		Args:  cobra.ExactArgs(1),
		RunE:  statsRun,
	}
	statsCmd.Flags().Float64Var(&angle, "angle", 1e-6, "divergence probe angle (radians)")
	statsCmd.Flags().IntVar(&samples, "samples", 200, "divergence sample count")

	exportCmd := &cobra.Command{
		Use:   "export [dataset_id]",
		Short: "export dataset as JSON to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [dataset_id]",
		Short: "export raw records as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	liveCmd := &cobra.Command{
		Use:   "live [dataset_id]",
		Short: "replay a run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  liveRun,
	}
	liveCmd.Flags().IntVar(&runIndex, "run", 0, "run index within the dataset")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in parameter presets",
		RunE:  listPresetTable,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the integrator",
		RunE:  benchSolvers,
	}

	rootCmd.AddCommand(runCmd, ensembleCmd, listCmd, plotCmd, polarCmd, histCmd,
		flowCmd, statsCmd, exportCmd, exportCSVCmd, liveCmd, presetsCmd, benchCmd)

	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// simFlags registers the parameters shared by run and ensemble.
func simFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&wavelength, "wavelength", config.DefaultWavelength, "corrugation wavelength λ")
	cmd.Flags().Float64Var(&amplitude, "amplitude", config.DefaultAmplitude, "corrugation amplitude A")
	cmd.Flags().IntVar(&wavefronts, "wavefronts", config.DefaultWavefronts, "corrugation periods N")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated duration per run")
	cmd.Flags().Int64Var(&seed, "seed", 0, "base random seed (0 = from clock)")
	cmd.Flags().Float64Var(&flowSpeed, "flow", config.DefaultFlowSpeed, "azimuthal flow speed")
	cmd.Flags().Float64Var(&variance, "variance", config.DefaultVariance, "velocity noise variance")
	cmd.Flags().Float64Var(&posX, "x", 0, "pin initial x")
	cmd.Flags().Float64Var(&posZ, "z", 0, "pin initial z")
	cmd.Flags().Float64Var(&velX, "vx", 0, "pin initial vx")
	cmd.Flags().Float64Var(&velZ, "vz", 0, "pin initial vz")
	cmd.Flags().StringVar(&solver, "solver", config.DefaultSolver, "collision root finder (newton, secant)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", config.DefaultTolerance, "root finder tolerance")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig resolves precedence: defaults, then preset, then config
// file, then explicitly set CLI flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		tmp := *p
		cfg = &tmp
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	fl := cmd.Flags()
	if fl.Changed("wavelength") {
		cfg.Wall.Wavelength = wavelength
	}
	if fl.Changed("amplitude") {
		cfg.Wall.Amplitude = amplitude
	}
	if fl.Changed("wavefronts") {
		cfg.Wall.Wavefronts = wavefronts
	}
	if fl.Changed("time") {
		cfg.Run.Duration = duration
	}
	if fl.Changed("runs") {
		cfg.Run.Runs = runs
	}
	if fl.Changed("seed") {
		cfg.Run.Seed = seed
	}
	if fl.Changed("workers") {
		cfg.Run.Workers = workers
	}
	if fl.Changed("flow") {
		cfg.Sampler.FlowSpeed = flowSpeed
	}
	if fl.Changed("variance") {
		cfg.Sampler.Variance = variance
	}
	if fl.Changed("x") {
		cfg.Sampler.X = &posX
	}
	if fl.Changed("z") {
		cfg.Sampler.Z = &posZ
	}
	if fl.Changed("vx") {
		cfg.Sampler.VX = &velX
	}
	if fl.Changed("vz") {
		cfg.Sampler.VZ = &velZ
	}
	if fl.Changed("solver") {
		cfg.Solver.Method = solver
	}
	if fl.Changed("tolerance") {
		cfg.Solver.Tolerance = tolerance
	}
	return cfg, nil
}

func sampleParams(cfg *config.Config) billiard.SampleParams {
	return billiard.SampleParams{
		FlowSpeed: cfg.Sampler.FlowSpeed,
		Variance:  cfg.Sampler.Variance,
		Override: billiard.Overrides{
			X:  cfg.Sampler.X,
			Z:  cfg.Sampler.Z,
			VX: cfg.Sampler.VX,
			VZ: cfg.Sampler.VZ,
		},
	}
}

func runSingle(cmd *cobra.Command, args []string) error {
	name := "run"
	if len(args) > 0 {
		name = args[0]
	}
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Run.Runs = 1
	return execute(name, cfg)
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	name := "ensemble"
	if len(args) > 0 {
		name = args[0]
	}
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	return execute(name, cfg)
}

func execute(name string, cfg *config.Config) error {
	if cfg.Run.Seed == 0 {
		cfg.Run.Seed = time.Now().UnixNano()
	}

	w, err := wall.New(cfg.Wall.Wavelength, cfg.Wall.Amplitude, cfg.Wall.Wavefronts)
	if err != nil {
		return err
	}
	finder, err := roots.ByName(cfg.Solver.Method, cfg.Solver.Tolerance)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	writer, err := st.Create(name, cfg)
	if err != nil {
		return err
	}

	runner, err := ensemble.New(w, ensemble.Options{
		Runs:     cfg.Run.Runs,
		Seed:     cfg.Run.Seed,
		Duration: cfg.Run.Duration,
		Params:   sampleParams(cfg),
		Finder:   finder,
		Workers:  cfg.Run.Workers,
		Log:      logging.L(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("running %d runs of %gs...\n", cfg.Run.Runs, cfg.Run.Duration)
	start := time.Now()

	statuses, err := runner.Run(context.Background(), writer)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	failed := ensemble.Failed(statuses)
	meta, err := writer.Finalize(failed, elapsed)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("dataset id: %s\n", meta.ID)
	fmt.Printf("runs: %d (%d failed)\n", meta.Runs, failed)
	fmt.Printf("collisions: %d\n", meta.Collisions)

	return nil
}

func listDatasets(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	sets, err := st.List()
	if err != nil {
		return err
	}

	if len(sets) == 0 {
		fmt.Println("no datasets found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tRUNS\tFAILED\tCONTACTS\tTIME\tWALL")

	for _, m := range sets {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.1fs\tλ=%g A=%g N=%d\n",
			m.ID,
			m.Created.Format("2006-01-02 15:04:05"),
			m.Runs,
			m.Failed,
			m.Collisions,
			m.Config.Run.Duration,
			m.Config.Wall.Wavelength,
			m.Config.Wall.Amplitude,
			m.Config.Wall.Wavefronts,
		)
	}

	return w.Flush()
}

// loadRun fetches one run's records plus the wall it bounced in.
func loadRun(id string, run int) (wall.Wall, []billiard.Record, *storage.Metadata, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(id)
	if err != nil {
		return wall.Wall{}, nil, nil, err
	}
	ds, err := st.LoadDataset(id)
	if err != nil {
		return wall.Wall{}, nil, nil, err
	}

	bounds := ds.Runs()
	if run < 0 || run >= len(bounds) {
		return wall.Wall{}, nil, nil, fmt.Errorf("run %d out of range (dataset has %d runs)", run, len(bounds))
	}

	w, err := wall.New(meta.Config.Wall.Wavelength, meta.Config.Wall.Amplitude, meta.Config.Wall.Wavefronts)
	if err != nil {
		return wall.Wall{}, nil, nil, err
	}

	b := bounds[run]
	return w, ds.Records(b[0], b[1]), meta, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	w, recs, meta, err := loadRun(args[0], runIndex)
	if err != nil {
		return err
	}

	fmt.Printf("dataset: %s\n", meta.ID)
	fmt.Printf("run: %d, records: %d, contacts: %d\n\n",
		runIndex, len(recs), recs[len(recs)-1].Collision)
	fmt.Println(viz.Trajectory(w, recs, plotW, plotH))
	return nil
}

func polarPlot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	ds, err := st.LoadDataset(args[0])
	if err != nil {
		return err
	}

	w, err := wall.New(meta.Config.Wall.Wavelength, meta.Config.Wall.Amplitude, meta.Config.Wall.Wavefronts)
	if err != nil {
		return err
	}

	fmt.Printf("dataset: %s\n", meta.ID)
	fmt.Printf("wall contacts over %d runs (θ left to right, r bottom to top)\n\n", meta.Runs)
	fmt.Println(viz.HitMap(w, ds.Records(0, ds.Len()), plotW, plotH))
	return nil
}

func histRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	ds, err := st.LoadDataset(args[0])
	if err != nil {
		return err
	}
	if ds.Len() == 0 {
		return fmt.Errorf("no records in dataset")
	}

	dividers, counts := analysis.SpeedHistogram(ds, bins)
	if len(counts) == 0 {
		return fmt.Errorf("bins must be positive")
	}

	graph := asciigraph.Plot(counts,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("speed distribution, %d bins over [%.3f, %.3f]",
			bins, dividers[0], dividers[len(dividers)-1])),
	)
	fmt.Println(graph)
	return nil
}

func flowRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	ds, err := st.LoadDataset(args[0])
	if err != nil {
		return err
	}
	if ds.Len() == 0 {
		return fmt.Errorf("no records in dataset")
	}

	times, means := analysis.TimeBinnedSpeed(ds, bins)
	if len(means) == 0 {
		return fmt.Errorf("bins must be positive")
	}

	graph := asciigraph.Plot(means,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("mean speed vs time, 0 to %.1fs", times[len(times)-1])),
	)
	fmt.Println(graph)
	return nil
}

func statsRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	ds, err := st.LoadDataset(args[0])
	if err != nil {
		return err
	}

	sum := analysis.Summarize(ds)

	fmt.Printf("dataset: %s\n", meta.ID)
	fmt.Printf("created: %s\n", meta.Created.Format("2006-01-02 15:04:05"))
	fmt.Printf("wall: λ=%g A=%g N=%d\n\n", meta.Config.Wall.Wavelength,
		meta.Config.Wall.Amplitude, meta.Config.Wall.Wavefronts)

	fmt.Printf("  runs: %d (%d failed)\n", sum.Runs, meta.Failed)
	fmt.Printf("  records: %d\n", sum.Records)
	fmt.Printf("  collisions: %d (%.2f ± %.2f per run)\n", sum.Collisions, sum.CollisionMean, sum.CollisionStd)
	fmt.Printf("  mean speed: %.4f\n", sum.MeanSpeed)
	fmt.Printf("  mean free path: %.4f\n", sum.MeanFreePath)
	fmt.Printf("  max time: %.2fs\n", sum.MaxTime)

	bounds := ds.Runs()
	if len(bounds) == 0 {
		return nil
	}
	first := ds.Records(bounds[0][0], bounds[0][0]+1)[0]
	init := billiard.State{X: first.X, Z: first.Z, VX: first.VX, VZ: first.VZ}

	w, err := wall.New(meta.Config.Wall.Wavelength, meta.Config.Wall.Amplitude, meta.Config.Wall.Wavefronts)
	if err != nil {
		return err
	}

	div, err := analysis.EstimateDivergence(w, init, meta.Config.Run.Duration, angle, samples)
	if err != nil {
		return err
	}

	fmt.Printf("\n  divergence rate: %.4f /s (probe angle %.1e)\n\n", div.Rate, angle)
	if len(div.LogSep) > 1 {
		graph := asciigraph.Plot(div.LogSep,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("ln separation vs time"),
		)
		fmt.Println(graph)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	ds, err := st.LoadDataset(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, ds)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportCSV(os.Stdout, args[0])
}

func liveRun(cmd *cobra.Command, args []string) error {
	w, recs, _, err := loadRun(args[0], runIndex)
	if err != nil {
		return err
	}
	return viz.Replay(w, runIndex, recs)
}

func listPresetTable(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tWAVELENGTH\tAMPLITUDE\tWAVEFRONTS\tTIME\tRUNS\tFLOW\tVARIANCE")

	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%g\t%g\t%d\t%.0fs\t%d\t%g\t%g\n",
			name,
			p.Wall.Wavelength,
			p.Wall.Amplitude,
			p.Wall.Wavefronts,
			p.Run.Duration,
			p.Run.Runs,
			p.Sampler.FlowSpeed,
			p.Sampler.Variance,
		)
	}

	return w.Flush()
}

func benchSolvers(cmd *cobra.Command, args []string) error {
	w, err := wall.New(config.DefaultWavelength, config.DefaultAmplitude, config.DefaultWavefronts)
	if err != nil {
		return err
	}

	init := billiard.State{X: 0.3, Z: 0, VX: 0.9, VZ: 0.62}
	durations := []float64{10, 100, 1000}
	solvers := []string{"newton", "secant"}

	fmt.Printf("benchmarking integrator on λ=%g A=%g N=%d\n\n",
		config.DefaultWavelength, config.DefaultAmplitude, config.DefaultWavefronts)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOLVER\tTIME\tSTEPS\tCONTACTS\tELAPSED\tSTEPS/SEC")

	for _, name := range solvers {
		finder, err := roots.ByName(name, config.DefaultTolerance)
		if err != nil {
			return err
		}
		sim, err := billiard.New(w, finder)
		if err != nil {
			return err
		}

		for _, dur := range durations {
			start := time.Now()
			res, err := sim.Run(context.Background(), init, dur, nil)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(res.Steps) / elapsed.Seconds()
			fmt.Fprintf(tw, "%s\t%.0fs\t%d\t%d\t%v\t%.0f\n",
				name, dur, res.Steps, res.Collisions, elapsed, stepsPerSec)
		}
	}

	return tw.Flush()
}
