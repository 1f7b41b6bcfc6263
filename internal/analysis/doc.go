// Package analysis derives transport statistics from stored datasets.
//
// All functions consume the columnar [storage.Dataset] read-only:
//
//   - [Speeds], [SpeedHistogram]: speed distribution across records
//   - [TimeBinnedSpeed]: mean speed over time, for flow charts
//   - [FreePaths]: distances between consecutive wall contacts
//   - [Summarize]: per-dataset aggregate for the stats command
//   - [EstimateDivergence]: separation rate of a perturbed trajectory pair
//
// # Mixing Detection
//
// A clearly positive divergence rate means neighbouring trajectories
// spread exponentially, the mixing behaviour corrugation is meant to
// induce:
//
//	div, err := analysis.EstimateDivergence(w, init, 20, 1e-6, 200)
//	if err == nil && div.Rate > 0 {
//	    // corrugation is mixing the flow
//	}
package analysis
