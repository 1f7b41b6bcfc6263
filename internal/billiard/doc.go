// Package billiard simulates point particles bouncing inside a
// corrugated circular boundary.
//
// The core pieces:
//
//   - [State]: particle position and velocity in the cross-section plane
//   - [Simulator]: adaptive-step trajectory loop with exact collision
//     times and specular reflection
//   - [Sampler]: rejection-sampled start states with azimuthal flow
//   - [Record]/[Sink]: the per-run collision log and where it goes
//
// # Example
//
//	w, _ := wall.New(1.0, 0.05, 8)
//	sim, _ := billiard.New(w, nil)
//	smp := billiard.NewSampler(w, billiard.SampleParams{FlowSpeed: 1}, 42, nil)
//	buf := &billiard.Buffer{}
//	res, err := sim.Run(ctx, smp.Sample(), 100, buf)
//
// # Thread Safety
//
// Simulator and Sampler instances are NOT thread-safe. Parallel batches
// construct one of each per run; see the ensemble package.
package billiard
