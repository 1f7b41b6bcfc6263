// Package viz provides terminal-based visualization for stored runs.
//
// Static plots and the interactive replay both draw on a Braille pixel
// canvas:
//
//   - [Trajectory]: wall outline with the recorded path and contacts
//   - [HitMap]: unrolled wall profile with contact positions
//   - [Model]: Bubble Tea replay of a single run
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from t=0
//	+/-   - Playback speed
//	[/]   - Scrub back/forward
//	?     - Show help overlay
//	Q     - Quit
//
// The replay never re-integrates. It interpolates between the contact
// records a run already produced, so what plays back is exactly what
// was stored.
package viz
