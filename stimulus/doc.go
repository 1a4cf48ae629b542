// Package stimulus describes the tactile stimuli used in arrangement
// sessions and the random-walk focal trajectories that render them.
//
// A Stimulus is an immutable parameter record (focal step distance,
// velocity, amplitude-modulation frequency and the derived spatiotemporal
// modulation frequency). Grid expands axis values into the full factorial
// set; Preset8, Preset18 and Preset27 are the layouts used in practice.
//
// Trajectories are random walks of a focal point inside a 10 mm square.
// FindSeed searches for a seed whose walk spreads evenly over the square so
// that every stimulus can be replayed exactly from its seed; each candidate
// runs on its own *rand.Rand, leaving any caller-held random source alone.
package stimulus
