// Package session records participant arrangements against a trial plan
// and reads/writes the JSON result documents consumed by analysis.
//
// A result document has the shape
//
//	{
//	  "config": {"num_items_total": 18, "items_per_trial": 7, "total_trials": 26, ...},
//	  "trials": [
//	    {"trial_index": 0, "items": [{"id": 0, "x": 50, "y": 400, "params": {...}}, ...]},
//	    ...
//	  ]
//	}
//
// Recorder is the bridge between a covering.TrialList and that document:
// the presentation layer asks it for each trial, lets the participant drag
// tokens inside an Arena, and stores the final positions with Place.
package session
