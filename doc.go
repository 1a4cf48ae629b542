// Package pairlab plans and analyses multi-arrangement similarity
// experiments for mid-air haptic stimuli.
//
// 🚀 What is pairlab?
//
//	A small toolkit for the whole experiment loop:
//		• Trial plans: greedy pair-covering so every stimulus pair meets at least once
//		• Stimuli: parameter grids, random-walk trajectories and seed tables
//		• Sessions: arrangement recording and the JSON result format
//		• RDM: weighted dissimilarity matrices aggregated over sessions
//		• MDS: classical and SMACOF embeddings
//		• Clustering: k-means with silhouette model selection, hierarchical linkage
//
// Packages:
//
//	covering/ — pair coverage tracking and the anchored greedy trial generator
//	stimulus/ — stimulus grid, presets, trajectories and seed search
//	session/  — Recorder, Document, arena layout, result file I/O
//	rdm/      — symmetric Matrix, Aggregate, CSV round trip
//	mds/      — Classical, SMACOF, Kruskal stress
//	cluster/  — KMeans, Silhouette, SelectK, Linkage, Cut
//	cmd/pairlab/ — the CLI wiring everything behind a YAML config
//
// Quick ASCII example, N=4 with K=3 and anchor 0:
//
//	trial 0: 0 1 2   covers 0-1 0-2 1-2
//	trial 1: 0 3 1   covers 0-3 1-3
//	trial 2: 0 2 3   covers 2-3
//
//	go install github.com/katalvlaran/pairlab/cmd/pairlab@latest
package pairlab
