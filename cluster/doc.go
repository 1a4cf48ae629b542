// Package cluster groups embedded stimuli.
//
// 🎯 Partitional: KMeans (k-means++ seeding, Lloyd iterations, best of
// several restarts) scored by Silhouette; SelectK sweeps K and keeps the
// best-scoring partition.
//
// 🌳 Hierarchical: Linkage builds an agglomerative merge tree directly from
// an rdm.Matrix using Lance–Williams updates (single, complete, average,
// Ward). Merges use the conventional numbering: leaves are 0..N-1 and the
// cluster formed by merge i is N+i. Cut flattens the tree to K labels with
// a union-find pass.
//
// Labels are canonical: clusters are numbered by the first item that
// belongs to them, so equal partitions compare equal.
package cluster
