// Package rdm builds representational dissimilarity matrices from
// arrangement sessions.
//
// Every trial contributes the pairwise on-screen distances of its tokens,
// scaled so trials are comparable: by the distance between the two anchor
// items when WithAnchors is set and both were shown apart, otherwise by the
// trial's largest distance.
// Contributions are combined per item pair into a weighted average:
//
//	RDM[i][j] = Σ d̂ᵢⱼ·wᵢⱼ / Σ wᵢⱼ
//
// With WeightSquared (the default) wᵢⱼ is the squared raw distance, so
// trials where the participant spread the pair far apart carry more
// evidence. WeightUniform is the plain mean. Pairs never shown together
// stay 0.
//
// 🚀 Quick start:
//
//	docs, _ := session.LoadAll(ctx, paths)
//	m, _ := rdm.Aggregate(docs)
//	_ = m.WriteCSV(os.Stdout)
package rdm
