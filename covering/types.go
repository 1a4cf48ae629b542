package covering

import "sort"

// Pair is an unordered pair of distinct items in canonical form (A < B).
type Pair struct {
	A, B int
}

// NewPair returns the canonical pair for i and j.
func NewPair(i, j int) Pair {
	if i > j {
		i, j = j, i
	}

	return Pair{A: i, B: j}
}

// Trial is one presentation unit: K distinct items shown together.
// Members keep emission order (anchors first, then the target pair, then
// greedy picks); use Sorted for a canonical view.
type Trial []int

// Contains reports whether id is a member of t.
func (t Trial) Contains(id int) bool {
	for _, v := range t {
		if v == id {
			return true
		}
	}

	return false
}

// Sorted returns an ascending copy of t.
func (t Trial) Sorted() Trial {
	out := make(Trial, len(t))
	copy(out, t)
	sort.Ints(out)

	return out
}

// Pairs lists every canonical pair formed inside t, in member order.
func (t Trial) Pairs() []Pair {
	out := make([]Pair, 0, PairCount(len(t)))
	for i := 0; i < len(t); i++ {
		for j := i + 1; j < len(t); j++ {
			out = append(out, NewPair(t[i], t[j]))
		}
	}

	return out
}

// TrialList is the ordered plan produced by a Generator. Order is the
// presentation order.
type TrialList []Trial

// Clone returns a deep copy of l.
func (l TrialList) Clone() TrialList {
	out := make(TrialList, len(l))
	for i, t := range l {
		out[i] = append(Trial(nil), t...)
	}

	return out
}

// PairCount returns C(n,2), the number of unordered pairs over n items.
func PairCount(n int) int {
	if n < 2 {
		return 0
	}

	return n * (n - 1) / 2
}
