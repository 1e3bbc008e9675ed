package recommend

import "sort"

// RankTopK orders scored candidates by final score descending and keeps
// the first k. Ties keep their catalog order, so equal-scored recipes
// rank deterministically across runs. k <= 0 keeps everything.
func RankTopK(scored []ScoreBreakdown, k int) []ScoreBreakdown {
	ranked := make([]ScoreBreakdown, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Final > ranked[j].Final
	})
	if k > 0 && k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}
