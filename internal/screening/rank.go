package screening

import "sort"

// Rank orders scored candidates descending by score, breaking ties by
// descending skills match (absent treated as lowest) and finally by
// ascending candidate id. The ordering is a strict total order, so ranking
// the same batch again is deterministic regardless of the arrival order of
// its verdicts. The input slice is not modified.
func Rank(candidates []RankedCandidate) []RankedCandidate {
	ranked := make([]RankedCandidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Verdict.Score != b.Verdict.Score {
			return a.Verdict.Score > b.Verdict.Score
		}
		as, bs := skillsMatchOrZero(a.Verdict), skillsMatchOrZero(b.Verdict)
		if as != bs {
			return as > bs
		}
		return a.CandidateID < b.CandidateID
	})

	return ranked
}

// skillsMatchOrZero maps an absent skills sub-score below every present
// one. Present scores are already clamped to [0,100], so -1 sorts last.
func skillsMatchOrZero(v Verdict) float64 {
	if v.SkillsMatch == nil {
		return -1
	}
	return *v.SkillsMatch
}
