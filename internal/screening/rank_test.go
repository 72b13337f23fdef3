package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredCandidate(id string, score float64, skills *float64) RankedCandidate {
	return RankedCandidate{
		CandidateID: id,
		Verdict: Verdict{
			Score:       score,
			SkillsMatch: skills,
			Status:      StatusScored,
		},
	}
}

func f(v float64) *float64 { return &v }

func TestRankDescendingByScore(t *testing.T) {
	ranked := Rank([]RankedCandidate{
		scoredCandidate("b", 40, nil),
		scoredCandidate("a", 88, nil),
		scoredCandidate("c", 65, nil),
	})

	ids := rankedIDs(ranked)
	assert.Equal(t, []string{"a", "c", "b"}, ids)
}

func TestRankTieBreakBySkillsMatchThenID(t *testing.T) {
	ranked := Rank([]RankedCandidate{
		scoredCandidate("d", 80, nil),
		scoredCandidate("c", 80, f(60)),
		scoredCandidate("b", 80, f(90)),
		scoredCandidate("a", 80, f(90)),
	})

	// Absent skills match sorts below every present value; equal skills
	// fall back to ascending candidate id.
	assert.Equal(t, []string{"a", "b", "c", "d"}, rankedIDs(ranked))
}

func TestRankEmptyInput(t *testing.T) {
	ranked := Rank(nil)
	require.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	input := []RankedCandidate{
		scoredCandidate("low", 10, nil),
		scoredCandidate("high", 90, nil),
	}
	_ = Rank(input)
	assert.Equal(t, "low", input[0].CandidateID)
}

func TestRankIsIdempotent(t *testing.T) {
	input := []RankedCandidate{
		scoredCandidate("c", 70, f(50)),
		scoredCandidate("a", 70, f(50)),
		scoredCandidate("b", 90, nil),
	}
	first := Rank(input)
	second := Rank(first)
	assert.Equal(t, rankedIDs(first), rankedIDs(second))
}

func rankedIDs(ranked []RankedCandidate) []string {
	ids := make([]string, len(ranked))
	for i, c := range ranked {
		ids[i] = c.CandidateID
	}
	return ids
}
