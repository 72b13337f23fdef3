package screening

import "strings"

type Status string

const (
	StatusScored        Status = "scored"
	StatusParseFailed   Status = "parse-failed"
	StatusGatewayFailed Status = "gateway-failed"
)

type Recommendation string

const (
	RecommendationStrongFit   Recommendation = "strong-fit"
	RecommendationPossibleFit Recommendation = "possible-fit"
	RecommendationWeakFit     Recommendation = "weak-fit"
	RecommendationNotFit      Recommendation = "not-fit"
)

// Verdict is the structured screening result for one candidate against one
// job description. It is assembled once by the scoring pipeline and never
// mutated afterwards.
type Verdict struct {
	Score           float64        `json:"score"`
	SkillsMatch     *float64       `json:"skills_match,omitempty"`
	ExperienceMatch *float64       `json:"experience_match,omitempty"`
	EducationMatch  *float64       `json:"education_match,omitempty"`
	Strengths       []string       `json:"strengths"`
	Weaknesses      []string       `json:"weaknesses"`
	Reasoning       string         `json:"reasoning,omitempty"`
	Recommendation  Recommendation `json:"recommendation"`
	RawResponse     string         `json:"raw_response,omitempty"`
	Status          Status         `json:"status"`
}

// CandidateResume pairs a batch-unique candidate identifier with the
// extracted resume text.
type CandidateResume struct {
	CandidateID string
	Text        string
}

type RankedCandidate struct {
	CandidateID string  `json:"candidate_id"`
	Verdict     Verdict `json:"verdict"`
}

// FailedCandidate records a candidate that could not be scored, with the
// failure status and reason. RawResponse keeps the gateway output (if any)
// for diagnosis.
type FailedCandidate struct {
	CandidateID string `json:"candidate_id"`
	Status      Status `json:"status"`
	Reason      string `json:"reason"`
	RawResponse string `json:"raw_response,omitempty"`
}

// RankedBatch is the final output of one screening run: the ranked scored
// candidates plus every candidate that failed. Each submitted candidate
// appears in exactly one of the two sets.
type RankedBatch struct {
	Ranked []RankedCandidate `json:"ranked"`
	Failed []FailedCandidate `json:"failed"`
}

// clampScore forces a model-reported score into [0, 100]. The model
// occasionally reports values outside the requested range, so out-of-range
// values are clamped rather than rejected.
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampScorePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	clamped := clampScore(*v)
	return &clamped
}

// recommendationAliases maps the legacy enum used by earlier prompt
// revisions onto the canonical tiers.
var recommendationAliases = map[string]Recommendation{
	"strong-fit":         RecommendationStrongFit,
	"highly-recommended": RecommendationStrongFit,
	"possible-fit":       RecommendationPossibleFit,
	"recommended":        RecommendationPossibleFit,
	"weak-fit":           RecommendationWeakFit,
	"maybe":              RecommendationWeakFit,
	"not-fit":            RecommendationNotFit,
	"no-fit":             RecommendationNotFit,
	"not-recommended":    RecommendationNotFit,
}

// CanonicalRecommendation resolves free-form recommendation text to one of
// the known tiers, case-insensitively. Text matching no tier falls back to
// possible-fit.
func CanonicalRecommendation(raw string) Recommendation {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "_", "-")
	key = strings.ReplaceAll(key, " ", "-")
	if tier, ok := recommendationAliases[key]; ok {
		return tier
	}
	return RecommendationPossibleFit
}
