package screening

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// flexFloat decodes a JSON number that the model may have emitted as a bare
// number or a quoted string. Non-numeric values decode to NaN instead of
// failing the whole verdict.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		*f = flexFloat(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = flexFloat(math.NaN())
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// flexStringList decodes either a JSON array of strings or a single string.
type flexStringList []string

func (l *flexStringList) UnmarshalJSON(b []byte) error {
	var items []string
	if err := json.Unmarshal(b, &items); err == nil {
		*l = items
		return nil
	}
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		if s := strings.TrimSpace(single); s != "" {
			*l = []string{s}
		}
		return nil
	}
	// Tolerate a wrong type here rather than discarding the verdict.
	*l = nil
	return nil
}

// rawVerdict mirrors the JSON schema requested by the prompt builder.
type rawVerdict struct {
	OverallScore     *flexFloat     `json:"overall_score"`
	SkillsMatchScore *flexFloat     `json:"skills_match_score"`
	ExperienceScore  *flexFloat     `json:"experience_score"`
	EducationScore   *flexFloat     `json:"education_score"`
	Reasoning        string         `json:"reasoning"`
	Strengths        flexStringList `json:"strengths"`
	Weaknesses       flexStringList `json:"weaknesses"`
	Recommendation   string         `json:"recommendation"`
}

// ParsedVerdict holds the candidate fields recovered from a gateway
// response, before scoring normalization. Sub-scores stay nil when the
// model omitted them.
type ParsedVerdict struct {
	OverallScore    float64
	SkillsMatch     *float64
	ExperienceMatch *float64
	EducationMatch  *float64
	Reasoning       string
	Strengths       []string
	Weaknesses      []string
	Recommendation  string
}

// ParseResponse extracts a structured verdict from raw gateway text. It
// attempts a strict decode first, then a recovery pass that strips markdown
// fencing and takes the first balanced JSON object in the text. A response
// with no recoverable object, or with a missing or non-numeric overall
// score, yields a *ParseError carrying the raw text; nothing is fabricated.
func ParseResponse(raw string) (*ParsedVerdict, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &ParseError{Reason: "empty response", RawResponse: raw}
	}

	var rv rawVerdict
	if err := json.Unmarshal([]byte(trimmed), &rv); err != nil {
		block, ok := firstJSONObject(stripMarkdownFences(trimmed))
		if !ok {
			return nil, &ParseError{Reason: "no JSON object found in response", RawResponse: raw}
		}
		if err := json.Unmarshal([]byte(block), &rv); err != nil {
			return nil, &ParseError{Reason: "malformed JSON object: " + err.Error(), RawResponse: raw}
		}
	}

	score, ok := floatValue(rv.OverallScore)
	if !ok {
		return nil, &ParseError{Reason: "overall_score missing or non-numeric", RawResponse: raw}
	}

	return &ParsedVerdict{
		OverallScore:    score,
		SkillsMatch:     floatPtr(rv.SkillsMatchScore),
		ExperienceMatch: floatPtr(rv.ExperienceScore),
		EducationMatch:  floatPtr(rv.EducationScore),
		Reasoning:       strings.TrimSpace(rv.Reasoning),
		Strengths:       rv.Strengths,
		Weaknesses:      rv.Weaknesses,
		Recommendation:  rv.Recommendation,
	}, nil
}

// NormalizeVerdict produces the final immutable Verdict from parsed fields:
// scores clamped into [0,100], absent sub-scores kept absent, and the
// recommendation canonicalized to a known tier.
func NormalizeVerdict(rawResponse string, pv *ParsedVerdict) Verdict {
	return Verdict{
		Score:           clampScore(pv.OverallScore),
		SkillsMatch:     clampScorePtr(pv.SkillsMatch),
		ExperienceMatch: clampScorePtr(pv.ExperienceMatch),
		EducationMatch:  clampScorePtr(pv.EducationMatch),
		Strengths:       pv.Strengths,
		Weaknesses:      pv.Weaknesses,
		Reasoning:       pv.Reasoning,
		Recommendation:  CanonicalRecommendation(pv.Recommendation),
		RawResponse:     rawResponse,
		Status:          StatusScored,
	}
}

func floatValue(f *flexFloat) (float64, bool) {
	if f == nil || math.IsNaN(float64(*f)) {
		return 0, false
	}
	return float64(*f), true
}

func floatPtr(f *flexFloat) *float64 {
	v, ok := floatValue(f)
	if !ok {
		return nil
	}
	return &v
}

// stripMarkdownFences removes ```json / ``` markers the model may wrap its
// output in.
func stripMarkdownFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	return strings.ReplaceAll(text, "```", "")
}

// firstJSONObject returns the first balanced top-level JSON object in text,
// tracking string and escape state so braces inside strings do not
// terminate the scan.
func firstJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
