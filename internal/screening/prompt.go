package screening

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildScreeningPrompt creates the evaluation prompt for one resume against
// the job description. Both texts sit between unambiguous delimiters so the
// model cannot confuse one with the other, and the required JSON schema is
// spelled out with ranges and the recommendation enum to maximize parse
// success. Inputs are expected to be normalized and non-empty; the batch
// orchestrator validates them before calling this.
func (pb *PromptBuilder) BuildScreeningPrompt(jobDescription, resume string) string {
	return fmt.Sprintf(`You are an expert recruiter and resume screening specialist. Analyze the following resume against the job description and provide a detailed evaluation.

=== JOB DESCRIPTION START ===
%s
=== JOB DESCRIPTION END ===

=== CANDIDATE RESUME START ===
%s
=== CANDIDATE RESUME END ===

Return your response in the following JSON format:
{
  "overall_score": <number 0-100>,
  "skills_match_score": <number 0-100>,
  "experience_score": <number 0-100>,
  "education_score": <number 0-100>,
  "reasoning": "<detailed explanation of the scores>",
  "strengths": ["<strength 1>", "<strength 2>", ...],
  "weaknesses": ["<weakness 1>", "<weakness 2>", ...],
  "recommendation": "<strong-fit|possible-fit|weak-fit|not-fit>"
}

Evaluation Criteria:
1. Skills Match (0-100): How well do the candidate's skills align with the required and preferred skills?
2. Experience Score (0-100): Does the candidate have relevant experience at the required level?
3. Education Score (0-100): Does the education background fit the role requirements?
4. Overall Score (0-100): Weighted average considering all factors
5. Provide specific strengths and weaknesses
6. Give a clear hiring recommendation using exactly one of the four values above

Be thorough, fair, and objective in your analysis. Return ONLY valid JSON.`,
		jobDescription, resume)
}
