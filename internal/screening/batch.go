package screening

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
)

const defaultConcurrency = 2

// Screener drives the per-candidate scoring pipeline across a batch of
// resumes and ranks the outcome. The gateway handle is injected so tests
// can substitute a deterministic stub.
type Screener struct {
	gateway      Gateway
	prompts      *PromptBuilder
	concurrency  int
	maxTextRunes int
}

type ScreenerOption func(*Screener)

// WithConcurrency bounds how many candidate pipelines run at once.
func WithConcurrency(n int) ScreenerOption {
	return func(s *Screener) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithMaxTextRunes bounds how much of each document is embedded in a
// prompt.
func WithMaxTextRunes(n int) ScreenerOption {
	return func(s *Screener) {
		if n > 0 {
			s.maxTextRunes = n
		}
	}
}

func NewScreener(gateway Gateway, opts ...ScreenerOption) *Screener {
	s := &Screener{
		gateway:      gateway,
		prompts:      NewPromptBuilder(),
		concurrency:  defaultConcurrency,
		maxTextRunes: DefaultMaxTextRunes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// candidateOutcome is the settled result of one pipeline. Exactly one is
// produced per submitted candidate, written to its own slot.
type candidateOutcome struct {
	candidateID string
	verdict     Verdict
	failed      *FailedCandidate
}

// RunBatch screens every resume against the job description and returns the
// ranked batch. Input validation failures (empty texts, duplicate ids)
// abort the run before any gateway call; per-candidate gateway and parse
// failures are recorded in the failure set without affecting the rest of
// the batch.
func (s *Screener) RunBatch(ctx context.Context, jobDescription string, resumes []CandidateResume) (*RankedBatch, error) {
	jd := TruncateRunes(NormalizeText(jobDescription), s.maxTextRunes)
	if jd == "" {
		return nil, &InputValidationError{Reason: "job description is empty"}
	}

	texts := make([]string, len(resumes))
	seen := make(map[string]struct{}, len(resumes))
	for i, resume := range resumes {
		if strings.TrimSpace(resume.CandidateID) == "" {
			return nil, &InputValidationError{Reason: fmt.Sprintf("resume #%d has an empty candidate id", i+1)}
		}
		if _, dup := seen[resume.CandidateID]; dup {
			return nil, &InputValidationError{Reason: fmt.Sprintf("duplicate candidate id %q", resume.CandidateID)}
		}
		seen[resume.CandidateID] = struct{}{}

		text := TruncateRunes(NormalizeText(resume.Text), s.maxTextRunes)
		if text == "" {
			return nil, &InputValidationError{Reason: fmt.Sprintf("resume text for candidate %q is empty", resume.CandidateID)}
		}
		texts[i] = text
	}

	log.Printf("🔎 Screening %d resumes against the job description\n", len(resumes))

	// Each pipeline settles into its own slot, so the final association
	// between candidate and outcome never depends on completion order.
	outcomes := make([]candidateOutcome, len(resumes))

	workers := s.concurrency
	if workers > len(resumes) {
		workers = len(resumes)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = s.screenOne(ctx, jd, resumes[i].CandidateID, texts[i])
			}
		}()
	}
	for i := range resumes {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	batch := &RankedBatch{}
	var scored []RankedCandidate
	for _, outcome := range outcomes {
		if outcome.failed != nil {
			batch.Failed = append(batch.Failed, *outcome.failed)
			continue
		}
		scored = append(scored, RankedCandidate{
			CandidateID: outcome.candidateID,
			Verdict:     outcome.verdict,
		})
	}

	batch.Ranked = Rank(scored)
	sort.Slice(batch.Failed, func(i, j int) bool {
		return batch.Failed[i].CandidateID < batch.Failed[j].CandidateID
	})

	log.Printf("✅ Screening complete: %d ranked, %d failed\n", len(batch.Ranked), len(batch.Failed))
	return batch, nil
}

// screenOne runs the prompt → gateway → parse → normalize pipeline for a
// single candidate. It never returns an error: every failure settles into
// the outcome so one candidate cannot abort the batch.
func (s *Screener) screenOne(ctx context.Context, jobDescription, candidateID, resumeText string) candidateOutcome {
	if err := ctx.Err(); err != nil {
		return gatewayFailure(candidateID, NewGatewayError(GatewayTimeout, fmt.Errorf("batch cancelled: %w", err)))
	}

	prompt := s.prompts.BuildScreeningPrompt(jobDescription, resumeText)

	raw, err := s.gateway.Evaluate(ctx, prompt)
	if err != nil {
		var gwErr *GatewayError
		if !errors.As(err, &gwErr) {
			gwErr = NewGatewayError(GatewayUnknown, err)
		}
		log.Printf("❌ Gateway failure for %s: %v\n", candidateID, gwErr)
		return gatewayFailure(candidateID, gwErr)
	}

	parsed, err := ParseResponse(raw)
	if err != nil {
		log.Printf("❌ Unparsable response for %s: %v\n", candidateID, err)
		return candidateOutcome{
			candidateID: candidateID,
			failed: &FailedCandidate{
				CandidateID: candidateID,
				Status:      StatusParseFailed,
				Reason:      err.Error(),
				RawResponse: raw,
			},
		}
	}

	verdict := NormalizeVerdict(raw, parsed)
	log.Printf("📊 Scored %s: %.1f (%s)\n", candidateID, verdict.Score, verdict.Recommendation)
	return candidateOutcome{candidateID: candidateID, verdict: verdict}
}

func gatewayFailure(candidateID string, err *GatewayError) candidateOutcome {
	return candidateOutcome{
		candidateID: candidateID,
		failed: &FailedCandidate{
			CandidateID: candidateID,
			Status:      StatusGatewayFailed,
			Reason:      err.Error(),
		},
	}
}
