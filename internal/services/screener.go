package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/basappa1234/resume-screening-agent/internal/models"
	"github.com/basappa1234/resume-screening-agent/internal/repositories"
	"github.com/basappa1234/resume-screening-agent/internal/screening"
)

const (
	chunkSizeRunes    = 1000
	chunkOverlapRunes = 100
	similarityLimit   = 200
)

type ScreenerService interface {
	ScreenSession(ctx context.Context, sessionID uuid.UUID) error
}

type screenerService struct {
	screeningRepo repositories.ScreeningRepository
	docRepo       repositories.DocumentRepository
	geminiService GeminiService
	qdrantService QdrantService
	fileParser    FileParserService
	chunker       TextChunker
	engine        *screening.Screener
}

// NewScreenerService wires the screening engine to storage, parsing, and the
// Gemini gateway. qdrantService may be nil when similarity enrichment is
// disabled.
func NewScreenerService(
	screeningRepo repositories.ScreeningRepository,
	docRepo repositories.DocumentRepository,
	geminiService GeminiService,
	qdrantService QdrantService,
	fileParser FileParserService,
	concurrency int,
	maxPromptChars int,
) ScreenerService {
	return &screenerService{
		screeningRepo: screeningRepo,
		docRepo:       docRepo,
		geminiService: geminiService,
		qdrantService: qdrantService,
		fileParser:    fileParser,
		chunker:       NewTextChunker(),
		engine: screening.NewScreener(
			geminiService,
			screening.WithConcurrency(concurrency),
			screening.WithMaxTextRunes(maxPromptChars),
		),
	}
}

// ScreenSession runs one full screening session: extract the job description
// and every resume, score the batch through the LLM engine, and persist the
// ranked results.
func (s *screenerService) ScreenSession(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.screeningRepo.UpdateStatus(sessionID, models.SessionProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	log.Printf("🔄 Starting screening session: %s\n", sessionID)

	session, err := s.screeningRepo.FindByID(sessionID)
	if err != nil {
		s.screeningRepo.UpdateError(sessionID, err.Error())
		return fmt.Errorf("failed to load session: %w", err)
	}

	// Job description text
	jdDoc, err := s.docRepo.FindByID(session.JobDescriptionDocID)
	if err != nil {
		s.screeningRepo.UpdateError(sessionID, fmt.Sprintf("job description document not found: %v", err))
		return fmt.Errorf("failed to load job description document: %w", err)
	}

	log.Println("📄 Extracting job description text...")
	jdText, err := s.fileParser.ExtractText(jdDoc.FilePath)
	if err != nil {
		s.screeningRepo.UpdateError(sessionID, fmt.Sprintf("failed to parse job description: %v", err))
		return fmt.Errorf("failed to parse job description: %w", err)
	}

	// Resume texts. A candidate whose file cannot be parsed is settled as
	// failed right here so the rest of the batch still runs.
	log.Printf("📄 Extracting %d resumes...\n", len(session.Results))
	resumes := make([]screening.CandidateResume, 0, len(session.Results))
	rowByCandidate := make(map[string]*models.CandidateResult, len(session.Results))
	for i := range session.Results {
		row := &session.Results[i]
		rowByCandidate[row.CandidateID] = row

		doc, err := s.docRepo.FindByID(row.DocumentID)
		if err != nil {
			s.failCandidate(row, fmt.Sprintf("resume document not found: %v", err))
			continue
		}

		text, err := s.fileParser.ExtractText(doc.FilePath)
		if err != nil {
			log.Printf("⚠️  Failed to parse resume for candidate %q: %v\n", row.CandidateID, err)
			s.failCandidate(row, fmt.Sprintf("failed to extract resume text: %v", err))
			continue
		}

		resumes = append(resumes, screening.CandidateResume{
			CandidateID: row.CandidateID,
			Text:        text,
		})
	}

	if len(resumes) == 0 {
		s.screeningRepo.UpdateError(sessionID, "no readable resumes in session")
		return fmt.Errorf("no readable resumes in session %s", sessionID)
	}

	// Best-effort similarity enrichment against the job description.
	similarities := s.computeSimilarities(ctx, sessionID.String(), jdText, resumes)

	log.Println("🤖 Scoring batch with LLM...")
	batch, err := s.engine.RunBatch(ctx, jdText, resumes)
	if err != nil {
		var invalid *screening.InputValidationError
		if errors.As(err, &invalid) {
			s.screeningRepo.UpdateError(sessionID, invalid.Error())
			return fmt.Errorf("invalid screening input: %w", err)
		}
		s.screeningRepo.UpdateError(sessionID, err.Error())
		return fmt.Errorf("screening batch failed: %w", err)
	}

	log.Println("💾 Saving screening results...")
	for i, ranked := range batch.Ranked {
		row, ok := rowByCandidate[ranked.CandidateID]
		if !ok {
			continue
		}
		rank := i + 1
		verdict := ranked.Verdict

		row.Status = "scored"
		row.Rank = &rank
		row.Score = &verdict.Score
		row.SkillsMatch = verdict.SkillsMatch
		row.ExperienceMatch = verdict.ExperienceMatch
		row.EducationMatch = verdict.EducationMatch
		row.StrengthsJSON = models.EncodeStringList(verdict.Strengths)
		row.WeaknessesJSON = models.EncodeStringList(verdict.Weaknesses)
		reasoning := verdict.Reasoning
		row.Reasoning = &reasoning
		recommendation := string(verdict.Recommendation)
		row.Recommendation = &recommendation
		raw := verdict.RawResponse
		row.RawResponse = &raw
		row.FailReason = nil
		if sim, ok := similarities[ranked.CandidateID]; ok {
			simCopy := sim
			row.Similarity = &simCopy
		}

		if err := s.screeningRepo.SaveResult(row); err != nil {
			return fmt.Errorf("failed to save result for candidate %q: %w", ranked.CandidateID, err)
		}
	}

	for _, failed := range batch.Failed {
		row, ok := rowByCandidate[failed.CandidateID]
		if !ok {
			continue
		}
		row.Status = string(failed.Status)
		reason := failed.Reason
		row.FailReason = &reason
		if failed.RawResponse != "" {
			raw := failed.RawResponse
			row.RawResponse = &raw
		}
		if err := s.screeningRepo.SaveResult(row); err != nil {
			return fmt.Errorf("failed to save failure for candidate %q: %w", failed.CandidateID, err)
		}
	}

	if err := s.screeningRepo.MarkCompleted(sessionID); err != nil {
		return fmt.Errorf("failed to mark session completed: %w", err)
	}

	log.Printf("✅ Screening session completed: %s (%d ranked, %d failed)\n",
		sessionID, len(batch.Ranked), len(batch.Failed))
	return nil
}

// failCandidate settles a candidate row outside the engine (unreadable file,
// missing document). Save errors are logged, not fatal.
func (s *screenerService) failCandidate(row *models.CandidateResult, reason string) {
	row.Status = "unreadable"
	row.FailReason = &reason
	if err := s.screeningRepo.SaveResult(row); err != nil {
		log.Printf("⚠️  Failed to save failure for candidate %q: %v\n", row.CandidateID, err)
	}
}

// computeSimilarities indexes resume chunks and queries them against the job
// description embedding. Every failure degrades to "no similarity" so the
// screening run itself is never blocked by the vector store.
func (s *screenerService) computeSimilarities(ctx context.Context, sessionID, jdText string, resumes []screening.CandidateResume) map[string]float64 {
	if s.qdrantService == nil {
		return nil
	}

	log.Println("🔍 Indexing resumes for similarity scoring...")

	jdEmbedding, err := s.geminiService.GenerateEmbedding(ctx, jdText)
	if err != nil {
		log.Printf("⚠️  Warning: failed to embed job description: %v\n", err)
		return nil
	}

	indexed := false
	for _, resume := range resumes {
		chunks := s.chunker.ChunkText(resume.Text, chunkSizeRunes, chunkOverlapRunes)
		for i, chunk := range chunks {
			embedding, err := s.geminiService.GenerateEmbedding(ctx, chunk)
			if err != nil {
				log.Printf("⚠️  Warning: failed to embed chunk for candidate %q: %v\n", resume.CandidateID, err)
				continue
			}
			if err := s.qdrantService.UpsertResumeChunk(ctx, sessionID, resume.CandidateID, i, chunk, embedding); err != nil {
				log.Printf("⚠️  Warning: failed to index chunk for candidate %q: %v\n", resume.CandidateID, err)
				continue
			}
			indexed = true
		}
	}
	if !indexed {
		return nil
	}

	similarities, err := s.qdrantService.SimilarityByCandidate(ctx, sessionID, jdEmbedding, similarityLimit)
	if err != nil {
		log.Printf("⚠️  Warning: similarity query failed: %v\n", err)
		return nil
	}

	return similarities
}
