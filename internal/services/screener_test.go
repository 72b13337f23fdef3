package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basappa1234/resume-screening-agent/internal/models"
)

type fakeScreeningRepo struct {
	mu            sync.Mutex
	session       *models.ScreeningSession
	statuses      []models.SessionStatus
	errorMsg      string
	saved         map[string]models.CandidateResult
	claimAttempts int
}

func newFakeScreeningRepo(session *models.ScreeningSession) *fakeScreeningRepo {
	return &fakeScreeningRepo{
		session: session,
		saved:   make(map[string]models.CandidateResult),
	}
}

func (f *fakeScreeningRepo) CreateSession(session *models.ScreeningSession, results []models.CandidateResult) error {
	return nil
}

func (f *fakeScreeningRepo) FindByID(id uuid.UUID) (*models.ScreeningSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil || f.session.ID != id {
		return nil, fmt.Errorf("screening session not found")
	}
	return f.session, nil
}

func (f *fakeScreeningRepo) UpdateStatus(id uuid.UUID, status models.SessionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, status)
	f.session.Status = status
	return nil
}

func (f *fakeScreeningRepo) UpdateError(id uuid.UUID, errorMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, models.SessionFailed)
	f.session.Status = models.SessionFailed
	f.errorMsg = errorMsg
	return nil
}

func (f *fakeScreeningRepo) MarkCompleted(id uuid.UUID) error {
	return f.UpdateStatus(id, models.SessionCompleted)
}

func (f *fakeScreeningRepo) SaveResult(result *models.CandidateResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[result.CandidateID] = *result
	return nil
}

func (f *fakeScreeningRepo) FindPendingSessions(limit int) ([]models.ScreeningSession, error) {
	return nil, nil
}

func (f *fakeScreeningRepo) FindAll(limit int) ([]models.ScreeningSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return nil, nil
	}
	return []models.ScreeningSession{*f.session}, nil
}

func (f *fakeScreeningRepo) ClaimSession(id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claimAttempts++
	if f.session == nil || f.session.ID != id || f.session.Status != models.SessionQueued {
		return false, nil
	}
	f.session.Status = models.SessionProcessing
	f.statuses = append(f.statuses, models.SessionProcessing)
	return true, nil
}

func (f *fakeScreeningRepo) Delete(id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil || f.session.ID != id {
		return fmt.Errorf("screening session not found")
	}
	f.session = nil
	return nil
}

type fakeDocRepo struct {
	docs map[uuid.UUID]models.Document
}

func (f *fakeDocRepo) Create(document *models.Document) error {
	f.docs[document.ID] = *document
	return nil
}

func (f *fakeDocRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, fmt.Errorf("document not found")
	}
	return &doc, nil
}

func (f *fakeDocRepo) FindByIDs(ids []uuid.UUID) (map[uuid.UUID]models.Document, error) {
	byID := make(map[uuid.UUID]models.Document)
	for _, id := range ids {
		if doc, ok := f.docs[id]; ok {
			byID[id] = doc
		}
	}
	return byID, nil
}

// stubGemini scores each resume by a marker planted in its text.
type stubGemini struct {
	scores map[string]float64
}

func (s *stubGemini) Evaluate(ctx context.Context, prompt string) (string, error) {
	for marker, score := range s.scores {
		if strings.Contains(prompt, marker) {
			return fmt.Sprintf(`{"overall_score": %.1f, "reasoning": "stubbed", "strengths": [], "weaknesses": [], "recommendation": "possible-fit"}`, score), nil
		}
	}
	return "", fmt.Errorf("no marker matched")
}

func (s *stubGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("embeddings disabled in tests")
}

func writeResume(t *testing.T, dir, name, marker string) models.Document {
	t.Helper()
	path := filepath.Join(dir, name+".txt")
	content := fmt.Sprintf("%s\nExperienced engineer.\nMarker: %s\n", name, marker)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return models.Document{
		ID:               uuid.New(),
		Filename:         name + ".txt",
		OriginalFileName: name + ".txt",
		FileType:         models.DocumentTypeResume,
		FilePath:         path,
	}
}

func TestScreenSessionRanksAndPersists(t *testing.T) {
	dir := t.TempDir()

	jdPath := filepath.Join(dir, "jd.txt")
	require.NoError(t, os.WriteFile(jdPath, []byte("Backend engineer role. Go required."), 0644))
	jdDoc := models.Document{
		ID:       uuid.New(),
		FileType: models.DocumentTypeJobDescription,
		FilePath: jdPath,
	}

	aliceDoc := writeResume(t, dir, "alice", "MARKER-ALICE")
	bobDoc := writeResume(t, dir, "bob", "MARKER-BOB")
	missingDoc := models.Document{
		ID:       uuid.New(),
		FileType: models.DocumentTypeResume,
		FilePath: filepath.Join(dir, "does-not-exist.txt"),
	}

	docRepo := &fakeDocRepo{docs: map[uuid.UUID]models.Document{
		jdDoc.ID:      jdDoc,
		aliceDoc.ID:   aliceDoc,
		bobDoc.ID:     bobDoc,
		missingDoc.ID: missingDoc,
	}}

	session := &models.ScreeningSession{
		ID:                  uuid.New(),
		JobTitle:            "Backend Engineer",
		JobDescriptionDocID: jdDoc.ID,
		Status:              models.SessionQueued,
		CandidateCount:      3,
		Results: []models.CandidateResult{
			{ID: uuid.New(), DocumentID: aliceDoc.ID, CandidateID: "alice", Status: "pending"},
			{ID: uuid.New(), DocumentID: bobDoc.ID, CandidateID: "bob", Status: "pending"},
			{ID: uuid.New(), DocumentID: missingDoc.ID, CandidateID: "carol", Status: "pending"},
		},
	}
	screeningRepo := newFakeScreeningRepo(session)

	gemini := &stubGemini{scores: map[string]float64{
		"MARKER-ALICE": 62,
		"MARKER-BOB":   91,
	}}

	svc := NewScreenerService(screeningRepo, docRepo, gemini, nil, NewFileParserService(), 2, 0)

	err := svc.ScreenSession(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, models.SessionCompleted, session.Status)

	bob := screeningRepo.saved["bob"]
	require.NotNil(t, bob.Rank)
	assert.Equal(t, 1, *bob.Rank)
	require.NotNil(t, bob.Score)
	assert.Equal(t, 91.0, *bob.Score)
	assert.Equal(t, "scored", bob.Status)

	alice := screeningRepo.saved["alice"]
	require.NotNil(t, alice.Rank)
	assert.Equal(t, 2, *alice.Rank)

	carol := screeningRepo.saved["carol"]
	assert.Equal(t, "unreadable", carol.Status)
	require.NotNil(t, carol.FailReason)
	assert.Nil(t, carol.Rank)
}

func TestScreenSessionGatewayFailureSettlesCandidate(t *testing.T) {
	dir := t.TempDir()

	jdPath := filepath.Join(dir, "jd.txt")
	require.NoError(t, os.WriteFile(jdPath, []byte("Platform engineer role."), 0644))
	jdDoc := models.Document{ID: uuid.New(), FilePath: jdPath}

	resumeDoc := writeResume(t, dir, "dave", "MARKER-DAVE")

	docRepo := &fakeDocRepo{docs: map[uuid.UUID]models.Document{
		jdDoc.ID:     jdDoc,
		resumeDoc.ID: resumeDoc,
	}}

	session := &models.ScreeningSession{
		ID:                  uuid.New(),
		JobDescriptionDocID: jdDoc.ID,
		Status:              models.SessionQueued,
		CandidateCount:      1,
		Results: []models.CandidateResult{
			{ID: uuid.New(), DocumentID: resumeDoc.ID, CandidateID: "dave", Status: "pending"},
		},
	}
	screeningRepo := newFakeScreeningRepo(session)

	// No marker registered: every Evaluate call fails.
	gemini := &stubGemini{scores: map[string]float64{}}

	svc := NewScreenerService(screeningRepo, docRepo, gemini, nil, NewFileParserService(), 1, 0)

	err := svc.ScreenSession(context.Background(), session.ID)
	require.NoError(t, err)

	// The session itself completes; the candidate settles as failed.
	assert.Equal(t, models.SessionCompleted, session.Status)
	dave := screeningRepo.saved["dave"]
	assert.Equal(t, "gateway-failed", dave.Status)
	require.NotNil(t, dave.FailReason)
}

func TestScreenSessionMissingJobDescriptionFailsSession(t *testing.T) {
	session := &models.ScreeningSession{
		ID:                  uuid.New(),
		JobDescriptionDocID: uuid.New(),
		Status:              models.SessionQueued,
	}
	screeningRepo := newFakeScreeningRepo(session)
	docRepo := &fakeDocRepo{docs: map[uuid.UUID]models.Document{}}

	svc := NewScreenerService(screeningRepo, docRepo, &stubGemini{}, nil, NewFileParserService(), 1, 0)

	err := svc.ScreenSession(context.Background(), session.ID)

	require.Error(t, err)
	assert.Equal(t, models.SessionFailed, session.Status)
	assert.NotEmpty(t, screeningRepo.errorMsg)
}
