package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/basappa1234/resume-screening-agent/internal/models"
)

type stubScreeningRepo struct {
	sessions map[uuid.UUID]*models.ScreeningSession
	deleted  []uuid.UUID
}

func newStubScreeningRepo(sessions ...*models.ScreeningSession) *stubScreeningRepo {
	byID := make(map[uuid.UUID]*models.ScreeningSession)
	for _, session := range sessions {
		byID[session.ID] = session
	}
	return &stubScreeningRepo{sessions: byID}
}

func (s *stubScreeningRepo) CreateSession(session *models.ScreeningSession, results []models.CandidateResult) error {
	return nil
}

func (s *stubScreeningRepo) FindByID(id uuid.UUID) (*models.ScreeningSession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("screening session not found: %w", gorm.ErrRecordNotFound)
	}
	return session, nil
}

func (s *stubScreeningRepo) FindAll(limit int) ([]models.ScreeningSession, error) {
	var sessions []models.ScreeningSession
	for _, session := range s.sessions {
		sessions = append(sessions, *session)
		if len(sessions) == limit {
			break
		}
	}
	return sessions, nil
}

func (s *stubScreeningRepo) ClaimSession(id uuid.UUID) (bool, error) {
	return false, nil
}

func (s *stubScreeningRepo) UpdateStatus(id uuid.UUID, status models.SessionStatus) error {
	return nil
}

func (s *stubScreeningRepo) UpdateError(id uuid.UUID, errorMsg string) error {
	return nil
}

func (s *stubScreeningRepo) MarkCompleted(id uuid.UUID) error {
	return nil
}

func (s *stubScreeningRepo) SaveResult(result *models.CandidateResult) error {
	return nil
}

func (s *stubScreeningRepo) FindPendingSessions(limit int) ([]models.ScreeningSession, error) {
	return nil, nil
}

func (s *stubScreeningRepo) Delete(id uuid.UUID) error {
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("screening session not found: %w", gorm.ErrRecordNotFound)
	}
	delete(s.sessions, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type stubExportService struct{}

func (s *stubExportService) ExportSession(session *models.ScreeningSession) ([]byte, error) {
	return []byte("workbook"), nil
}

type stubQdrantService struct {
	deletedSessions []string
}

func (s *stubQdrantService) InitCollection() error { return nil }

func (s *stubQdrantService) UpsertResumeChunk(ctx context.Context, sessionID, candidateID string, chunkIndex int, text string, embedding []float32) error {
	return nil
}

func (s *stubQdrantService) SimilarityByCandidate(ctx context.Context, sessionID string, queryEmbedding []float32, limit int) (map[string]float64, error) {
	return nil, nil
}

func (s *stubQdrantService) DeleteSession(ctx context.Context, sessionID string) error {
	s.deletedSessions = append(s.deletedSessions, sessionID)
	return nil
}

func newResultTestApp(repo *stubScreeningRepo, qdrant *stubQdrantService) *fiber.App {
	handler := NewResultHandler(repo, &stubExportService{}, qdrant)

	app := fiber.New()
	app.Get("/api/v1/screenings", handler.HandleListSessions)
	app.Get("/api/v1/screenings/:id", handler.HandleGetResult)
	app.Delete("/api/v1/screenings/:id", handler.HandleDeleteSession)
	return app
}

func TestHandleListSessions(t *testing.T) {
	session := &models.ScreeningSession{
		ID:             uuid.New(),
		JobTitle:       "Backend Engineer",
		Status:         models.SessionCompleted,
		CandidateCount: 3,
		CreatedAt:      time.Now(),
	}
	repo := newStubScreeningRepo(session)
	app := newResultTestApp(repo, &stubQdrantService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/screenings", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload struct {
		Sessions []models.SessionSummary `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.Len(t, payload.Sessions, 1)
	assert.Equal(t, session.ID.String(), payload.Sessions[0].ID)
	assert.Equal(t, "Backend Engineer", payload.Sessions[0].JobTitle)
	assert.Equal(t, "completed", payload.Sessions[0].Status)
	assert.Equal(t, 3, payload.Sessions[0].CandidateCount)
}

func TestHandleDeleteSessionRemovesRowsAndVectors(t *testing.T) {
	session := &models.ScreeningSession{
		ID:     uuid.New(),
		Status: models.SessionCompleted,
	}
	repo := newStubScreeningRepo(session)
	qdrant := &stubQdrantService{}
	app := newResultTestApp(repo, qdrant)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/screenings/"+session.ID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, []uuid.UUID{session.ID}, repo.deleted)
	assert.Equal(t, []string{session.ID.String()}, qdrant.deletedSessions)

	// The session is gone afterwards.
	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/screenings/"+session.ID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleDeleteSessionUnknownID(t *testing.T) {
	repo := newStubScreeningRepo()
	qdrant := &stubQdrantService{}
	app := newResultTestApp(repo, qdrant)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/screenings/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// No vector cleanup for a session that never existed.
	assert.Empty(t, qdrant.deletedSessions)
}

func TestHandleDeleteSessionInvalidID(t *testing.T) {
	app := newResultTestApp(newStubScreeningRepo(), &stubQdrantService{})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/screenings/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
