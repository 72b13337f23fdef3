package handlers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/basappa1234/resume-screening-agent/internal/models"
	"github.com/basappa1234/resume-screening-agent/internal/repositories"
	"github.com/basappa1234/resume-screening-agent/internal/services"
)

type ScreenHandler struct {
	screeningRepo repositories.ScreeningRepository
	docRepo       repositories.DocumentRepository
	worker        services.Worker
}

func NewScreenHandler(
	screeningRepo repositories.ScreeningRepository,
	docRepo repositories.DocumentRepository,
	worker services.Worker,
) *ScreenHandler {
	return &ScreenHandler{
		screeningRepo: screeningRepo,
		docRepo:       docRepo,
		worker:        worker,
	}
}

// HandleScreen handles POST /screenings
func (h *ScreenHandler) HandleScreen(c *fiber.Ctx) error {
	var req models.ScreenRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.JobDescriptionDocumentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description_document_id is required",
		})
	}

	if len(req.ResumeDocumentIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume_document_ids must contain at least one document",
		})
	}

	// Parse UUIDs
	jdDocID, err := uuid.Parse(req.JobDescriptionDocumentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job_description_document_id format",
		})
	}

	resumeDocIDs := make([]uuid.UUID, 0, len(req.ResumeDocumentIDs))
	seen := make(map[uuid.UUID]bool, len(req.ResumeDocumentIDs))
	for _, raw := range req.ResumeDocumentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Invalid resume document id: %s", raw),
			})
		}
		if seen[id] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Duplicate resume document id: %s", raw),
			})
		}
		seen[id] = true
		resumeDocIDs = append(resumeDocIDs, id)
	}

	// Verify documents exist
	if _, err := h.docRepo.FindByID(jdDocID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job description document not found",
		})
	}

	resumeDocs, err := h.docRepo.FindByIDs(resumeDocIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to look up resume documents",
		})
	}
	for _, id := range resumeDocIDs {
		if _, ok := resumeDocs[id]; !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": fmt.Sprintf("Resume document not found: %s", id),
			})
		}
	}

	// Create session with one pending result row per candidate. Candidate
	// ids come from original filenames, disambiguated on collision.
	session := &models.ScreeningSession{
		ID:                  uuid.New(),
		JobTitle:            req.JobTitle,
		JobDescriptionDocID: jdDocID,
		Status:              models.SessionQueued,
		CandidateCount:      len(resumeDocIDs),
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}

	results := make([]models.CandidateResult, 0, len(resumeDocIDs))
	usedNames := make(map[string]int, len(resumeDocIDs))
	for _, id := range resumeDocIDs {
		doc := resumeDocs[id]
		results = append(results, models.CandidateResult{
			ID:          uuid.New(),
			DocumentID:  id,
			CandidateID: candidateIDFromFilename(doc.OriginalFileName, usedNames),
			Status:      "pending",
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		})
	}

	if err := h.screeningRepo.CreateSession(session, results); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create screening session",
		})
	}

	// Enqueue session to worker
	h.worker.EnqueueSession(session.ID)

	// Return session ID immediately
	return c.Status(fiber.StatusAccepted).JSON(models.ScreenResponse{
		ID:     session.ID.String(),
		Status: string(models.SessionQueued),
	})
}

// candidateIDFromFilename derives a stable candidate id from the uploaded
// filename, appending a numeric suffix when two uploads share a name.
func candidateIDFromFilename(filename string, used map[string]int) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	base = strings.TrimSpace(base)
	if base == "" {
		base = "candidate"
	}

	used[base]++
	if used[base] == 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, used[base])
}
