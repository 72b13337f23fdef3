package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/basappa1234/resume-screening-agent/internal/models"
	"github.com/basappa1234/resume-screening-agent/internal/repositories"
	"github.com/basappa1234/resume-screening-agent/internal/services"
)

type ResultHandler struct {
	screeningRepo repositories.ScreeningRepository
	exportService services.ExportService
	qdrantService services.QdrantService
}

func NewResultHandler(
	screeningRepo repositories.ScreeningRepository,
	exportService services.ExportService,
	qdrantService services.QdrantService,
) *ResultHandler {
	return &ResultHandler{
		screeningRepo: screeningRepo,
		exportService: exportService,
		qdrantService: qdrantService,
	}
}

// HandleListSessions handles GET /screenings
func (h *ResultHandler) HandleListSessions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	sessions, err := h.screeningRepo.FindAll(limit)
	if err != nil {
		log.Printf("❌ Failed to list screening sessions: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list screening sessions",
		})
	}

	summaries := make([]models.SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, models.SessionSummary{
			ID:             session.ID.String(),
			JobTitle:       session.JobTitle,
			Status:         string(session.Status),
			CandidateCount: session.CandidateCount,
			CreatedAt:      session.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"sessions": summaries,
	})
}

// HandleDeleteSession handles DELETE /screenings/:id
func (h *ResultHandler) HandleDeleteSession(c *fiber.Ctx) error {
	idParam := c.Params("id")
	sessionID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid screening session ID format",
		})
	}

	if err := h.screeningRepo.Delete(sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Screening session not found",
			})
		}
		log.Printf("❌ Failed to delete screening session %s: %v\n", sessionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete screening session",
		})
	}

	// Vector cleanup is best effort: the rows are already gone and a
	// stale chunk set only wastes space in the collection.
	if h.qdrantService != nil {
		if err := h.qdrantService.DeleteSession(c.Context(), sessionID.String()); err != nil {
			log.Printf("⚠️  Failed to delete vectors for session %s: %v\n", sessionID, err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Screening session deleted",
	})
}

// HandleGetResult handles GET /screenings/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	session, status := h.loadSession(c)
	if session == nil {
		return status
	}

	// Build response based on status
	response := models.SessionResultResponse{
		ID:       session.ID.String(),
		JobTitle: session.JobTitle,
		Status:   string(session.Status),
	}

	// If completed, include the ranked and failed candidate sets
	if session.Status == models.SessionCompleted {
		for _, result := range session.Results {
			if result.Status == "scored" && result.Rank != nil && result.Score != nil {
				data := models.RankedCandidateData{
					Rank:            *result.Rank,
					CandidateID:     result.CandidateID,
					Score:           *result.Score,
					SkillsMatch:     result.SkillsMatch,
					ExperienceMatch: result.ExperienceMatch,
					EducationMatch:  result.EducationMatch,
					Strengths:       result.Strengths(),
					Weaknesses:      result.Weaknesses(),
					Similarity:      result.Similarity,
				}
				if result.Reasoning != nil {
					data.Reasoning = *result.Reasoning
				}
				if result.Recommendation != nil {
					data.Recommendation = *result.Recommendation
				}
				response.Ranked = append(response.Ranked, data)
				continue
			}

			failed := models.FailedCandidateData{
				CandidateID: result.CandidateID,
				Status:      result.Status,
			}
			if result.FailReason != nil {
				failed.Reason = *result.FailReason
			}
			response.Failed = append(response.Failed, failed)
		}
	}

	// If failed, include error message
	if session.Status == models.SessionFailed {
		response.ErrorMessage = session.ErrorMessage
	}

	return c.JSON(response)
}

// HandleExport handles GET /screenings/:id/export
func (h *ResultHandler) HandleExport(c *fiber.Ctx) error {
	session, status := h.loadSession(c)
	if session == nil {
		return status
	}

	workbook, err := h.exportService.ExportSession(session)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	filename := fmt.Sprintf("screening_%s.xlsx", session.ID)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(workbook)
}

func (h *ResultHandler) loadSession(c *fiber.Ctx) (*models.ScreeningSession, error) {
	idParam := c.Params("id")
	sessionID, err := uuid.Parse(idParam)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid screening session ID format",
		})
	}

	session, err := h.screeningRepo.FindByID(sessionID)
	if err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Screening session not found",
		})
	}

	return session, nil
}
