package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/basappa1234/resume-screening-agent/internal/models"
)

type ScreeningRepository interface {
	CreateSession(session *models.ScreeningSession, results []models.CandidateResult) error
	FindByID(id uuid.UUID) (*models.ScreeningSession, error)
	FindAll(limit int) ([]models.ScreeningSession, error)
	ClaimSession(id uuid.UUID) (bool, error)
	UpdateStatus(id uuid.UUID, status models.SessionStatus) error
	UpdateError(id uuid.UUID, errorMsg string) error
	MarkCompleted(id uuid.UUID) error
	SaveResult(result *models.CandidateResult) error
	FindPendingSessions(limit int) ([]models.ScreeningSession, error)
	Delete(id uuid.UUID) error
}

type screeningRepository struct {
	db *gorm.DB
}

func NewScreeningRepository(db *gorm.DB) ScreeningRepository {
	return &screeningRepository{db: db}
}

// CreateSession inserts the session together with one pending result row
// per candidate, in a single transaction so a half-created session can
// never be picked up by the worker.
func (r *screeningRepository) CreateSession(session *models.ScreeningSession, results []models.CandidateResult) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		for i := range results {
			results[i].SessionID = session.ID
		}
		return tx.Create(&results).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create screening session: %w", err)
	}
	return nil
}

func (r *screeningRepository) FindByID(id uuid.UUID) (*models.ScreeningSession, error) {
	var session models.ScreeningSession
	err := r.db.
		Preload("Results", func(db *gorm.DB) *gorm.DB {
			return db.Order("rank ASC NULLS LAST, candidate_id ASC")
		}).
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("screening session not found")
		}
		return nil, fmt.Errorf("failed to find screening session: %w", err)
	}
	return &session, nil
}

// FindAll lists sessions newest first, without their result rows.
func (r *screeningRepository) FindAll(limit int) ([]models.ScreeningSession, error) {
	var sessions []models.ScreeningSession
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list screening sessions: %w", err)
	}
	return sessions, nil
}

// ClaimSession atomically moves a session from queued to processing.
// It reports false when another worker already claimed it, so a session
// enqueued twice (handler plus poller) is screened exactly once.
func (r *screeningRepository) ClaimSession(id uuid.UUID) (bool, error) {
	result := r.db.Model(&models.ScreeningSession{}).
		Where("id = ? AND status = ?", id, models.SessionQueued).
		Updates(map[string]interface{}{
			"status":     models.SessionProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim session: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *screeningRepository) UpdateStatus(id uuid.UUID, status models.SessionStatus) error {
	result := r.db.Model(&models.ScreeningSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("screening session not found")
	}
	return nil
}

func (r *screeningRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.ScreeningSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.SessionFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("screening session not found")
	}
	return nil
}

func (r *screeningRepository) MarkCompleted(id uuid.UUID) error {
	return r.UpdateStatus(id, models.SessionCompleted)
}

// SaveResult writes back the settled verdict fields for one candidate row.
func (r *screeningRepository) SaveResult(res *models.CandidateResult) error {
	result := r.db.Model(&models.CandidateResult{}).
		Where("id = ?", res.ID).
		Updates(map[string]interface{}{
			"status":           res.Status,
			"rank":             res.Rank,
			"score":            res.Score,
			"skills_match":     res.SkillsMatch,
			"experience_match": res.ExperienceMatch,
			"education_match":  res.EducationMatch,
			"strengths_json":   res.StrengthsJSON,
			"weaknesses_json":  res.WeaknessesJSON,
			"reasoning":        res.Reasoning,
			"recommendation":   res.Recommendation,
			"raw_response":     res.RawResponse,
			"fail_reason":      res.FailReason,
			"similarity":       res.Similarity,
			"updated_at":       time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save candidate result: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("candidate result not found")
	}
	return nil
}

// Delete removes a session and its candidate rows in one transaction.
func (r *screeningRepository) Delete(id uuid.UUID) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.CandidateResult{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.ScreeningSession{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("screening session not found: %w", err)
		}
		return fmt.Errorf("failed to delete screening session: %w", err)
	}
	return nil
}

func (r *screeningRepository) FindPendingSessions(limit int) ([]models.ScreeningSession, error) {
	var sessions []models.ScreeningSession
	err := r.db.
		Where("status = ?", models.SessionQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&sessions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending sessions: %w", err)
	}
	return sessions, nil
}
