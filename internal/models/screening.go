package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionQueued     SessionStatus = "queued"
	SessionProcessing SessionStatus = "processing"
	SessionCompleted  SessionStatus = "completed"
	SessionFailed     SessionStatus = "failed"
)

// ScreeningSession is one screening run: a job description evaluated
// against a batch of resumes.
type ScreeningSession struct {
	ID                    uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobTitle              string        `gorm:"type:text" json:"job_title"`
	JobDescriptionDocID   uuid.UUID     `gorm:"type:uuid;not null" json:"job_description_document_id"`
	Status                SessionStatus `gorm:"not null;default:'queued'" json:"status"`
	CandidateCount        int           `gorm:"not null;default:0" json:"candidate_count"`
	ErrorMessage          *string       `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt             time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt             time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	JobDescriptionDoc Document          `gorm:"foreignKey:JobDescriptionDocID" json:"-"`
	Results           []CandidateResult `gorm:"foreignKey:SessionID" json:"results,omitempty"`
}

func (ScreeningSession) TableName() string {
	return "screening_sessions"
}

// CandidateResult is the persisted verdict for one candidate in a session.
// A row is created as pending when the session is submitted and filled in
// once the screening engine settles the candidate.
type CandidateResult struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID       uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
	DocumentID      uuid.UUID `gorm:"type:uuid;not null" json:"document_id"`
	CandidateID     string    `gorm:"type:text;not null" json:"candidate_id"`
	Status          string    `gorm:"type:text;not null;default:'pending'" json:"status"`
	Rank            *int      `json:"rank,omitempty"`
	Score           *float64  `gorm:"type:decimal(5,2)" json:"score,omitempty"`
	SkillsMatch     *float64  `gorm:"type:decimal(5,2)" json:"skills_match,omitempty"`
	ExperienceMatch *float64  `gorm:"type:decimal(5,2)" json:"experience_match,omitempty"`
	EducationMatch  *float64  `gorm:"type:decimal(5,2)" json:"education_match,omitempty"`
	StrengthsJSON   string    `gorm:"type:text" json:"-"`
	WeaknessesJSON  string    `gorm:"type:text" json:"-"`
	Reasoning       *string   `gorm:"type:text" json:"reasoning,omitempty"`
	Recommendation  *string   `gorm:"type:text" json:"recommendation,omitempty"`
	RawResponse     *string   `gorm:"type:text" json:"-"`
	FailReason      *string   `gorm:"type:text" json:"fail_reason,omitempty"`
	Similarity      *float64  `gorm:"type:decimal(6,4)" json:"similarity,omitempty"`
	CreatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Document Document `gorm:"foreignKey:DocumentID" json:"-"`
}

func (CandidateResult) TableName() string {
	return "candidate_results"
}

// Strengths decodes the JSON-encoded strengths column.
func (r *CandidateResult) Strengths() []string {
	return decodeStringList(r.StrengthsJSON)
}

// Weaknesses decodes the JSON-encoded weaknesses column.
func (r *CandidateResult) Weaknesses() []string {
	return decodeStringList(r.WeaknessesJSON)
}

// EncodeStringList serializes observations for a text column. Encoding a
// plain string slice cannot fail, so the error is discarded.
func EncodeStringList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(items)
	return string(b)
}

func decodeStringList(raw string) []string {
	if raw == "" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}
