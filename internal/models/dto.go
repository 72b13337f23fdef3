package models

import "time"

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
}

type ScreenRequest struct {
	JobTitle                 string   `json:"job_title"`
	JobDescriptionDocumentID string   `json:"job_description_document_id" validate:"required,uuid"`
	ResumeDocumentIDs        []string `json:"resume_document_ids" validate:"required,min=1"`
}

type ScreenResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type RankedCandidateData struct {
	Rank            int      `json:"rank"`
	CandidateID     string   `json:"candidate_id"`
	Score           float64  `json:"score"`
	SkillsMatch     *float64 `json:"skills_match,omitempty"`
	ExperienceMatch *float64 `json:"experience_match,omitempty"`
	EducationMatch  *float64 `json:"education_match,omitempty"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Reasoning       string   `json:"reasoning,omitempty"`
	Recommendation  string   `json:"recommendation"`
	Similarity      *float64 `json:"similarity,omitempty"`
}

type FailedCandidateData struct {
	CandidateID string `json:"candidate_id"`
	Status      string `json:"status"`
	Reason      string `json:"reason"`
}

type SessionSummary struct {
	ID             string    `json:"id"`
	JobTitle       string    `json:"job_title,omitempty"`
	Status         string    `json:"status"`
	CandidateCount int       `json:"candidate_count"`
	CreatedAt      time.Time `json:"created_at"`
}

type SessionResultResponse struct {
	ID           string                `json:"id"`
	JobTitle     string                `json:"job_title,omitempty"`
	Status       string                `json:"status"`
	Ranked       []RankedCandidateData `json:"ranked,omitempty"`
	Failed       []FailedCandidateData `json:"failed,omitempty"`
	ErrorMessage *string               `json:"error_message,omitempty"`
}
