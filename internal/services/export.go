package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/basappa1234/resume-screening-agent/internal/models"
)

// ExportService renders a completed screening session as an Excel workbook.
type ExportService interface {
	ExportSession(session *models.ScreeningSession) ([]byte, error)
}

type exportService struct{}

func NewExportService() ExportService {
	return &exportService{}
}

// ExportSession implements ExportService.
func (e *exportService) ExportSession(session *models.ScreeningSession) ([]byte, error) {
	if session.Status != models.SessionCompleted {
		return nil, fmt.Errorf("session is not completed (status: %s)", session.Status)
	}

	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "Summary"
	resultsSheet := "Ranked Candidates"

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(resultsSheet); err != nil {
		return nil, fmt.Errorf("failed to create results sheet: %w", err)
	}

	if err := e.writeSummarySheet(f, summarySheet, session); err != nil {
		return nil, fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := e.writeResultsSheet(f, resultsSheet, session.Results); err != nil {
		return nil, fmt.Errorf("failed to write results sheet: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func (e *exportService) writeSummarySheet(f *excelize.File, sheet string, session *models.ScreeningSession) error {
	f.SetColWidth(sheet, "A", "A", 25)
	f.SetColWidth(sheet, "B", "B", 50)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	scored, failed := 0, 0
	for _, r := range session.Results {
		if r.Status == "scored" {
			scored++
		} else {
			failed++
		}
	}

	f.SetCellValue(sheet, "A1", "Resume Screening Report")
	f.SetCellStyle(sheet, "A1", "B1", headerStyle)
	f.MergeCell(sheet, "A1", "B1")

	rows := [][2]interface{}{
		{"Job Title:", session.JobTitle},
		{"Session ID:", session.ID.String()},
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Candidates Submitted:", session.CandidateCount},
		{"Candidates Scored:", scored},
		{"Candidates Failed:", failed},
	}
	for i, kv := range rows {
		row := i + 3
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), kv[0])
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), kv[1])
	}

	return nil
}

func (e *exportService) writeResultsSheet(f *excelize.File, sheet string, results []models.CandidateResult) error {
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 30)
	f.SetColWidth(sheet, "C", "F", 14)
	f.SetColWidth(sheet, "G", "G", 18)
	f.SetColWidth(sheet, "H", "J", 50)
	f.SetColWidth(sheet, "K", "K", 12)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}

	headers := []string{
		"Rank", "Candidate", "Score", "Skills", "Experience", "Education",
		"Recommendation", "Strengths", "Weaknesses", "Reasoning", "Status",
	}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, result := range results {
		row := i + 2

		if result.Rank != nil {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), *result.Rank)
		}
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), result.CandidateID)
		setFloatCell(f, sheet, fmt.Sprintf("C%d", row), result.Score)
		setFloatCell(f, sheet, fmt.Sprintf("D%d", row), result.SkillsMatch)
		setFloatCell(f, sheet, fmt.Sprintf("E%d", row), result.ExperienceMatch)
		setFloatCell(f, sheet, fmt.Sprintf("F%d", row), result.EducationMatch)
		if result.Recommendation != nil {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), *result.Recommendation)
		}
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), strings.Join(result.Strengths(), "; "))
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), strings.Join(result.Weaknesses(), "; "))
		if result.Reasoning != nil {
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), *result.Reasoning)
		} else if result.FailReason != nil {
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), *result.FailReason)
		}
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), result.Status)

		f.SetCellStyle(sheet, fmt.Sprintf("H%d", row), fmt.Sprintf("J%d", row), wrapStyle)
	}

	if len(results) > 0 {
		f.AutoFilter(sheet, fmt.Sprintf("A1:K%d", len(results)+1), []excelize.AutoFilterOptions{})
	}

	// Freeze the header row
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func setFloatCell(f *excelize.File, sheet, cell string, v *float64) {
	if v == nil {
		return
	}
	f.SetCellValue(sheet, cell, *v)
}
