package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/scholaris/resultportal/internal/app/models"
)

// Score is a subject score as typed into a form. Numbers and numeric strings
// are accepted; anything else counts as 0.
type Score float64

// UnmarshalJSON implements json.Unmarshaler
func (s *Score) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = 0
		return nil
	}
	if b[0] == '"' {
		var text string
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			v = 0
		}
		*s = Score(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		*s = 0
		return nil
	}
	*s = Score(v)
	return nil
}

// SubjectScoreRequest is one subject line of a result form
type SubjectScoreRequest struct {
	Name  string `json:"name" binding:"required,max=100" example:"Mathematics"`
	Score Score  `json:"score" binding:"min=0,max=100" swaggertype:"number" example:"72"`
}

// ResultRequest represents the data for creating or editing a result.
// Totals, averages, grades and remarks are always derived server side.
type ResultRequest struct {
	StudentID         string                `json:"studentId" binding:"required,uuid" example:"0d9e5a7c-3b8f-4f0e-9a52-2d4c1e6b7f31"`
	Term              models.Term           `json:"term" binding:"required,term" example:"First Term"`
	Session           string                `json:"session" binding:"required,max=20" example:"2024/2025"`
	Subjects          []SubjectScoreRequest `json:"subjects" binding:"required,min=1,dive"`
	Position          *string               `json:"position" binding:"omitempty,max=20" example:"3rd"`
	TeacherComment    *string               `json:"teacherComment" example:"A diligent student"`
	PrincipalComment  *string               `json:"principalComment" example:"Keep it up"`
	AttendancePresent int                   `json:"attendancePresent" binding:"min=0" example:"58"`
	AttendanceTotal   int                   `json:"attendanceTotal" binding:"min=0" example:"60"`
}

// PreviewRequest asks for grades and aggregates without saving anything
type PreviewRequest struct {
	Subjects []SubjectScoreRequest `json:"subjects" binding:"dive"`
}

// PreviewResponse is the grading engine's view of a subject list
type PreviewResponse struct {
	Subjects   []models.SubjectScore `json:"subjects"`
	TotalScore float64               `json:"totalScore" example:"163"`
	Average    float64               `json:"average" example:"81.5"`
}

// ResultListResponse is one page of results
type ResultListResponse struct {
	Results    []*models.Result `json:"results"`
	Pagination PaginationInfo   `json:"pagination"`
}

// PortalResultsResponse is a student's own results with the sessions available for filtering
type PortalResultsResponse struct {
	Results  []*models.Result `json:"results"`
	Sessions []string         `json:"sessions"`
}

// ToSubjects converts the form lines into ungraded subject scores
func ToSubjects(lines []SubjectScoreRequest) []models.SubjectScore {
	subjects := make([]models.SubjectScore, 0, len(lines))
	for _, l := range lines {
		subjects = append(subjects, models.SubjectScore{
			Name:  strings.TrimSpace(l.Name),
			Score: float64(l.Score),
		})
	}
	return subjects
}
