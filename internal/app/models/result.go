package models

import "time"

// Term represents an academic term
type Term string

// Term constants
const (
	TermFirst  Term = "First Term"
	TermSecond Term = "Second Term"
	TermThird  Term = "Third Term"
)

// Terms lists the valid terms in calendar order
var Terms = []Term{TermFirst, TermSecond, TermThird}

// Valid reports whether t is a known term
func (t Term) Valid() bool {
	for _, known := range Terms {
		if t == known {
			return true
		}
	}
	return false
}

// Grade is the letter grade derived from a score
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// Remark is the qualitative remark derived from a score
type Remark string

const (
	RemarkExcellent Remark = "Excellent"
	RemarkVeryGood  Remark = "Very Good"
	RemarkGood      Remark = "Good"
	RemarkFair      Remark = "Fair"
	RemarkPoor      Remark = "Poor"
)

// SubjectScore is one subject line of a result. Grade and Remark are always derived from Score.
type SubjectScore struct {
	Name   string  `json:"name" example:"Mathematics"`
	Score  float64 `json:"score" example:"72"`
	Grade  Grade   `json:"grade" example:"B"`
	Remark Remark  `json:"remark" example:"Very Good"`
}

// Result defines a term result based on the 'results' table.
// TotalScore and Average are recomputed from Subjects on every write.
type Result struct {
	ID                string         `json:"id" db:"id"`
	StudentID         string         `json:"studentId" db:"student_id"`
	Term              Term           `json:"term" db:"term" example:"First Term"`
	Session           string         `json:"session" db:"session" example:"2024/2025"`
	Subjects          []SubjectScore `json:"subjects" db:"subjects"`
	TotalScore        float64        `json:"totalScore" db:"total_score" example:"163"`
	Average           float64        `json:"average" db:"average" example:"81.5"`
	Position          *string        `json:"position,omitempty" db:"position" example:"3rd"`
	TeacherComment    *string        `json:"teacherComment,omitempty" db:"teacher_comment"`
	PrincipalComment  *string        `json:"principalComment,omitempty" db:"principal_comment"`
	AttendancePresent int            `json:"attendancePresent" db:"attendance_present"`
	AttendanceTotal   int            `json:"attendanceTotal" db:"attendance_total"`
	CreatedAt         time.Time      `json:"createdAt" db:"created_at"`
	CreatedBy         *string        `json:"createdBy,omitempty" db:"created_by"`

	// Relations (populated when needed)
	Student *Student `json:"student,omitempty"`
}

// ResultCard is everything needed to render a printable result card
type ResultCard struct {
	Result   *Result         `json:"result"`
	Student  *Student        `json:"student"`
	Settings *SchoolSettings `json:"settings"`
}
