package dto

import (
	"strings"
	"time"

	"github.com/scholaris/resultportal/internal/app/models"
)

// CreateStudentRequest represents the data for registering a student.
// An empty PIN asks the server to generate one.
type CreateStudentRequest struct {
	StudentID string  `json:"studentId" binding:"required,max=50" example:"S002"`
	FullName  string  `json:"fullName" binding:"required,max=150" example:"Jane Doe"`
	Email     *string `json:"email" binding:"omitempty,email" example:"jane@example.com"`
	PIN       string  `json:"pin" binding:"omitempty,pin" example:"4821"`
	Class     string  `json:"class" binding:"required,max=50" example:"JSS 2"`
	IsActive  *bool   `json:"isActive" example:"true"`
}

// UpdateStudentRequest represents the editable fields of a student
type UpdateStudentRequest struct {
	StudentID string  `json:"studentId" binding:"required,max=50" example:"S002"`
	FullName  string  `json:"fullName" binding:"required,max=150" example:"Jane Doe"`
	Email     *string `json:"email" binding:"omitempty,email" example:"jane@example.com"`
	PIN       string  `json:"pin" binding:"required,pin" example:"4821"`
	Class     string  `json:"class" binding:"required,max=50" example:"JSS 2"`
	IsActive  bool    `json:"isActive" example:"true"`
}

// StudentListResponse is one page of students
type StudentListResponse struct {
	Students   []*models.Student `json:"students"`
	Pagination PaginationInfo    `json:"pagination"`
}

// StudentProfile is the student as shown to the student: everything but the PIN
type StudentProfile struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId" example:"S002"`
	FullName  string    `json:"fullName" example:"Jane Doe"`
	Email     *string   `json:"email,omitempty" example:"jane@example.com"`
	Class     string    `json:"class" example:"JSS 2"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewStudentProfile strips the credential from s
func NewStudentProfile(s *models.Student) *StudentProfile {
	if s == nil {
		return nil
	}
	return &StudentProfile{
		ID:        s.ID,
		StudentID: s.StudentID,
		FullName:  s.FullName,
		Email:     s.Email,
		Class:     s.Class,
		CreatedAt: s.CreatedAt,
	}
}

// NormalizeEmail trims and lower-cases an optional email, mapping blanks to nil
func NormalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}
