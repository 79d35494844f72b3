package models

import "time"

// Student defines the student model based on the 'students' table.
// PIN is stored as text so administrators can read it back and hand it over.
type Student struct {
	ID        string    `json:"id" db:"id" example:"0d9e5a7c-3b8f-4f0e-9a52-2d4c1e6b7f31"`
	StudentID string    `json:"studentId" db:"student_id" example:"S002"`
	FullName  string    `json:"fullName" db:"full_name" example:"Jane Doe"`
	Email     *string   `json:"email,omitempty" db:"email" example:"jane@example.com"`
	PIN       string    `json:"pin" db:"pin" example:"4821"`
	Class     string    `json:"class" db:"class" example:"JSS 2"`
	IsActive  bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	CreatedBy *string   `json:"createdBy,omitempty" db:"created_by"`
}

func (s *Student) Kind() ActorType     { return ActorStudent }
func (s *Student) ActorID() string     { return s.ID }
func (s *Student) DisplayName() string { return s.FullName }
