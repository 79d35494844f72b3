package dto

import (
	"time"

	"github.com/scholaris/resultportal/internal/app/models"
)

// AdminLoginRequest represents administrator credentials
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@school.edu"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// StudentLoginRequest represents student credentials
type StudentLoginRequest struct {
	StudentID string `json:"studentId" binding:"required" example:"S002"`
	PIN       string `json:"pin" binding:"required" example:"4821"`
}

// ResetPINRequest identifies a student who forgot their PIN
type ResetPINRequest struct {
	StudentID string `json:"studentId" binding:"required" example:"S002"`
	Email     string `json:"email" binding:"required,email" example:"jane@example.com"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType" example:"Bearer"`
	ExpiresIn   int       `json:"expiresIn" example:"43200"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// AdminLoginResponse is returned after a successful administrator login
type AdminLoginResponse struct {
	Token TokenResponse `json:"token"`
	Admin *models.Admin `json:"admin"`
}

// StudentLoginResponse is returned after a successful student login
type StudentLoginResponse struct {
	Token   TokenResponse   `json:"token"`
	Student *StudentProfile `json:"student"`
}

// ResetPINResponse carries a freshly generated PIN
type ResetPINResponse struct {
	PIN string `json:"pin" example:"4821"`
}

// SessionResponse describes who the current token belongs to
type SessionResponse struct {
	ActorType models.ActorType `json:"actorType" example:"student"`
	Admin     *models.Admin    `json:"admin,omitempty"`
	Student   *StudentProfile  `json:"student,omitempty"`
}
