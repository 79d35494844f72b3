package models

import "time"

// Admin defines the administrator model based on the 'admins' table
type Admin struct {
	ID           string     `json:"id" db:"id" example:"7f1c7d4e-1f53-4d38-a1d5-6f0b8f1c1a10"`
	Email        string     `json:"email" db:"email" example:"admin@school.edu"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FullName     string     `json:"fullName" db:"full_name" example:"Ada Obi"`
	IsActive     bool       `json:"isActive" db:"is_active" example:"true"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" db:"last_login"`
}

func (a *Admin) Kind() ActorType     { return ActorAdmin }
func (a *Admin) ActorID() string     { return a.ID }
func (a *Admin) DisplayName() string { return a.FullName }
