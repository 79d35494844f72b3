package repositories

import (
	"context"
	"time"

	"github.com/scholaris/resultportal/internal/app/models"
)

// Transactor runs fn atomically. Repository calls made with the ctx handed to fn join the transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// AdminRepository persists administrators
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id string) (*models.Admin, error)
	// FindActiveByEmail returns every active admin with the given email
	FindActiveByEmail(ctx context.Context, email string) ([]*models.Admin, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// StudentRepository persists students
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (*models.Student, error)
	GetByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	// FindActiveByStudentID returns every active student with the given student-facing ID
	FindActiveByStudentID(ctx context.Context, studentID string) ([]*models.Student, error)
	// FindActiveByStudentIDAndEmail returns every active student matching both fields
	FindActiveByStudentIDAndEmail(ctx context.Context, studentID, email string) ([]*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, int64, error)
	Update(ctx context.Context, student *models.Student) error
	UpdatePIN(ctx context.Context, id, pin string) error
	// Delete removes the student and, through the foreign key, its results
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, activeOnly bool) (int64, error)
}

// ResultRepository persists term results
type ResultRepository interface {
	Create(ctx context.Context, result *models.Result) error
	GetByID(ctx context.Context, id string) (*models.Result, error)
	// List returns results newest first, each with its Student populated
	List(ctx context.Context, filter models.ResultFilter) ([]*models.Result, int64, error)
	Update(ctx context.Context, result *models.Result) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	// Sessions returns the distinct session labels of a student's results, newest first
	Sessions(ctx context.Context, studentID string) ([]string, error)
}

// SettingsRepository persists the school settings singleton
type SettingsRepository interface {
	// Get returns apperrors.ErrResourceNotFound when nothing was saved yet
	Get(ctx context.Context) (*models.SchoolSettings, error)
	Upsert(ctx context.Context, settings *models.SchoolSettings) error
}

// ActivityLogRepository is the append-only audit trail
type ActivityLogRepository interface {
	Append(ctx context.Context, entry *models.ActivityLog) error
	// List returns entries newest first
	List(ctx context.Context, filter models.ActivityLogFilter) ([]*models.ActivityLog, error)
	Count(ctx context.Context, filter models.ActivityLogFilter) (int64, error)
}

// TokenRepository tracks revoked access tokens until they expire
type TokenRepository interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	CleanupExpired(ctx context.Context) (int64, error)
}
