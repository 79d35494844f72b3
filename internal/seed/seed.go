// Package seed creates the data a fresh installation needs to be usable.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/repositories"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
	"github.com/scholaris/resultportal/internal/pkg/auth"
)

// Options describe the default data
type Options struct {
	AdminEmail    string
	AdminName     string
	AdminPassword string
	SchoolName    string
}

// Hasher derives the stored form of an admin password
type Hasher interface {
	Hash(secret string) (string, error)
}

// EnsureAdmin creates an active administrator unless one with the email exists.
// It reports whether an admin was created.
func EnsureAdmin(ctx context.Context, repo repositories.AdminRepository, hasher Hasher, email, name, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, fmt.Errorf("%w: admin email and password are required", apperrors.ErrValidationFailed)
	}

	exists, err := repo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}
	if strings.TrimSpace(name) == "" {
		name = "School Administrator"
	}

	admin := &models.Admin{Email: email, FullName: strings.TrimSpace(name), PasswordHash: hash, IsActive: true}
	if err := repo.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// EnsureSettings saves the default school settings when none exist yet
func EnsureSettings(ctx context.Context, repo repositories.SettingsRepository, schoolName string) (bool, error) {
	_, err := repo.Get(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return false, err
	}

	settings := models.DefaultSchoolSettings()
	if strings.TrimSpace(schoolName) != "" {
		settings.SchoolName = strings.TrimSpace(schoolName)
	}
	if err := repo.Upsert(ctx, settings); err != nil {
		return false, err
	}
	return true, nil
}

// CreateDefaultData makes sure a default admin and the school settings exist.
// Without a configured password a random one is generated and logged once.
// Failures are collected so one missing piece does not block the others.
func CreateDefaultData(ctx context.Context, repos *repositories.Repositories, hasher Hasher, opts Options, lgr zerolog.Logger) error {
	if hasher == nil {
		hasher = auth.NewBcryptVerifier(auth.DefaultBcryptCost)
	}
	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	password := opts.AdminPassword
	generated := password == ""
	if generated {
		password = uuid.NewString()
	}

	created, err := EnsureAdmin(ctx, repos.AdminRepository, hasher, opts.AdminEmail, opts.AdminName, password)
	switch {
	case err != nil:
		lgr.Error().Err(err).Msg("Error creating default admin")
		finalErr = errors.Join(finalErr, err)
	case created && generated:
		lgr.Warn().Str("email", opts.AdminEmail).Str("password", password).
			Msg("Default admin created with a generated password; change it with the admin CLI")
	case created:
		lgr.Info().Str("email", opts.AdminEmail).Msg("Default admin created")
	default:
		lgr.Info().Msg("Admin already exists, skipping creation")
	}

	if created, err := EnsureSettings(ctx, repos.SettingsRepository, opts.SchoolName); err != nil {
		lgr.Error().Err(err).Msg("Error creating default school settings")
		finalErr = errors.Join(finalErr, err)
	} else if created {
		lgr.Info().Msg("Default school settings created")
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
