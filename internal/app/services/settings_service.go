package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/models/dto"
	"github.com/scholaris/resultportal/internal/app/repositories"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
	"github.com/scholaris/resultportal/internal/pkg/filestorage"
)

const brandingDir = "branding"

// SettingsService manages the school branding singleton
type SettingsService struct {
	tx       repositories.Transactor
	settings repositories.SettingsRepository
	auditor  *Auditor
	storage  filestorage.FileStorage
	logger   zerolog.Logger
}

// NewSettingsService creates a new SettingsService. storage may be nil when uploads are disabled.
func NewSettingsService(repos *repositories.Repositories, auditor *Auditor, storage filestorage.FileStorage, logger zerolog.Logger) *SettingsService {
	return &SettingsService{
		tx:       repos.Transactor,
		settings: repos.SettingsRepository,
		auditor:  auditor,
		storage:  storage,
		logger:   logger,
	}
}

// Get returns the saved settings, or the defaults when none were saved yet
func (s *SettingsService) Get(ctx context.Context) (*models.SchoolSettings, error) {
	settings, err := s.settings.Get(ctx)
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return models.DefaultSchoolSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// Public returns the branding shown on the login pages
func (s *SettingsService) Public(ctx context.Context) (*dto.PublicSettingsResponse, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewPublicSettings(settings), nil
}

// Update saves the branding form. Blank colours and template fall back to the defaults.
func (s *SettingsService) Update(ctx context.Context, admin *models.Admin, req *dto.UpdateSettingsRequest) (*models.SchoolSettings, error) {
	var saved *models.SchoolSettings
	err := audited(ctx, s.tx, s.auditor, admin, func(ctx context.Context) (auditEntry, error) {
		settings, err := s.Get(ctx)
		if err != nil {
			return auditEntry{}, err
		}
		settings.SchoolName = strings.TrimSpace(req.SchoolName)
		settings.SchoolAddress = strings.TrimSpace(req.SchoolAddress)
		settings.SchoolEmail = strings.ToLower(strings.TrimSpace(req.SchoolEmail))
		settings.SchoolPhone = strings.TrimSpace(req.SchoolPhone)
		settings.PrimaryColor = orDefault(req.PrimaryColor, models.DefaultPrimaryColor)
		settings.SecondaryColor = orDefault(req.SecondaryColor, models.DefaultSecondaryColor)
		settings.ResultTemplate = models.ResultTemplate(orDefault(string(req.ResultTemplate), string(models.TemplateModern)))
		settings.WatermarkText = req.WatermarkText
		settings.UpdatedBy = &admin.ID
		if !settings.ResultTemplate.Valid() {
			return auditEntry{}, fmt.Errorf("%w: unknown result template %q", apperrors.ErrValidationFailed, settings.ResultTemplate)
		}
		if err := s.settings.Upsert(ctx, settings); err != nil {
			return auditEntry{}, err
		}
		saved = settings
		return auditEntry{
			action:      models.ActionUpdateSettings,
			description: "Updated school settings",
			metadata:    map[string]any{},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// UploadAsset stores a logo or principal signature and points the settings at it
func (s *SettingsService) UploadAsset(ctx context.Context, admin *models.Admin, kind string, file *multipart.FileHeader) (*dto.AssetUploadResponse, error) {
	if kind != dto.AssetLogo && kind != dto.AssetSignature {
		return nil, fmt.Errorf("%w: unknown asset kind %q", apperrors.ErrValidationFailed, kind)
	}
	if s.storage == nil {
		return nil, fmt.Errorf("%w: file uploads are disabled", apperrors.ErrBadRequest)
	}
	if file == nil {
		return nil, fmt.Errorf("%w: file is required", apperrors.ErrValidationFailed)
	}

	url, err := s.storage.SaveFileWithPath(file, brandingDir)
	if err != nil {
		return nil, err
	}

	var saved *models.SchoolSettings
	var previous *string
	err = audited(ctx, s.tx, s.auditor, admin, func(ctx context.Context) (auditEntry, error) {
		settings, err := s.Get(ctx)
		if err != nil {
			return auditEntry{}, err
		}
		if kind == dto.AssetLogo {
			previous, settings.LogoURL = settings.LogoURL, &url
		} else {
			previous, settings.PrincipalSignatureURL = settings.PrincipalSignatureURL, &url
		}
		settings.UpdatedBy = &admin.ID
		if err := s.settings.Upsert(ctx, settings); err != nil {
			return auditEntry{}, err
		}
		saved = settings
		return auditEntry{
			action:      models.ActionUpdateSettings,
			description: fmt.Sprintf("Uploaded school %s", kind),
			metadata:    map[string]any{"asset": kind},
		}, nil
	})
	if err != nil {
		if delErr := s.storage.DeleteFile(url); delErr != nil {
			s.logger.Warn().Err(delErr).Str("url", url).Msg("Failed to remove orphaned upload")
		}
		return nil, err
	}

	if previous != nil && *previous != "" {
		if err := s.storage.DeleteFile(*previous); err != nil {
			s.logger.Warn().Err(err).Str("url", *previous).Msg("Failed to remove replaced asset")
		}
	}
	return &dto.AssetUploadResponse{Kind: kind, URL: url, Settings: saved}, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
