package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/db"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
)

// PgSettingsRepository handles the school_settings singleton
type PgSettingsRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSettingsRepository creates a new PgSettingsRepository
func NewSettingsRepository(pool *pgxpool.Pool) *PgSettingsRepository {
	return &PgSettingsRepository{db: pool, sb: newStatementBuilder()}
}

// Get returns the saved settings or apperrors.ErrResourceNotFound
func (r *PgSettingsRepository) Get(ctx context.Context) (*models.SchoolSettings, error) {
	sql, args, err := r.sb.Select(
		"id::text", "school_name", "school_address", "school_email", "school_phone",
		"logo_url", "principal_signature_url", "primary_color", "secondary_color",
		"result_template", "watermark_text", "updated_at", "updated_by::text",
	).From("school_settings").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get settings query: %w", err)
	}

	s := &models.SchoolSettings{}
	err = db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(
		&s.ID, &s.SchoolName, &s.SchoolAddress, &s.SchoolEmail, &s.SchoolPhone,
		&s.LogoURL, &s.PrincipalSignatureURL, &s.PrimaryColor, &s.SecondaryColor,
		&s.ResultTemplate, &s.WatermarkText, &s.UpdatedAt, &s.UpdatedBy,
	)
	if err != nil {
		return nil, notFoundOr("get settings", err, apperrors.ErrResourceNotFound)
	}
	return s, nil
}

// Upsert writes the singleton row, creating it on first save, and fills ID and UpdatedAt
func (r *PgSettingsRepository) Upsert(ctx context.Context, s *models.SchoolSettings) error {
	sql, args, err := r.sb.Insert("school_settings").
		Columns("school_name", "school_address", "school_email", "school_phone",
			"logo_url", "principal_signature_url", "primary_color", "secondary_color",
			"result_template", "watermark_text", "updated_at", "updated_by").
		Values(s.SchoolName, s.SchoolAddress, s.SchoolEmail, s.SchoolPhone,
			s.LogoURL, s.PrincipalSignatureURL, s.PrimaryColor, s.SecondaryColor,
			s.ResultTemplate, s.WatermarkText, squirrel.Expr("NOW()"), s.UpdatedBy).
		Suffix(`ON CONFLICT (singleton) DO UPDATE SET
			school_name = EXCLUDED.school_name,
			school_address = EXCLUDED.school_address,
			school_email = EXCLUDED.school_email,
			school_phone = EXCLUDED.school_phone,
			logo_url = EXCLUDED.logo_url,
			principal_signature_url = EXCLUDED.principal_signature_url,
			primary_color = EXCLUDED.primary_color,
			secondary_color = EXCLUDED.secondary_color,
			result_template = EXCLUDED.result_template,
			watermark_text = EXCLUDED.watermark_text,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by
		RETURNING id::text, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert settings query: %w", err)
	}

	if err := db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&s.ID, &s.UpdatedAt); err != nil {
		return storeError("upsert settings", err)
	}
	return nil
}
