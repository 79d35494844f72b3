package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/db"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
	"github.com/scholaris/resultportal/internal/pkg/dberrors"
	"github.com/scholaris/resultportal/internal/pkg/logger"
)

var adminColumns = []string{"id::text", "email", "full_name", "password_hash", "is_active", "created_at", "last_login"}

// PgAdminRepository handles admin database operations
type PgAdminRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new PgAdminRepository
func NewAdminRepository(pool *pgxpool.Pool) *PgAdminRepository {
	return &PgAdminRepository{db: pool, sb: newStatementBuilder()}
}

func scanAdmin(row interface{ Scan(...any) error }) (*models.Admin, error) {
	a := &models.Admin{}
	err := row.Scan(&a.ID, &a.Email, &a.FullName, &a.PasswordHash, &a.IsActive, &a.CreatedAt, &a.LastLogin)
	return a, err
}

// Create inserts an admin and fills its ID and CreatedAt
func (r *PgAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	sql, args, err := r.sb.Insert("admins").
		Columns("email", "full_name", "password_hash", "is_active").
		Values(admin.Email, admin.FullName, admin.PasswordHash, admin.IsActive).
		Suffix("RETURNING id::text, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create admin query: %w", err)
	}

	err = db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "admins_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return storeError("create admin", err)
	}
	return nil
}

// GetByID retrieves an admin by ID
func (r *PgAdminRepository) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	sql, args, err := r.sb.Select(adminColumns...).
		From("admins").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}

	admin, err := scanAdmin(db.Conn(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFoundOr("get admin", err, apperrors.ErrAdminNotFound)
	}
	return admin, nil
}

// FindActiveByEmail returns the active admins registered under email
func (r *PgAdminRepository) FindActiveByEmail(ctx context.Context, email string) ([]*models.Admin, error) {
	sql, args, err := r.sb.Select(adminColumns...).
		From("admins").
		Where(squirrel.Eq{"email": email, "is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find admin query: %w", err)
	}

	rows, err := db.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, storeError("find admins", err)
	}
	defer rows.Close()

	var admins []*models.Admin
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, storeError("scan admin", err)
		}
		admins = append(admins, admin)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate admins", err)
	}
	return admins, nil
}

// ExistsByEmail checks whether any admin, active or not, uses email
func (r *PgAdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("admins").
		Where(squirrel.Eq{"email": email}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build admin exists query: %w", err)
	}

	var exists bool
	if err := db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, storeError("admin exists", err)
	}
	return exists, nil
}

// UpdatePassword replaces the stored password hash
func (r *PgAdminRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateOne(ctx, "update admin password", id, map[string]any{"password_hash": passwordHash})
}

// TouchLastLogin records a successful login
func (r *PgAdminRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.updateOne(ctx, "touch admin last login", id, map[string]any{"last_login": at})
}

func (r *PgAdminRepository) updateOne(ctx context.Context, op, id string, values map[string]any) error {
	sql, args, err := r.sb.Update("admins").
		SetMap(values).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s query: %w", op, err)
	}

	tag, err := db.Conn(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return storeError(op, err)
	}
	if tag.RowsAffected() == 0 {
		logger.Warn().Str("adminID", id).Str("op", op).Msg("Admin not found")
		return apperrors.ErrAdminNotFound
	}
	return nil
}
