package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scholaris/resultportal/internal/db"
	"github.com/scholaris/resultportal/internal/pkg/logger"
)

// PgTokenRepository records revoked access tokens until they expire
type PgTokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new PgTokenRepository
func NewTokenRepository(pool *pgxpool.Pool) *PgTokenRepository {
	return &PgTokenRepository{db: pool, sb: newStatementBuilder()}
}

// Revoke marks a token ID as revoked. Revoking twice is not an error.
func (r *PgTokenRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	sql, args, err := r.sb.Insert("revoked_tokens").
		Columns("jti", "expires_at").
		Values(tokenID, expiresAt).
		Suffix("ON CONFLICT (jti) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build revoke token query: %w", err)
	}

	if _, err := db.Conn(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return storeError("revoke token", err)
	}
	return nil
}

// IsRevoked reports whether the token ID was revoked
func (r *PgTokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("revoked_tokens").
		Where(squirrel.Eq{"jti": tokenID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build token revoked query: %w", err)
	}

	var revoked bool
	if err := db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&revoked); err != nil {
		return false, storeError("check revoked token", err)
	}
	return revoked, nil
}

// CleanupExpired removes revocations of tokens that have expired anyway
func (r *PgTokenRepository) CleanupExpired(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Delete("revoked_tokens").
		Where(squirrel.Lt{"expires_at": time.Now()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build cleanup tokens query: %w", err)
	}

	tag, err := db.Conn(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return 0, storeError("cleanup tokens", err)
	}
	if n := tag.RowsAffected(); n > 0 {
		logger.Info().Int64("removed", n).Msg("Removed expired token revocations")
	}
	return tag.RowsAffected(), nil
}
