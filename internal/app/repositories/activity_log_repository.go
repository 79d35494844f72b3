package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/db"
)

// PgActivityLogRepository appends to and reads the activity_logs table.
// There is deliberately no update or delete.
type PgActivityLogRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewActivityLogRepository creates a new PgActivityLogRepository
func NewActivityLogRepository(pool *pgxpool.Pool) *PgActivityLogRepository {
	return &PgActivityLogRepository{db: pool, sb: newStatementBuilder()}
}

// Append inserts an entry and fills its ID and CreatedAt
func (r *PgActivityLogRepository) Append(ctx context.Context, entry *models.ActivityLog) error {
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	sql, args, err := r.sb.Insert("activity_logs").
		Columns("actor_type", "actor_id", "action", "description", "metadata").
		Values(entry.ActorType, entry.ActorID, entry.Action, entry.Description, metadata).
		Suffix("RETURNING id::text, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build append activity query: %w", err)
	}

	if err := db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return storeError("append activity", err)
	}
	return nil
}

func activityWhere(filter models.ActivityLogFilter) squirrel.And {
	where := squirrel.And{}
	if filter.ActorType != "" {
		where = append(where, squirrel.Eq{"actor_type": filter.ActorType})
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		where = append(where, squirrel.Or{
			squirrel.ILike{"action": p},
			squirrel.ILike{"description": p},
		})
	}
	if filter.Since != nil {
		where = append(where, squirrel.GtOrEq{"created_at": *filter.Since})
	}
	return where
}

// List returns matching entries newest first, capped at filter.Limit when positive
func (r *PgActivityLogRepository) List(ctx context.Context, filter models.ActivityLogFilter) ([]*models.ActivityLog, error) {
	q := r.sb.Select("id::text", "actor_type", "actor_id::text", "action", "description", "metadata", "created_at").
		From("activity_logs").
		Where(activityWhere(filter)).
		OrderBy("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list activity query: %w", err)
	}

	rows, err := db.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, storeError("list activity", err)
	}
	defer rows.Close()

	entries := []*models.ActivityLog{}
	for rows.Next() {
		e := &models.ActivityLog{}
		if err := rows.Scan(&e.ID, &e.ActorType, &e.ActorID, &e.Action, &e.Description, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, storeError("scan activity", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate activity", err)
	}
	return entries, nil
}

// Count returns the number of matching entries, ignoring filter.Limit
func (r *PgActivityLogRepository) Count(ctx context.Context, filter models.ActivityLogFilter) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("activity_logs").Where(activityWhere(filter)).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count activity query: %w", err)
	}

	var n int64
	if err := db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, storeError("count activity", err)
	}
	return n, nil
}
