package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/db"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
	"github.com/scholaris/resultportal/internal/pkg/dberrors"
)

var resultColumns = []string{
	"r.id::text", "r.student_id::text", "r.term", "r.session", "r.subjects",
	"r.total_score", "r.average", "r.position", "r.teacher_comment", "r.principal_comment",
	"r.attendance_present", "r.attendance_total", "r.created_at", "r.created_by::text",
	"s.id::text", "s.student_id", "s.full_name", "s.email", "s.pin", "s.class",
	"s.is_active", "s.created_at", "s.created_by::text",
}

// PgResultRepository handles result database operations
type PgResultRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewResultRepository creates a new PgResultRepository
func NewResultRepository(pool *pgxpool.Pool) *PgResultRepository {
	return &PgResultRepository{db: pool, sb: newStatementBuilder()}
}

func scanResult(row interface{ Scan(...any) error }) (*models.Result, error) {
	res := &models.Result{}
	st := &models.Student{}
	err := row.Scan(
		&res.ID, &res.StudentID, &res.Term, &res.Session, &res.Subjects,
		&res.TotalScore, &res.Average, &res.Position, &res.TeacherComment, &res.PrincipalComment,
		&res.AttendancePresent, &res.AttendanceTotal, &res.CreatedAt, &res.CreatedBy,
		&st.ID, &st.StudentID, &st.FullName, &st.Email, &st.PIN, &st.Class,
		&st.IsActive, &st.CreatedAt, &st.CreatedBy,
	)
	if res.Subjects == nil {
		res.Subjects = []models.SubjectScore{}
	}
	res.Student = st
	return res, err
}

func (r *PgResultRepository) selectResults() squirrel.SelectBuilder {
	return r.sb.Select(resultColumns...).
		From("results r").
		Join("students s ON s.id = r.student_id")
}

// Create inserts a result and fills its ID and CreatedAt
func (r *PgResultRepository) Create(ctx context.Context, res *models.Result) error {
	sql, args, err := r.sb.Insert("results").
		Columns("student_id", "term", "session", "subjects", "total_score", "average", "position",
			"teacher_comment", "principal_comment", "attendance_present", "attendance_total", "created_by").
		Values(res.StudentID, res.Term, res.Session, res.Subjects, res.TotalScore, res.Average, res.Position,
			res.TeacherComment, res.PrincipalComment, res.AttendancePresent, res.AttendanceTotal, res.CreatedBy).
		Suffix("RETURNING id::text, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create result query: %w", err)
	}

	if err := db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&res.ID, &res.CreatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrStudentNotFound
		}
		return notFoundOr("create result", err, apperrors.ErrStudentNotFound)
	}
	return nil
}

// GetByID retrieves a result with its student
func (r *PgResultRepository) GetByID(ctx context.Context, id string) (*models.Result, error) {
	sql, args, err := r.selectResults().Where(squirrel.Eq{"r.id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get result query: %w", err)
	}

	res, err := scanResult(db.Conn(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFoundOr("get result", err, apperrors.ErrResultNotFound)
	}
	return res, nil
}

func resultFilterWhere(filter models.ResultFilter) squirrel.And {
	where := squirrel.And{}
	if filter.StudentID != "" {
		where = append(where, squirrel.Eq{"r.student_id": filter.StudentID})
	}
	if filter.Term != "" {
		where = append(where, squirrel.Eq{"r.term": filter.Term})
	}
	if filter.Session != "" {
		where = append(where, squirrel.Eq{"r.session": filter.Session})
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		where = append(where, squirrel.Or{
			squirrel.ILike{"s.full_name": p},
			squirrel.ILike{"s.student_id": p},
			squirrel.ILike{"r.term": p},
			squirrel.ILike{"r.session": p},
		})
	}
	return where
}

// List returns a page of results newest first and the total match count
func (r *PgResultRepository) List(ctx context.Context, filter models.ResultFilter) ([]*models.Result, int64, error) {
	where := resultFilterWhere(filter)

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("results r").
		Join("students s ON s.id = r.student_id").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count results query: %w", err)
	}
	var total int64
	if err := db.Conn(ctx, r.db).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, notFoundOr("count results", err, apperrors.ErrStudentNotFound)
	}

	q := r.selectResults().Where(where).OrderBy("r.created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit)).Offset(filter.Offset)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list results query: %w", err)
	}

	rows, err := db.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, storeError("list results", err)
	}
	defer rows.Close()

	results := []*models.Result{}
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, 0, storeError("scan result", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeError("iterate results", err)
	}
	return results, total, nil
}

// Update saves every field of a result except its owner and creation data
func (r *PgResultRepository) Update(ctx context.Context, res *models.Result) error {
	sql, args, err := r.sb.Update("results").
		SetMap(map[string]any{
			"term":               res.Term,
			"session":            res.Session,
			"subjects":           res.Subjects,
			"total_score":        res.TotalScore,
			"average":            res.Average,
			"position":           res.Position,
			"teacher_comment":    res.TeacherComment,
			"principal_comment":  res.PrincipalComment,
			"attendance_present": res.AttendancePresent,
			"attendance_total":   res.AttendanceTotal,
		}).
		Where(squirrel.Eq{"id": res.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update result query: %w", err)
	}

	tag, err := db.Conn(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return notFoundOr("update result", err, apperrors.ErrResultNotFound)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResultNotFound
	}
	return nil
}

// Delete removes a result
func (r *PgResultRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete("results").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete result query: %w", err)
	}

	tag, err := db.Conn(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return notFoundOr("delete result", err, apperrors.ErrResultNotFound)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResultNotFound
	}
	return nil
}

// Count returns the number of stored results
func (r *PgResultRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := db.Conn(ctx, r.db).QueryRow(ctx, "SELECT COUNT(*) FROM results").Scan(&n); err != nil {
		return 0, storeError("count results", err)
	}
	return n, nil
}

// Sessions lists the distinct sessions of a student's results, latest label first.
// Labels such as "2024/2025" sort chronologically as text.
func (r *PgResultRepository) Sessions(ctx context.Context, studentID string) ([]string, error) {
	sql, args, err := r.sb.Select("session").
		From("results").
		Where(squirrel.Eq{"student_id": studentID}).
		GroupBy("session").
		OrderBy("session DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sessions query: %w", err)
	}

	rows, err := db.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, notFoundOr("list sessions", err, apperrors.ErrStudentNotFound)
	}
	defer rows.Close()

	sessions := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, storeError("scan session", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate sessions", err)
	}
	return sessions, nil
}
