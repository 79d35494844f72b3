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

var studentColumns = []string{
	"id::text", "student_id", "full_name", "email", "pin", "class",
	"is_active", "created_at", "created_by::text",
}

// PgStudentRepository handles student database operations
type PgStudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new PgStudentRepository
func NewStudentRepository(pool *pgxpool.Pool) *PgStudentRepository {
	return &PgStudentRepository{db: pool, sb: newStatementBuilder()}
}

func scanStudent(row interface{ Scan(...any) error }) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(&s.ID, &s.StudentID, &s.FullName, &s.Email, &s.PIN, &s.Class,
		&s.IsActive, &s.CreatedAt, &s.CreatedBy)
	return s, err
}

func (r *PgStudentRepository) queryStudents(ctx context.Context, op string, q squirrel.SelectBuilder) ([]*models.Student, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	rows, err := db.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, storeError(op, err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, storeError(op, err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(op, err)
	}
	return students, nil
}

// Create inserts a student and fills its ID and CreatedAt
func (r *PgStudentRepository) Create(ctx context.Context, s *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("student_id", "full_name", "email", "pin", "class", "is_active", "created_by").
		Values(s.StudentID, s.FullName, s.Email, s.PIN, s.Class, s.IsActive, s.CreatedBy).
		Suffix("RETURNING id::text, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_student_id_key") {
			return apperrors.ErrStudentIDAlreadyExists
		}
		return storeError("create student", err)
	}
	return nil
}

// GetByID retrieves a student by its internal ID
func (r *PgStudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	return r.getOne(ctx, "get student", squirrel.Eq{"id": id})
}

// GetByStudentID retrieves a student by the student-facing ID
func (r *PgStudentRepository) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	return r.getOne(ctx, "get student by student ID", squirrel.Eq{"student_id": studentID})
}

func (r *PgStudentRepository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).From("students").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	s, err := scanStudent(db.Conn(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFoundOr(op, err, apperrors.ErrStudentNotFound)
	}
	return s, nil
}

func (r *PgStudentRepository) FindActiveByStudentID(ctx context.Context, studentID string) ([]*models.Student, error) {
	return r.queryStudents(ctx, "find active students",
		r.sb.Select(studentColumns...).From("students").
			Where(squirrel.Eq{"student_id": studentID, "is_active": true}))
}

func (r *PgStudentRepository) FindActiveByStudentIDAndEmail(ctx context.Context, studentID, email string) ([]*models.Student, error) {
	return r.queryStudents(ctx, "find active students by email",
		r.sb.Select(studentColumns...).From("students").
			Where(squirrel.Eq{"student_id": studentID, "email": email, "is_active": true}))
}

func studentFilterWhere(filter models.StudentFilter) squirrel.And {
	where := squirrel.And{}
	if filter.ActiveOnly {
		where = append(where, squirrel.Eq{"is_active": true})
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		where = append(where, squirrel.Or{
			squirrel.ILike{"full_name": p},
			squirrel.ILike{"student_id": p},
			squirrel.ILike{"class": p},
		})
	}
	return where
}

// List returns a page of students ordered by creation time, newest first, and the total match count
func (r *PgStudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, int64, error) {
	where := studentFilterWhere(filter)

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("students").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}
	var total int64
	if err := db.Conn(ctx, r.db).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, storeError("count students", err)
	}

	q := r.sb.Select(studentColumns...).From("students").Where(where).OrderBy("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit)).Offset(filter.Offset)
	}
	students, err := r.queryStudents(ctx, "list students", q)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// Update saves the editable fields of a student
func (r *PgStudentRepository) Update(ctx context.Context, s *models.Student) error {
	return r.updateOne(ctx, "update student", s.ID, map[string]any{
		"student_id": s.StudentID,
		"full_name":  s.FullName,
		"email":      s.Email,
		"pin":        s.PIN,
		"class":      s.Class,
		"is_active":  s.IsActive,
	})
}

// UpdatePIN replaces the student's PIN
func (r *PgStudentRepository) UpdatePIN(ctx context.Context, id, pin string) error {
	return r.updateOne(ctx, "update student pin", id, map[string]any{"pin": pin})
}

func (r *PgStudentRepository) updateOne(ctx context.Context, op, id string, values map[string]any) error {
	sql, args, err := r.sb.Update("students").SetMap(values).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s query: %w", op, err)
	}

	tag, err := db.Conn(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_student_id_key") {
			return apperrors.ErrStudentIDAlreadyExists
		}
		return notFoundOr(op, err, apperrors.ErrStudentNotFound)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Delete removes a student; results cascade
func (r *PgStudentRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete("students").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	tag, err := db.Conn(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return notFoundOr("delete student", err, apperrors.ErrStudentNotFound)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Count returns the number of students, optionally only active ones
func (r *PgStudentRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	q := r.sb.Select("COUNT(*)").From("students")
	if activeOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var n int64
	if err := db.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, storeError("count students", err)
	}
	return n, nil
}
