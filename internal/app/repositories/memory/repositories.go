package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
)

// AdminRepository is the in-memory repositories.AdminRepository
type AdminRepository struct{ s *Store }

func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	defer r.s.write(ctx)()
	for _, a := range r.s.data.admins {
		if strings.EqualFold(a.Email, admin.Email) {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	admin.ID = r.s.data.register()
	admin.CreatedAt = r.s.now()
	r.s.data.admins[admin.ID] = cloneAdmin(admin)
	return nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	defer r.s.read(ctx)()
	a, ok := r.s.data.admins[id]
	if !ok {
		return nil, apperrors.ErrAdminNotFound
	}
	return cloneAdmin(a), nil
}

func (r *AdminRepository) FindActiveByEmail(ctx context.Context, email string) ([]*models.Admin, error) {
	defer r.s.read(ctx)()
	var out []*models.Admin
	for _, a := range r.s.data.admins {
		if a.IsActive && strings.EqualFold(a.Email, email) {
			out = append(out, cloneAdmin(a))
		}
	}
	return out, nil
}

func (r *AdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	defer r.s.read(ctx)()
	for _, a := range r.s.data.admins {
		if strings.EqualFold(a.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *AdminRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	defer r.s.write(ctx)()
	a, ok := r.s.data.admins[id]
	if !ok {
		return apperrors.ErrAdminNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func (r *AdminRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	defer r.s.write(ctx)()
	if err := r.s.failure(OpTouchLogin); err != nil {
		return err
	}
	a, ok := r.s.data.admins[id]
	if !ok {
		return apperrors.ErrAdminNotFound
	}
	a.LastLogin = &at
	return nil
}

// StudentRepository is the in-memory repositories.StudentRepository
type StudentRepository struct{ s *Store }

func (r *StudentRepository) studentIDTaken(studentID, except string) bool {
	for id, st := range r.s.data.students {
		if id != except && st.StudentID == studentID {
			return true
		}
	}
	return false
}

func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	defer r.s.write(ctx)()
	if r.studentIDTaken(student.StudentID, "") {
		return apperrors.ErrStudentIDAlreadyExists
	}
	student.ID = r.s.data.register()
	student.CreatedAt = r.s.now()
	r.s.data.students[student.ID] = cloneStudent(student)
	return nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	defer r.s.read(ctx)()
	st, ok := r.s.data.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return cloneStudent(st), nil
}

func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	defer r.s.read(ctx)()
	for _, st := range r.s.data.students {
		if st.StudentID == studentID {
			return cloneStudent(st), nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *StudentRepository) findActive(ctx context.Context, match func(*models.Student) bool) []*models.Student {
	defer r.s.read(ctx)()
	var out []*models.Student
	for _, st := range r.s.data.students {
		if st.IsActive && match(st) {
			out = append(out, cloneStudent(st))
		}
	}
	return out
}

func (r *StudentRepository) FindActiveByStudentID(ctx context.Context, studentID string) ([]*models.Student, error) {
	return r.findActive(ctx, func(st *models.Student) bool {
		return st.StudentID == studentID
	}), nil
}

func (r *StudentRepository) FindActiveByStudentIDAndEmail(ctx context.Context, studentID, email string) ([]*models.Student, error) {
	return r.findActive(ctx, func(st *models.Student) bool {
		return st.StudentID == studentID && st.Email != nil && *st.Email == email
	}), nil
}

func (r *StudentRepository) matching(filter models.StudentFilter) []*models.Student {
	var out []*models.Student
	for _, st := range r.s.data.students {
		if filter.ActiveOnly && !st.IsActive {
			continue
		}
		if filter.Search != "" && !contains(st.FullName, filter.Search) &&
			!contains(st.StudentID, filter.Search) && !contains(st.Class, filter.Search) {
			continue
		}
		out = append(out, st)
	}
	return out
}

func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, int64, error) {
	defer r.s.read(ctx)()
	all := r.matching(filter)
	newestFirst(all,
		func(st *models.Student) time.Time { return st.CreatedAt },
		func(st *models.Student) int { return r.s.data.seq[st.ID] })

	out := make([]*models.Student, 0, len(all))
	for _, st := range page(all, filter.Offset, filter.Limit) {
		out = append(out, cloneStudent(st))
	}
	return out, int64(len(all)), nil
}

func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	defer r.s.write(ctx)()
	if err := r.s.failure(OpUpdateStudent); err != nil {
		return err
	}
	current, ok := r.s.data.students[student.ID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if r.studentIDTaken(student.StudentID, student.ID) {
		return apperrors.ErrStudentIDAlreadyExists
	}
	updated := cloneStudent(student)
	updated.CreatedAt = current.CreatedAt
	updated.CreatedBy = current.CreatedBy
	r.s.data.students[student.ID] = updated
	return nil
}

func (r *StudentRepository) UpdatePIN(ctx context.Context, id, pin string) error {
	defer r.s.write(ctx)()
	if err := r.s.failure(OpUpdatePIN); err != nil {
		return err
	}
	st, ok := r.s.data.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	st.PIN = pin
	return nil
}

// Delete removes the student together with its results
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	defer r.s.write(ctx)()
	if _, ok := r.s.data.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(r.s.data.students, id)
	for rid, res := range r.s.data.results {
		if res.StudentID == id {
			delete(r.s.data.results, rid)
		}
	}
	return nil
}

func (r *StudentRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	defer r.s.read(ctx)()
	return int64(len(r.matching(models.StudentFilter{ActiveOnly: activeOnly}))), nil
}

// ResultRepository is the in-memory repositories.ResultRepository
type ResultRepository struct{ s *Store }

// withStudent must be called with mu held
func (r *ResultRepository) withStudent(res *models.Result) *models.Result {
	c := cloneResult(res)
	if st, ok := r.s.data.students[res.StudentID]; ok {
		c.Student = cloneStudent(st)
	}
	return c
}

func (r *ResultRepository) Create(ctx context.Context, result *models.Result) error {
	defer r.s.write(ctx)()
	if err := r.s.failure(OpCreateResult); err != nil {
		return err
	}
	if _, ok := r.s.data.students[result.StudentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	result.ID = r.s.data.register()
	result.CreatedAt = r.s.now()
	r.s.data.results[result.ID] = cloneResult(result)
	return nil
}

func (r *ResultRepository) GetByID(ctx context.Context, id string) (*models.Result, error) {
	defer r.s.read(ctx)()
	res, ok := r.s.data.results[id]
	if !ok {
		return nil, apperrors.ErrResultNotFound
	}
	return r.withStudent(res), nil
}

func (r *ResultRepository) matches(res *models.Result, filter models.ResultFilter) bool {
	if filter.StudentID != "" && res.StudentID != filter.StudentID {
		return false
	}
	if filter.Term != "" && res.Term != filter.Term {
		return false
	}
	if filter.Session != "" && res.Session != filter.Session {
		return false
	}
	if filter.Search == "" {
		return true
	}
	if contains(string(res.Term), filter.Search) || contains(res.Session, filter.Search) {
		return true
	}
	st, ok := r.s.data.students[res.StudentID]
	return ok && (contains(st.FullName, filter.Search) || contains(st.StudentID, filter.Search))
}

func (r *ResultRepository) List(ctx context.Context, filter models.ResultFilter) ([]*models.Result, int64, error) {
	defer r.s.read(ctx)()
	var all []*models.Result
	for _, res := range r.s.data.results {
		if r.matches(res, filter) {
			all = append(all, res)
		}
	}
	newestFirst(all,
		func(res *models.Result) time.Time { return res.CreatedAt },
		func(res *models.Result) int { return r.s.data.seq[res.ID] })

	out := make([]*models.Result, 0, len(all))
	for _, res := range page(all, filter.Offset, filter.Limit) {
		out = append(out, r.withStudent(res))
	}
	return out, int64(len(all)), nil
}

func (r *ResultRepository) Update(ctx context.Context, result *models.Result) error {
	defer r.s.write(ctx)()
	current, ok := r.s.data.results[result.ID]
	if !ok {
		return apperrors.ErrResultNotFound
	}
	updated := cloneResult(result)
	updated.StudentID = current.StudentID
	updated.CreatedAt = current.CreatedAt
	updated.CreatedBy = current.CreatedBy
	r.s.data.results[result.ID] = updated
	return nil
}

func (r *ResultRepository) Delete(ctx context.Context, id string) error {
	defer r.s.write(ctx)()
	if _, ok := r.s.data.results[id]; !ok {
		return apperrors.ErrResultNotFound
	}
	delete(r.s.data.results, id)
	return nil
}

func (r *ResultRepository) Count(ctx context.Context) (int64, error) {
	defer r.s.read(ctx)()
	return int64(len(r.s.data.results)), nil
}

// Sessions returns the student's distinct session labels in descending order
func (r *ResultRepository) Sessions(ctx context.Context, studentID string) ([]string, error) {
	defer r.s.read(ctx)()
	seen := map[string]struct{}{}
	sessions := []string{}
	for _, res := range r.s.data.results {
		if res.StudentID != studentID {
			continue
		}
		if _, ok := seen[res.Session]; ok {
			continue
		}
		seen[res.Session] = struct{}{}
		sessions = append(sessions, res.Session)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(sessions)))
	return sessions, nil
}

// SettingsRepository is the in-memory repositories.SettingsRepository
type SettingsRepository struct{ s *Store }

func (r *SettingsRepository) Get(ctx context.Context) (*models.SchoolSettings, error) {
	defer r.s.read(ctx)()
	if r.s.data.settings == nil {
		return nil, apperrors.ErrResourceNotFound
	}
	return cloneSettings(r.s.data.settings), nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.SchoolSettings) error {
	defer r.s.write(ctx)()
	if err := r.s.failure(OpUpsertSettings); err != nil {
		return err
	}
	if r.s.data.settings == nil {
		settings.ID = r.s.data.register()
	} else {
		settings.ID = r.s.data.settings.ID
	}
	settings.UpdatedAt = r.s.now()
	r.s.data.settings = cloneSettings(settings)
	return nil
}

// ActivityLogRepository is the in-memory repositories.ActivityLogRepository
type ActivityLogRepository struct{ s *Store }

func (r *ActivityLogRepository) Append(ctx context.Context, entry *models.ActivityLog) error {
	defer r.s.write(ctx)()
	if err := r.s.failure(OpAppendActivity); err != nil {
		return err
	}
	if entry.Metadata == nil {
		entry.Metadata = map[string]any{}
	}
	entry.ID = r.s.data.register()
	entry.CreatedAt = r.s.now()
	r.s.data.logs = append(r.s.data.logs, cloneLog(entry))
	return nil
}

func (r *ActivityLogRepository) matching(filter models.ActivityLogFilter) []*models.ActivityLog {
	var out []*models.ActivityLog
	for _, l := range r.s.data.logs {
		if filter.ActorType != "" && l.ActorType != filter.ActorType {
			continue
		}
		if filter.Search != "" && !contains(l.Action, filter.Search) && !contains(l.Description, filter.Search) {
			continue
		}
		if filter.Since != nil && l.CreatedAt.Before(*filter.Since) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (r *ActivityLogRepository) List(ctx context.Context, filter models.ActivityLogFilter) ([]*models.ActivityLog, error) {
	defer r.s.read(ctx)()
	all := r.matching(filter)
	newestFirst(all,
		func(l *models.ActivityLog) time.Time { return l.CreatedAt },
		func(l *models.ActivityLog) int { return r.s.data.seq[l.ID] })

	out := make([]*models.ActivityLog, 0, len(all))
	for _, l := range page(all, 0, filter.Limit) {
		out = append(out, cloneLog(l))
	}
	return out, nil
}

func (r *ActivityLogRepository) Count(ctx context.Context, filter models.ActivityLogFilter) (int64, error) {
	defer r.s.read(ctx)()
	return int64(len(r.matching(filter))), nil
}

// TokenRepository is the in-memory repositories.TokenRepository
type TokenRepository struct{ s *Store }

func (r *TokenRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	defer r.s.write(ctx)()
	if _, ok := r.s.data.revoked[tokenID]; !ok {
		r.s.data.revoked[tokenID] = expiresAt
	}
	return nil
}

func (r *TokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	defer r.s.read(ctx)()
	_, ok := r.s.data.revoked[tokenID]
	return ok, nil
}

func (r *TokenRepository) CleanupExpired(ctx context.Context) (int64, error) {
	defer r.s.write(ctx)()
	now := r.s.now()
	var n int64
	for id, exp := range r.s.data.revoked {
		if exp.Before(now) {
			delete(r.s.data.revoked, id)
			n++
		}
	}
	return n, nil
}
