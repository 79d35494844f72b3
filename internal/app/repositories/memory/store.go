// Package memory implements the repository interfaces in process memory.
// It backs the "memory" database driver and the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/repositories"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
)

// Operation names accepted by FailOn
const (
	OpAppendActivity = "activity.append"
	OpUpdateStudent  = "student.update"
	OpUpdatePIN      = "student.update_pin"
	OpTouchLogin     = "admin.touch_last_login"
	OpUpsertSettings = "settings.upsert"
	OpCreateResult   = "result.create"
)

type data struct {
	admins   map[string]*models.Admin
	students map[string]*models.Student
	results  map[string]*models.Result
	settings *models.SchoolSettings
	logs     []*models.ActivityLog
	revoked  map[string]time.Time
	seq      map[string]int
	next     int
}

func newData() data {
	return data{
		admins:   map[string]*models.Admin{},
		students: map[string]*models.Student{},
		results:  map[string]*models.Result{},
		revoked:  map[string]time.Time{},
		seq:      map[string]int{},
	}
}

func (d data) clone() data {
	c := newData()
	for k, v := range d.admins {
		c.admins[k] = cloneAdmin(v)
	}
	for k, v := range d.students {
		c.students[k] = cloneStudent(v)
	}
	for k, v := range d.results {
		c.results[k] = cloneResult(v)
	}
	if d.settings != nil {
		c.settings = cloneSettings(d.settings)
	}
	c.logs = append(c.logs, d.logs...)
	for k, v := range d.revoked {
		c.revoked[k] = v
	}
	for k, v := range d.seq {
		c.seq[k] = v
	}
	c.next = d.next
	return c
}

// register assigns a fresh ID with its insertion sequence
func (d *data) register() string {
	id := uuid.New().String()
	d.next++
	d.seq[id] = d.next
	return id
}

// Store is an in-memory database shared by all memory repositories
type Store struct {
	mu       sync.RWMutex
	txMu     sync.RWMutex
	data     data
	failures map[string]error
	now      func() time.Time
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{
		data:     newData(),
		failures: map[string]error{},
		now:      time.Now,
	}
}

// SetClock replaces the time source used for created/updated timestamps
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// FailOn makes every later call of op fail with err. A nil err clears the failure.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// failure must be called with mu held
func (s *Store) failure(op string) error {
	if err, ok := s.failures[op]; ok {
		return apperrors.NewStoreUnavailableError(op, err)
	}
	return nil
}

type txKey struct{}

func inTransaction(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil
}

// write locks the store for a mutation and returns the unlock func.
// Outside a transaction it waits for any running transaction to finish.
func (s *Store) write(ctx context.Context) func() {
	if inTransaction(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// read is the shared counterpart of write
func (s *Store) read(ctx context.Context) func() {
	if inTransaction(ctx) {
		s.mu.RLock()
		return s.mu.RUnlock
	}
	s.txMu.RLock()
	s.mu.RLock()
	return func() {
		s.mu.RUnlock()
		s.txMu.RUnlock()
	}
}

// WithinTransaction runs fn with the store to itself and restores the
// previous state when fn fails. Nested calls join the outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTransaction(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// NewRepositories wires a fresh store into the repository container
func NewRepositories() (*repositories.Repositories, *Store) {
	s := NewStore()
	return s.Repositories(), s
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Transactor:            s,
		AdminRepository:       &AdminRepository{s},
		StudentRepository:     &StudentRepository{s},
		ResultRepository:      &ResultRepository{s},
		SettingsRepository:    &SettingsRepository{s},
		ActivityLogRepository: &ActivityLogRepository{s},
		TokenRepository:       &TokenRepository{s},
	}
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func page[T any](items []T, offset uint64, limit int) []T {
	if offset >= uint64(len(items)) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// newestFirst sorts by creation time descending, breaking ties by insertion sequence
func newestFirst[T any](items []T, created func(T) time.Time, seq func(T) int) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return seq(items[i]) > seq(items[j])
	})
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneAdmin(a *models.Admin) *models.Admin {
	c := *a
	if a.LastLogin != nil {
		t := *a.LastLogin
		c.LastLogin = &t
	}
	return &c
}

func cloneStudent(st *models.Student) *models.Student {
	c := *st
	c.Email = cloneString(st.Email)
	c.CreatedBy = cloneString(st.CreatedBy)
	return &c
}

func cloneResult(r *models.Result) *models.Result {
	c := *r
	c.Subjects = append([]models.SubjectScore{}, r.Subjects...)
	c.Position = cloneString(r.Position)
	c.TeacherComment = cloneString(r.TeacherComment)
	c.PrincipalComment = cloneString(r.PrincipalComment)
	c.CreatedBy = cloneString(r.CreatedBy)
	c.Student = nil
	return &c
}

func cloneSettings(st *models.SchoolSettings) *models.SchoolSettings {
	c := *st
	c.LogoURL = cloneString(st.LogoURL)
	c.PrincipalSignatureURL = cloneString(st.PrincipalSignatureURL)
	c.WatermarkText = cloneString(st.WatermarkText)
	c.UpdatedBy = cloneString(st.UpdatedBy)
	return &c
}

func cloneLog(l *models.ActivityLog) *models.ActivityLog {
	c := *l
	c.Metadata = make(map[string]any, len(l.Metadata))
	for k, v := range l.Metadata {
		c.Metadata[k] = v
	}
	return &c
}
