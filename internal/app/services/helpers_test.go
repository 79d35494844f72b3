package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/scholaris/resultportal/internal/app/auth"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/repositories"
	"github.com/scholaris/resultportal/internal/app/repositories/memory"
	pkgauth "github.com/scholaris/resultportal/internal/pkg/auth"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	repos    *repositories.Repositories
	store    *memory.Store
	auditor  *Auditor
	jwt      *pkgauth.JWTService
	auth     *AuthService
	students *StudentService
	results  *ResultService
	settings *SettingsService
	activity *ActivityService
	portal   *PortalService
	hasher   *pkgauth.BcryptVerifier
}

func newTestEnv(t *testing.T, opts ...AuthOption) *testEnv {
	t.Helper()
	repos, store := memory.NewRepositories()
	log := zerolog.Nop()
	hasher := pkgauth.NewBcryptVerifier(bcrypt.MinCost)
	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "resultportal-test",
	})
	auditor := NewAuditor(repos.ActivityLogRepository, log)
	settings := NewSettingsService(repos, auditor, nil, log)

	opts = append([]AuthOption{WithPasswordVerifier(hasher)}, opts...)
	return &testEnv{
		repos:    repos,
		store:    store,
		auditor:  auditor,
		jwt:      jwtService,
		auth:     NewAuthService(repos, auditor, jwtService, log, opts...),
		students: NewStudentService(repos, auditor, log),
		results:  NewResultService(repos, auditor, log),
		settings: settings,
		activity: NewActivityService(repos, 0, log),
		portal:   NewPortalService(repos, auth.NewAuthorizationService(repos.ResultRepository), settings, log),
		hasher:   hasher,
	}
}

func (e *testEnv) addAdmin(t *testing.T, email, password string, active bool) *models.Admin {
	t.Helper()
	hash, err := e.hasher.Hash(password)
	require.NoError(t, err)
	admin := &models.Admin{Email: email, FullName: "Ada Obi", PasswordHash: hash, IsActive: active}
	require.NoError(t, e.repos.AdminRepository.Create(context.Background(), admin))
	return admin
}

func (e *testEnv) addStudent(t *testing.T, studentID, name, pin string, email *string, active bool) *models.Student {
	t.Helper()
	student := &models.Student{
		StudentID: studentID,
		FullName:  name,
		Email:     email,
		PIN:       pin,
		Class:     "JSS 2",
		IsActive:  active,
	}
	require.NoError(t, e.repos.StudentRepository.Create(context.Background(), student))
	return student
}

func (e *testEnv) auditEntries(t *testing.T) []*models.ActivityLog {
	t.Helper()
	logs, err := e.repos.ActivityLogRepository.List(context.Background(), models.ActivityLogFilter{})
	require.NoError(t, err)
	return logs
}

func strPtr(s string) *string { return &s }
