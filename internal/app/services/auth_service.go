package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/repositories"
	"github.com/scholaris/resultportal/internal/app/session"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
	"github.com/scholaris/resultportal/internal/pkg/auth"
)

// AuthService handles authentication operations
type AuthService struct {
	tx        repositories.Transactor
	admins    repositories.AdminRepository
	students  repositories.StudentRepository
	tokens    repositories.TokenRepository
	auditor   *Auditor
	jwt       *auth.JWTService
	passwords auth.CredentialVerifier
	pins      auth.CredentialVerifier
	newPIN    func() (string, error)
	now       func() time.Time
	logger    zerolog.Logger

	decoyOnce sync.Once
	decoyHash string
}

// AuthOption customises an AuthService
type AuthOption func(*AuthService)

// WithPasswordVerifier replaces the admin credential verifier
func WithPasswordVerifier(v auth.CredentialVerifier) AuthOption {
	return func(s *AuthService) { s.passwords = v }
}

// WithPINVerifier replaces the student credential verifier
func WithPINVerifier(v auth.CredentialVerifier) AuthOption {
	return func(s *AuthService) { s.pins = v }
}

// WithPINGenerator replaces the PIN source used by ResetPIN
func WithPINGenerator(gen func() (string, error)) AuthOption {
	return func(s *AuthService) { s.newPIN = gen }
}

// WithClock replaces the time source used for last-login stamps
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// NewAuthService creates a new AuthService. Admin secrets are checked with bcrypt
// and PINs with a constant-time comparison unless overridden.
func NewAuthService(
	repos *repositories.Repositories,
	auditor *Auditor,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		tx:        repos.Transactor,
		admins:    repos.AdminRepository,
		students:  repos.StudentRepository,
		tokens:    repos.TokenRepository,
		auditor:   auditor,
		jwt:       jwtService,
		passwords: auth.NewBcryptVerifier(auth.DefaultBcryptCost),
		pins:      auth.PlainVerifier{},
		newPIN:    auth.GeneratePIN,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// credentialCheck describes one way an actor of type T proves who they are
type credentialCheck[T models.Actor] struct {
	operation string
	// identifier is only used for logging failed attempts
	identifier string
	// failure is returned for every rejected attempt
	failure error
	lookup  func(ctx context.Context) ([]T, error)
	// verify is nil when possession of the identifiers is the proof
	verify func(candidate T) bool
	// decoy runs in place of verify when the lookup found nobody
	decoy     func()
	onSuccess func(ctx context.Context, actor T) (auditEntry, error)
}

// authenticate finds exactly one verified candidate, then runs its success
// mutation and audit entry in one transaction. Zero or several matches are
// rejected with the same error.
func authenticate[T models.Actor](ctx context.Context, s *AuthService, check credentialCheck[T]) (T, error) {
	var zero T

	candidates, err := check.lookup(ctx)
	if err != nil {
		return zero, fmt.Errorf("%s lookup failed: %w", check.operation, err)
	}

	if len(candidates) == 0 && check.decoy != nil {
		check.decoy()
	}

	var matched []T
	for _, c := range candidates {
		if check.verify == nil || check.verify(c) {
			matched = append(matched, c)
		}
	}
	if len(matched) != 1 {
		s.logger.Warn().
			Str("operation", check.operation).
			Str("identifier", check.identifier).
			Int("candidates", len(candidates)).
			Int("matched", len(matched)).
			Msg("Authentication rejected")
		return zero, check.failure
	}

	actor := matched[0]
	err = audited(ctx, s.tx, s.auditor, actor, func(ctx context.Context) (auditEntry, error) {
		return check.onSuccess(ctx, actor)
	})
	if err != nil {
		return zero, err
	}

	s.logger.Info().
		Str("operation", check.operation).
		Str("actorType", string(actor.Kind())).
		Str("actorId", actor.ActorID()).
		Msg("Authentication succeeded")
	return actor, nil
}

// LoginAdmin authenticates an active administrator by email and password
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*models.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.ErrAdminLoginFailed
	}

	return authenticate(ctx, s, credentialCheck[*models.Admin]{
		operation:  "admin login",
		identifier: email,
		failure:    apperrors.ErrAdminLoginFailed,
		lookup: func(ctx context.Context) ([]*models.Admin, error) {
			return s.admins.FindActiveByEmail(ctx, email)
		},
		verify: func(a *models.Admin) bool {
			return s.passwords.Verify(a.PasswordHash, password)
		},
		decoy: func() { s.verifyDecoyPassword(password) },
		onSuccess: func(ctx context.Context, a *models.Admin) (auditEntry, error) {
			at := s.now().UTC()
			if err := s.admins.TouchLastLogin(ctx, a.ID, at); err != nil {
				return auditEntry{}, err
			}
			a.LastLogin = &at
			return auditEntry{
				action:      models.ActionLogin,
				description: fmt.Sprintf("Admin %s logged in", a.FullName),
				metadata:    map[string]any{"email": a.Email},
			}, nil
		},
	})
}

// verifyDecoyPassword spends the same hashing work as a real password check,
// so unknown and inactive emails answer in the same time as wrong passwords.
func (s *AuthService) verifyDecoyPassword(password string) {
	s.decoyOnce.Do(func() {
		hash, err := s.passwords.Hash(uuid.NewString())
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to derive decoy password hash")
			return
		}
		s.decoyHash = hash
	})
	s.passwords.Verify(s.decoyHash, password)
}

// LoginStudent authenticates an active student by student ID and PIN
func (s *AuthService) LoginStudent(ctx context.Context, studentID, pin string) (*models.Student, error) {
	studentID = strings.TrimSpace(studentID)
	pin = strings.TrimSpace(pin)
	if studentID == "" || pin == "" {
		return nil, apperrors.ErrStudentLoginFailed
	}

	return authenticate(ctx, s, credentialCheck[*models.Student]{
		operation:  "student login",
		identifier: studentID,
		failure:    apperrors.ErrStudentLoginFailed,
		lookup: func(ctx context.Context) ([]*models.Student, error) {
			return s.students.FindActiveByStudentID(ctx, studentID)
		},
		verify: func(st *models.Student) bool {
			return s.pins.Verify(st.PIN, pin)
		},
		onSuccess: func(_ context.Context, st *models.Student) (auditEntry, error) {
			return auditEntry{
				action:      models.ActionLogin,
				description: fmt.Sprintf("Student %s logged in", st.FullName),
				metadata:    map[string]any{"student_id": st.StudentID},
			}, nil
		},
	})
}

// ResetPIN issues a new PIN to the active student matching both student ID and email
func (s *AuthService) ResetPIN(ctx context.Context, studentID, email string) (string, error) {
	studentID = strings.TrimSpace(studentID)
	email = strings.ToLower(strings.TrimSpace(email))
	if studentID == "" || email == "" {
		return "", apperrors.ErrPINResetFailed
	}

	var pin string
	_, err := authenticate(ctx, s, credentialCheck[*models.Student]{
		operation:  "pin reset",
		identifier: studentID,
		failure:    apperrors.ErrPINResetFailed,
		lookup: func(ctx context.Context) ([]*models.Student, error) {
			return s.students.FindActiveByStudentIDAndEmail(ctx, studentID, email)
		},
		onSuccess: func(ctx context.Context, st *models.Student) (auditEntry, error) {
			generated, err := s.newPIN()
			if err != nil {
				return auditEntry{}, fmt.Errorf("failed to generate PIN: %w", err)
			}
			if err := s.students.UpdatePIN(ctx, st.ID, generated); err != nil {
				return auditEntry{}, err
			}
			st.PIN = generated
			pin = generated
			return auditEntry{
				action:      models.ActionResetPIN,
				description: fmt.Sprintf("PIN reset requested for %s", st.FullName),
				metadata:    map[string]any{"student_id": st.StudentID},
			}, nil
		},
	})
	if err != nil {
		return "", err
	}
	return pin, nil
}

// IssueSession signs an access token for an authenticated actor
func (s *AuthService) IssueSession(actor models.Actor) (*auth.IssuedToken, error) {
	token, err := s.jwt.GenerateAccessToken(actor)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}
	return token, nil
}

// Logout revokes the token. Revoking twice is not an error.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperrors.ErrTokenInvalid
	}
	expiresAt := s.now()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.tokens.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// Identify validates a token and loads the session it stands for.
// Deactivated or deleted actors lose their session immediately.
func (s *AuthService) Identify(ctx context.Context, tokenString string) (*session.Store, *auth.Claims, error) {
	claims, err := s.jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, nil, apperrors.ErrTokenRevoked
	}

	store := session.New()
	switch claims.ActorType {
	case models.ActorAdmin:
		admin, err := s.admins.GetByID(ctx, claims.ActorID)
		if err != nil {
			return nil, nil, notFoundAsInvalidToken(err)
		}
		if !admin.IsActive {
			return nil, nil, apperrors.ErrTokenInvalid
		}
		store.SetAdmin(admin)
	case models.ActorStudent:
		student, err := s.students.GetByID(ctx, claims.ActorID)
		if err != nil {
			return nil, nil, notFoundAsInvalidToken(err)
		}
		if !student.IsActive {
			return nil, nil, apperrors.ErrTokenInvalid
		}
		store.SetStudent(student)
	default:
		return nil, nil, apperrors.ErrTokenInvalid
	}
	return store, claims, nil
}

// CleanupRevokedTokens drops revocations whose tokens have expired anyway
func (s *AuthService) CleanupRevokedTokens(ctx context.Context) (int64, error) {
	return s.tokens.CleanupExpired(ctx)
}

func notFoundAsInvalidToken(err error) error {
	if errors.Is(err, apperrors.ErrAdminNotFound) || errors.Is(err, apperrors.ErrStudentNotFound) {
		return apperrors.ErrTokenInvalid
	}
	return err
}
