package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/scholaris/resultportal/internal/app/auth"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/models/dto"
	"github.com/scholaris/resultportal/internal/app/repositories"
)

// PortalService serves a logged-in student's own results
type PortalService struct {
	results  repositories.ResultRepository
	authz    *auth.AuthorizationService
	settings *SettingsService
	logger   zerolog.Logger
}

// NewPortalService creates a new PortalService
func NewPortalService(repos *repositories.Repositories, authz *auth.AuthorizationService, settings *SettingsService, logger zerolog.Logger) *PortalService {
	return &PortalService{
		results:  repos.ResultRepository,
		authz:    authz,
		settings: settings,
		logger:   logger,
	}
}

// Results lists the student's results newest first, optionally narrowed by term and session
func (s *PortalService) Results(ctx context.Context, student *models.Student, term models.Term, sessionLabel string) (*dto.PortalResultsResponse, error) {
	results, _, err := s.results.List(ctx, models.ResultFilter{
		StudentID: student.ID,
		Term:      term,
		Session:   strings.TrimSpace(sessionLabel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	sessions, err := s.results.Sessions(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return &dto.PortalResultsResponse{Results: results, Sessions: sessions}, nil
}

// Card assembles the result, the student and the school branding for printing
func (s *PortalService) Card(ctx context.Context, student *models.Student, resultID string) (*models.ResultCard, error) {
	result, err := s.authz.ResultForStudent(ctx, student, resultID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	owner := result.Student
	if owner == nil {
		owner = student
	}
	result.Student = nil
	return &models.ResultCard{Result: result, Student: owner, Settings: settings}, nil
}
