package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/repositories"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
	"github.com/scholaris/resultportal/internal/pkg/logger"
)

// ErrNotOwner is returned when a student asks for someone else's result
var ErrNotOwner = errors.New("result belongs to another student")

// AuthorizationService handles ownership checks on student-facing resources
type AuthorizationService struct {
	resultRepo repositories.ResultRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(resultRepo repositories.ResultRepository) *AuthorizationService {
	return &AuthorizationService{resultRepo: resultRepo}
}

// ResultForStudent loads a result the student owns. Results of other students
// are reported as not found so their existence is not revealed.
func (s *AuthorizationService) ResultForStudent(ctx context.Context, student *models.Student, resultID string) (*models.Result, error) {
	if student == nil {
		return nil, apperrors.NewForbiddenError("student session required")
	}
	if _, err := uuid.Parse(resultID); err != nil {
		return nil, apperrors.ErrResultNotFound
	}

	result, err := s.resultRepo.GetByID(ctx, resultID)
	if err != nil {
		return nil, err
	}
	if result.StudentID != student.ID {
		logger.Warn().
			Str("studentId", student.ID).
			Str("resultId", resultID).
			Err(ErrNotOwner).
			Msg("Student requested a result they do not own")
		return nil, apperrors.ErrResultNotFound
	}
	return result, nil
}
