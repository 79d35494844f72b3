package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/scholaris/resultportal/internal/app/grading"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/models/dto"
	"github.com/scholaris/resultportal/internal/app/repositories"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
	"github.com/scholaris/resultportal/internal/pkg/helpers"
)

// ResultService manages graded term results
type ResultService struct {
	tx       repositories.Transactor
	results  repositories.ResultRepository
	students repositories.StudentRepository
	auditor  *Auditor
	logger   zerolog.Logger
}

// NewResultService creates a new ResultService
func NewResultService(repos *repositories.Repositories, auditor *Auditor, logger zerolog.Logger) *ResultService {
	return &ResultService{
		tx:       repos.Transactor,
		results:  repos.ResultRepository,
		students: repos.StudentRepository,
		auditor:  auditor,
		logger:   logger,
	}
}

// ResultQuery narrows the admin result listing
type ResultQuery struct {
	StudentID string
	Term      models.Term
	Session   string
	Search    string
	Page      int
	Size      int
}

// List returns one page of results with their students, newest first
func (s *ResultService) List(ctx context.Context, q ResultQuery) (*dto.ResultListResponse, error) {
	if q.StudentID != "" {
		if err := validateID(q.StudentID, apperrors.ErrStudentNotFound); err != nil {
			return nil, err
		}
	}
	offset, limit := helpers.CalculateOffsetLimit(q.Page, q.Size)
	results, total, err := s.results.List(ctx, models.ResultFilter{
		StudentID: q.StudentID,
		Term:      q.Term,
		Session:   strings.TrimSpace(q.Session),
		Search:    strings.TrimSpace(q.Search),
		Offset:    offset,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return &dto.ResultListResponse{
		Results:    results,
		Pagination: helpers.NewPaginationInfo(total, q.Page, limit),
	}, nil
}

// Get retrieves a result with its student
func (s *ResultService) Get(ctx context.Context, id string) (*models.Result, error) {
	if err := validateID(id, apperrors.ErrResultNotFound); err != nil {
		return nil, err
	}
	return s.results.GetByID(ctx, id)
}

// Preview grades subjects without saving anything
func (s *ResultService) Preview(subjects []models.SubjectScore) *dto.PreviewResponse {
	graded := grading.Grade(subjects)
	agg := grading.Recompute(graded)
	return &dto.PreviewResponse{
		Subjects:   graded,
		TotalScore: agg.Total,
		Average:    agg.Average,
	}
}

func applyRequest(r *models.Result, req *dto.ResultRequest) {
	r.Term = req.Term
	r.Session = strings.TrimSpace(req.Session)
	r.Subjects = dto.ToSubjects(req.Subjects)
	r.Position = req.Position
	r.TeacherComment = req.TeacherComment
	r.PrincipalComment = req.PrincipalComment
	r.AttendancePresent = req.AttendancePresent
	r.AttendanceTotal = req.AttendanceTotal
	grading.Apply(r)
}

// Create grades and saves a new result for an existing student
func (s *ResultService) Create(ctx context.Context, admin *models.Admin, req *dto.ResultRequest) (*models.Result, error) {
	if err := validateID(req.StudentID, apperrors.ErrStudentNotFound); err != nil {
		return nil, err
	}
	if !req.Term.Valid() {
		return nil, fmt.Errorf("%w: unknown term %q", apperrors.ErrValidationFailed, req.Term)
	}

	result := &models.Result{StudentID: req.StudentID, CreatedBy: &admin.ID}
	applyRequest(result, req)

	err := audited(ctx, s.tx, s.auditor, admin, func(ctx context.Context) (auditEntry, error) {
		student, err := s.students.GetByID(ctx, req.StudentID)
		if err != nil {
			return auditEntry{}, err
		}
		if err := s.results.Create(ctx, result); err != nil {
			return auditEntry{}, err
		}
		result.Student = student
		return auditEntry{
			action:      models.ActionAddResult,
			description: fmt.Sprintf("Added result for %s %s", result.Term, result.Session),
			metadata:    map[string]any{"student_id": student.StudentID, "result_id": result.ID},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("resultId", result.ID).Float64("average", result.Average).Msg("Result created")
	return result, nil
}

// Update regrades and saves a result. The owning student cannot change.
func (s *ResultService) Update(ctx context.Context, admin *models.Admin, id string, req *dto.ResultRequest) (*models.Result, error) {
	if err := validateID(id, apperrors.ErrResultNotFound); err != nil {
		return nil, err
	}
	if !req.Term.Valid() {
		return nil, fmt.Errorf("%w: unknown term %q", apperrors.ErrValidationFailed, req.Term)
	}

	var result *models.Result
	err := audited(ctx, s.tx, s.auditor, admin, func(ctx context.Context) (auditEntry, error) {
		current, err := s.results.GetByID(ctx, id)
		if err != nil {
			return auditEntry{}, err
		}
		if req.StudentID != "" && req.StudentID != current.StudentID {
			return auditEntry{}, fmt.Errorf("%w: a result cannot be moved to another student", apperrors.ErrValidationFailed)
		}
		applyRequest(current, req)
		if err := s.results.Update(ctx, current); err != nil {
			return auditEntry{}, err
		}
		result = current
		return auditEntry{
			action:      models.ActionUpdateResult,
			description: fmt.Sprintf("Updated result for %s %s", current.Term, current.Session),
			metadata:    map[string]any{"result_id": current.ID},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a result
func (s *ResultService) Delete(ctx context.Context, admin *models.Admin, id string) error {
	if err := validateID(id, apperrors.ErrResultNotFound); err != nil {
		return err
	}

	return audited(ctx, s.tx, s.auditor, admin, func(ctx context.Context) (auditEntry, error) {
		result, err := s.results.GetByID(ctx, id)
		if err != nil {
			return auditEntry{}, err
		}
		if err := s.results.Delete(ctx, id); err != nil {
			return auditEntry{}, err
		}
		return auditEntry{
			action:      models.ActionDeleteResult,
			description: fmt.Sprintf("Deleted result for %s %s", result.Term, result.Session),
			metadata:    map[string]any{"result_id": result.ID},
		}, nil
	})
}
