package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/models/dto"
	"github.com/scholaris/resultportal/internal/app/repositories"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
	"github.com/scholaris/resultportal/internal/pkg/auth"
	"github.com/scholaris/resultportal/internal/pkg/helpers"
)

// StudentService manages student records on behalf of administrators
type StudentService struct {
	tx       repositories.Transactor
	students repositories.StudentRepository
	auditor  *Auditor
	newPIN   func() (string, error)
	logger   zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(repos *repositories.Repositories, auditor *Auditor, logger zerolog.Logger) *StudentService {
	return &StudentService{
		tx:       repos.Transactor,
		students: repos.StudentRepository,
		auditor:  auditor,
		newPIN:   auth.GeneratePIN,
		logger:   logger,
	}
}

// validateID rejects identifiers that cannot name a stored row
func validateID(id string, notFound error) error {
	if _, err := uuid.Parse(id); err != nil {
		return notFound
	}
	return nil
}

// List returns one page of students, newest first
func (s *StudentService) List(ctx context.Context, search string, page, size int) (*dto.StudentListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	students, total, err := s.students.List(ctx, models.StudentFilter{
		Search: strings.TrimSpace(search),
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return &dto.StudentListResponse{
		Students:   students,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// Get retrieves a student by internal ID
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	if err := validateID(id, apperrors.ErrStudentNotFound); err != nil {
		return nil, err
	}
	return s.students.GetByID(ctx, id)
}

// Create registers a student, generating a PIN when none is given
func (s *StudentService) Create(ctx context.Context, admin *models.Admin, req *dto.CreateStudentRequest) (*models.Student, error) {
	pin := req.PIN
	if pin == "" {
		generated, err := s.newPIN()
		if err != nil {
			return nil, fmt.Errorf("failed to generate PIN: %w", err)
		}
		pin = generated
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	student := &models.Student{
		StudentID: strings.TrimSpace(req.StudentID),
		FullName:  strings.TrimSpace(req.FullName),
		Email:     dto.NormalizeEmail(req.Email),
		PIN:       pin,
		Class:     strings.TrimSpace(req.Class),
		IsActive:  active,
		CreatedBy: &admin.ID,
	}

	err := audited(ctx, s.tx, s.auditor, admin, func(ctx context.Context) (auditEntry, error) {
		if err := s.students.Create(ctx, student); err != nil {
			return auditEntry{}, err
		}
		return auditEntry{
			action:      models.ActionAddStudent,
			description: fmt.Sprintf("Added new student %s", student.FullName),
			metadata:    map[string]any{"student_id": student.StudentID},
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("studentId", student.StudentID).Str("adminId", admin.ID).Msg("Student created")
	return student, nil
}

// Update replaces the editable fields of a student
func (s *StudentService) Update(ctx context.Context, admin *models.Admin, id string, req *dto.UpdateStudentRequest) (*models.Student, error) {
	if err := validateID(id, apperrors.ErrStudentNotFound); err != nil {
		return nil, err
	}

	var student *models.Student
	err := audited(ctx, s.tx, s.auditor, admin, func(ctx context.Context) (auditEntry, error) {
		current, err := s.students.GetByID(ctx, id)
		if err != nil {
			return auditEntry{}, err
		}
		current.StudentID = strings.TrimSpace(req.StudentID)
		current.FullName = strings.TrimSpace(req.FullName)
		current.Email = dto.NormalizeEmail(req.Email)
		current.PIN = req.PIN
		current.Class = strings.TrimSpace(req.Class)
		current.IsActive = req.IsActive
		if err := s.students.Update(ctx, current); err != nil {
			return auditEntry{}, err
		}
		student = current
		return auditEntry{
			action:      models.ActionUpdateStudent,
			description: fmt.Sprintf("Updated student %s", current.FullName),
			metadata:    map[string]any{"student_id": current.StudentID},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return student, nil
}

// Delete removes a student together with all of their results
func (s *StudentService) Delete(ctx context.Context, admin *models.Admin, id string) error {
	if err := validateID(id, apperrors.ErrStudentNotFound); err != nil {
		return err
	}

	return audited(ctx, s.tx, s.auditor, admin, func(ctx context.Context) (auditEntry, error) {
		student, err := s.students.GetByID(ctx, id)
		if err != nil {
			return auditEntry{}, err
		}
		if err := s.students.Delete(ctx, id); err != nil {
			return auditEntry{}, err
		}
		return auditEntry{
			action:      models.ActionDeleteStudent,
			description: fmt.Sprintf("Deleted student %s", student.FullName),
			metadata:    map[string]any{"student_id": student.StudentID},
		}, nil
	})
}

// RegeneratePIN replaces a student's PIN with a fresh one and returns it
func (s *StudentService) RegeneratePIN(ctx context.Context, admin *models.Admin, id string) (string, error) {
	if err := validateID(id, apperrors.ErrStudentNotFound); err != nil {
		return "", err
	}

	var pin string
	err := audited(ctx, s.tx, s.auditor, admin, func(ctx context.Context) (auditEntry, error) {
		student, err := s.students.GetByID(ctx, id)
		if err != nil {
			return auditEntry{}, err
		}
		generated, err := s.newPIN()
		if err != nil {
			return auditEntry{}, fmt.Errorf("failed to generate PIN: %w", err)
		}
		if err := s.students.UpdatePIN(ctx, id, generated); err != nil {
			return auditEntry{}, err
		}
		pin = generated
		return auditEntry{
			action:      models.ActionResetPIN,
			description: fmt.Sprintf("PIN regenerated for %s", student.FullName),
			metadata:    map[string]any{"student_id": student.StudentID},
		}, nil
	})
	if err != nil {
		return "", err
	}
	return pin, nil
}
