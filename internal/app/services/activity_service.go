package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/models/dto"
	"github.com/scholaris/resultportal/internal/app/repositories"
)

// DefaultActivityLimit is how many entries the activity viewer shows by default
const DefaultActivityLimit = 100

// ActivityService reads the audit trail and the dashboard counters
type ActivityService struct {
	logs     repositories.ActivityLogRepository
	students repositories.StudentRepository
	results  repositories.ResultRepository
	limit    int
	now      func() time.Time
	logger   zerolog.Logger
}

// NewActivityService creates a new ActivityService. A non-positive limit selects DefaultActivityLimit.
func NewActivityService(repos *repositories.Repositories, limit int, logger zerolog.Logger) *ActivityService {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	return &ActivityService{
		logs:     repos.ActivityLogRepository,
		students: repos.StudentRepository,
		results:  repos.ResultRepository,
		limit:    limit,
		now:      time.Now,
		logger:   logger,
	}
}

// List returns the newest entries matching the query
func (s *ActivityService) List(ctx context.Context, q dto.ActivityLogQuery) (*dto.ActivityLogResponse, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = s.limit
	}
	filter := models.ActivityLogFilter{
		ActorType: q.ActorType,
		Search:    strings.TrimSpace(q.Search),
		Limit:     limit,
	}

	logs, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	total, err := s.logs.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count activity: %w", err)
	}
	return &dto.ActivityLogResponse{Logs: logs, Total: total}, nil
}

// Overview collects the dashboard counters. Recent activity covers the last 24 hours.
func (s *ActivityService) Overview(ctx context.Context) (*models.Overview, error) {
	var (
		o   models.Overview
		err error
	)
	if o.TotalStudents, err = s.students.Count(ctx, false); err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}
	if o.ActiveStudents, err = s.students.Count(ctx, true); err != nil {
		return nil, fmt.Errorf("failed to count active students: %w", err)
	}
	if o.TotalResults, err = s.results.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count results: %w", err)
	}
	since := s.now().Add(-24 * time.Hour)
	if o.RecentActivity, err = s.logs.Count(ctx, models.ActivityLogFilter{Since: &since}); err != nil {
		return nil, fmt.Errorf("failed to count recent activity: %w", err)
	}
	return &o, nil
}
