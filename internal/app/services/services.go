// Package services holds the business logic of the result portal.
//
// Services defined in this package:
//   - AuthService: admin and student login, PIN reset, session tokens
//   - StudentService: student records managed by administrators
//   - ResultService: graded term results
//   - SettingsService: school branding
//   - ActivityService: the audit trail viewer and dashboard counters
//   - PortalService: a student's own results and result cards
//
// Every mutation runs in one transaction together with exactly one audit entry.
package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/repositories"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
)

// Auditor appends entries to the activity log
type Auditor struct {
	logs   repositories.ActivityLogRepository
	logger zerolog.Logger
}

// NewAuditor creates a new Auditor
func NewAuditor(logs repositories.ActivityLogRepository, logger zerolog.Logger) *Auditor {
	return &Auditor{logs: logs, logger: logger}
}

// Record appends one entry for actor. Pass the transaction ctx to make it part of the mutation.
func (a *Auditor) Record(ctx context.Context, actor models.Actor, action, description string, metadata map[string]any) error {
	entry := models.NewActivityLog(actor, action, description, metadata)
	if err := a.logs.Append(ctx, entry); err != nil {
		a.logger.Error().Err(err).
			Str("action", action).
			Str("actorType", string(actor.Kind())).
			Str("actorId", actor.ActorID()).
			Msg("Failed to append activity log")
		return fmt.Errorf("failed to record %s: %w", action, err)
	}
	return nil
}

// auditEntry describes the audit record of a finished mutation
type auditEntry struct {
	action      string
	description string
	metadata    map[string]any
}

// audited runs mutate and records its entry in a single transaction.
// If either step fails nothing is kept.
func audited(
	ctx context.Context,
	tx repositories.Transactor,
	auditor *Auditor,
	actor models.Actor,
	mutate func(ctx context.Context) (auditEntry, error),
) error {
	if actor == nil {
		return apperrors.NewForbiddenError("an authenticated actor is required")
	}
	return tx.WithinTransaction(ctx, func(ctx context.Context) error {
		entry, err := mutate(ctx)
		if err != nil {
			return err
		}
		return auditor.Record(ctx, actor, entry.action, entry.description, entry.metadata)
	})
}
