package repositories

import (
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
	"github.com/scholaris/resultportal/internal/pkg/dberrors"
	"github.com/scholaris/resultportal/internal/pkg/logger"
)

func newStatementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// storeError logs a driver failure and converts it to ErrStoreUnavailable.
// Unique violations no caller anticipated become ErrResourceAlreadyExists.
func storeError(op string, err error) error {
	if dberrors.IsUniqueViolation(err) {
		logger.Warn().Err(err).Str("op", op).Msg("unexpected unique violation")
		return apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, "Resource already exists")
	}
	msg := "database error"
	if dberrors.IsUnavailable(err) {
		msg = "database unreachable"
	}
	logger.Error().Err(err).Str("op", op).Msg(msg)
	return apperrors.NewStoreUnavailableError(op+": "+msg, err)
}

// notFoundOr maps pgx.ErrNoRows to notFound and everything else to a store error
func notFoundOr(op string, err, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) || dberrors.IsInvalidTextRepresentation(err) {
		return notFound
	}
	return storeError(op, err)
}

// likePattern escapes s for use inside an ILIKE pattern
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}
