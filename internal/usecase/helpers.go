package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-booking/internal/delivery/http/middleware"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var ErrNotAuthenticated = errors.New("user not found in context")

// duplicateConstraint reports whether err is a unique violation and, when the driver says so,
// which constraint was violated. Translated gorm errors carry no constraint name.
func duplicateConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return pgErr.ConstraintName, true
		}
		return "", false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}
	return "", false
}

// isDuplicateKeyError checks for a unique violation on constraintName. A violation whose
// constraint is unknown is assumed to match.
func isDuplicateKeyError(err error, constraintName string) bool {
	name, ok := duplicateConstraint(err)
	if !ok {
		return false
	}
	return name == "" || strings.Contains(strings.ToLower(name), strings.ToLower(constraintName))
}

func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

// actorID is the user recorded in audit entries; nil for anonymous callers.
func actorID(ctx context.Context) *uuid.UUID {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &userID
}
