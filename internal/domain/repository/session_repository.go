package repository

import (
	"context"
	"time"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionRepository stores per-browser state: live login sessions, pending flash messages and
// the pointer to the most recently booked appointment.
type SessionRepository interface {
	SaveLogin(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error
	LoginExists(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	DeleteLogin(ctx context.Context, userID uuid.UUID, tokenID string) error

	AddFlash(ctx context.Context, sessionID string, flash entity.Flash) error
	PopFlashes(ctx context.Context, sessionID string) ([]entity.Flash, error)

	SetLastAppointment(ctx context.Context, sessionID string, appointmentID uint) error
	// PopLastAppointment returns the pointer and clears it; ok is false when none is set.
	PopLastAppointment(ctx context.Context, sessionID string) (appointmentID uint, ok bool, err error)
}
