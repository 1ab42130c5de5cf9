package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// FakeSessionRepository is an in-memory repository.SessionRepository. TTLs are ignored.
type FakeSessionRepository struct {
	mu       sync.Mutex
	logins   map[string]bool
	flashes  map[string][]entity.Flash
	pointers map[string]uint
}

func NewFakeSessionRepository() *FakeSessionRepository {
	return &FakeSessionRepository{
		logins:   make(map[string]bool),
		flashes:  make(map[string][]entity.Flash),
		pointers: make(map[string]uint),
	}
}

func loginKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s", userID, tokenID)
}

func (r *FakeSessionRepository) SaveLogin(_ context.Context, userID uuid.UUID, tokenID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins[loginKey(userID, tokenID)] = true
	return nil
}

func (r *FakeSessionRepository) LoginExists(_ context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.logins[loginKey(userID, tokenID)], nil
}

func (r *FakeSessionRepository) DeleteLogin(_ context.Context, userID uuid.UUID, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.logins, loginKey(userID, tokenID))
	return nil
}

func (r *FakeSessionRepository) AddFlash(_ context.Context, sessionID string, flash entity.Flash) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flashes[sessionID] = append(r.flashes[sessionID], flash)
	return nil
}

func (r *FakeSessionRepository) PopFlashes(_ context.Context, sessionID string) ([]entity.Flash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	flashes := r.flashes[sessionID]
	delete(r.flashes, sessionID)
	return flashes, nil
}

func (r *FakeSessionRepository) SetLastAppointment(_ context.Context, sessionID string, appointmentID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pointers[sessionID] = appointmentID
	return nil
}

func (r *FakeSessionRepository) PopLastAppointment(_ context.Context, sessionID string) (uint, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.pointers[sessionID]
	delete(r.pointers, sessionID)
	return id, ok, nil
}

// Flashes returns the queued flashes of a session without consuming them.
func (r *FakeSessionRepository) Flashes(sessionID string) []entity.Flash {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.Flash(nil), r.flashes[sessionID]...)
}
