package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	loginKeyPrefix   = "login_session"
	flashKeyPrefix   = "flash"
	pointerKeyPrefix = "last_appointment"

	flashTTL = 10 * time.Minute
)

type sessionRepository struct {
	client     *redis.Client
	pointerTTL time.Duration
}

// NewSessionRepository returns a Redis-backed session store. pointerTTL bounds how long the
// "last booked appointment" pointer survives if the confirmation page is never opened.
func NewSessionRepository(client *redis.Client, pointerTTL time.Duration) domainRepo.SessionRepository {
	return &sessionRepository{
		client:     client,
		pointerTTL: pointerTTL,
	}
}

func loginKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", loginKeyPrefix, userID.String(), tokenID)
}

func (r *sessionRepository) SaveLogin(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return r.client.Set(ctx, loginKey(userID, tokenID), "valid", ttl).Err()
}

func (r *sessionRepository) LoginExists(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	exists, err := r.client.Exists(ctx, loginKey(userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (r *sessionRepository) DeleteLogin(ctx context.Context, userID uuid.UUID, tokenID string) error {
	return r.client.Del(ctx, loginKey(userID, tokenID)).Err()
}

func (r *sessionRepository) AddFlash(ctx context.Context, sessionID string, flash entity.Flash) error {
	payload, err := json.Marshal(flash)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s:%s", flashKeyPrefix, sessionID)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.Expire(ctx, key, flashTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *sessionRepository) PopFlashes(ctx context.Context, sessionID string) ([]entity.Flash, error) {
	key := fmt.Sprintf("%s:%s", flashKeyPrefix, sessionID)

	pipe := r.client.TxPipeline()
	values := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	flashes := make([]entity.Flash, 0, len(values.Val()))
	for _, raw := range values.Val() {
		var flash entity.Flash
		if err := json.Unmarshal([]byte(raw), &flash); err != nil {
			continue
		}
		flashes = append(flashes, flash)
	}
	return flashes, nil
}

func (r *sessionRepository) SetLastAppointment(ctx context.Context, sessionID string, appointmentID uint) error {
	key := fmt.Sprintf("%s:%s", pointerKeyPrefix, sessionID)
	return r.client.Set(ctx, key, appointmentID, r.pointerTTL).Err()
}

func (r *sessionRepository) PopLastAppointment(ctx context.Context, sessionID string) (uint, bool, error) {
	key := fmt.Sprintf("%s:%s", pointerKeyPrefix, sessionID)
	raw, err := r.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		// A corrupted pointer is treated like a missing one.
		return 0, false, nil
	}
	return uint(id), true, nil
}
