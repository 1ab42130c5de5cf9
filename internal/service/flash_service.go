package service

import (
	"context"

	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

// FlashService queues one-shot messages for the next page a browser session renders.
// Storage failures are logged and swallowed; a lost flash never fails the request.
type FlashService interface {
	Add(ctx context.Context, sessionID string, level entity.FlashLevel, message string)
	Pop(ctx context.Context, sessionID string) []entity.Flash
}

type flashService struct {
	log         *logrus.Logger
	sessionRepo repository.SessionRepository
}

func NewFlashService(log *logrus.Logger, sessionRepo repository.SessionRepository) FlashService {
	return &flashService{
		log:         log,
		sessionRepo: sessionRepo,
	}
}

func (s *flashService) Add(ctx context.Context, sessionID string, level entity.FlashLevel, message string) {
	if sessionID == "" {
		return
	}
	if err := s.sessionRepo.AddFlash(ctx, sessionID, entity.Flash{Level: level, Message: message}); err != nil {
		s.log.Warnf("Failed to store flash message: %+v", err)
	}
}

func (s *flashService) Pop(ctx context.Context, sessionID string) []entity.Flash {
	if sessionID == "" {
		return nil
	}
	flashes, err := s.sessionRepo.PopFlashes(ctx, sessionID)
	if err != nil {
		s.log.Warnf("Failed to read flash messages: %+v", err)
		return nil
	}
	return flashes
}
