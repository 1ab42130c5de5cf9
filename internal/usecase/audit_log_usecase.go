package usecase

import (
	"context"
	"errors"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrAuditLogNotFound = errors.New("audit log not found")

// AuditLogUsecase is the read side of the audit trail; entries are written by service.AuditService.
type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, filter entity.AuditLogFilter) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(db *gorm.DB, log *logrus.Logger, auditLogRepo repository.AuditLogRepository) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, filter entity.AuditLogFilter) (*dto.AuditLogListResponse, error) {
	filter.Page = filter.Page.Normalize()

	entries, total, err := u.auditLogRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.WithField("action", filter.Action).Warnf("Failed to list audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(entries),
		Total: total,
		Page:  filter.Page.Page,
		Limit: filter.Page.Limit,
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	entry, err := u.auditLogRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find audit log %d: %+v", id, err)
		return nil, err
	}
	if entry == nil {
		return nil, ErrAuditLogNotFound
	}
	return converter.AuditLogToResponse(entry), nil
}
