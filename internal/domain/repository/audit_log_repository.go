package repository

import (
	"clinic-booking/internal/domain/entity"

	"gorm.io/gorm"
)

// AuditLogRepository is append-only; entries are never updated or deleted by the application.
type AuditLogRepository interface {
	Create(db *gorm.DB, entry *entity.AuditLog) error
	FindAll(db *gorm.DB, filter entity.AuditLogFilter) ([]entity.AuditLog, int64, error)
	FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error)
}
