package repository

import (
	"errors"
	"strings"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(db *gorm.DB, entry *entity.AuditLog) error {
	return db.Omit("User").Create(entry).Error
}

// FindAll returns one page of matching entries, newest first, and the total number of matches.
func (r *auditLogRepository) FindAll(db *gorm.DB, filter entity.AuditLogFilter) ([]entity.AuditLog, int64, error) {
	page := filter.Page.Normalize()
	scoped := func(q *gorm.DB) *gorm.DB {
		if action := strings.TrimSpace(filter.Action); action != "" {
			q = q.Where("audit_logs.action LIKE ?", action+"%")
		}
		if filter.UserID != nil {
			q = q.Where("audit_logs.user_id = ?", *filter.UserID)
		}
		return q
	}

	var total int64
	if err := scoped(db.Model(&entity.AuditLog{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entity.AuditLog{}, 0, nil
	}

	var entries []entity.AuditLog
	err := scoped(db.Preload("User")).
		Order("audit_logs.created_at DESC").
		Order("audit_logs.id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *auditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	var entry entity.AuditLog
	if err := db.Preload("User").First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}
