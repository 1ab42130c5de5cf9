package repository

import (
	"clinic-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type TreatmentRepository interface {
	Create(db *gorm.DB, treatment *entity.Treatment) error
	FindByID(db *gorm.DB, id uint) (*entity.Treatment, error)
	FindAll(db *gorm.DB, filter entity.TreatmentFilter) ([]entity.Treatment, error)
	Update(db *gorm.DB, treatment *entity.Treatment) error
	Delete(db *gorm.DB, id uint) (int64, error)
}
