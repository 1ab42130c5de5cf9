package repository

import (
	"clinic-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type DepartmentRepository interface {
	Create(db *gorm.DB, department *entity.Department) error
	FindByID(db *gorm.DB, id uint) (*entity.Department, error)
	FindAll(db *gorm.DB, search string) ([]entity.Department, error)
	Update(db *gorm.DB, department *entity.Department) error
	Delete(db *gorm.DB, id uint) (int64, error)
}
