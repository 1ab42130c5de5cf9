package repository

import (
	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(db *gorm.DB, profile *entity.UserProfile) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.UserProfile, error)
	FindByID(db *gorm.DB, id uint) (*entity.UserProfile, error)
	FindAll(db *gorm.DB, search string) ([]entity.UserProfile, error)
	CountByUserID(db *gorm.DB, userID uuid.UUID) (int64, error)
	Update(db *gorm.DB, profile *entity.UserProfile) error
}
