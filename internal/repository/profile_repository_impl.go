package repository

import (
	"errors"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type profileRepository struct{}

func NewProfileRepository() domainRepo.ProfileRepository {
	return &profileRepository{}
}

func (r *profileRepository) Create(db *gorm.DB, profile *entity.UserProfile) error {
	return db.Create(profile).Error
}

func (r *profileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.UserProfile, error) {
	var profile entity.UserProfile
	err := db.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByID(db *gorm.DB, id uint) (*entity.UserProfile, error) {
	var profile entity.UserProfile
	err := db.Preload("User").Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// FindAll lists profiles, optionally matching the owner's username or the phone number.
func (r *profileRepository) FindAll(db *gorm.DB, search string) ([]entity.UserProfile, error) {
	var profiles []entity.UserProfile
	query := db.Preload("User").
		Joins("JOIN users ON users.id = user_profiles.user_id").
		Order("users.username ASC")

	if search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(users.username) LIKE ? OR user_profiles.phone LIKE ?", pattern, pattern)
	}

	if err := query.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) CountByUserID(db *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.UserProfile{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *profileRepository) Update(db *gorm.DB, profile *entity.UserProfile) error {
	return db.Model(profile).Select("phone", "address").Updates(profile).Error
}
