package repository

import (
	"errors"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"gorm.io/gorm"
)

type treatmentRepository struct{}

func NewTreatmentRepository() domainRepo.TreatmentRepository {
	return &treatmentRepository{}
}

func (r *treatmentRepository) Create(db *gorm.DB, treatment *entity.Treatment) error {
	return db.Omit("Department").Create(treatment).Error
}

func (r *treatmentRepository) FindByID(db *gorm.DB, id uint) (*entity.Treatment, error) {
	var treatment entity.Treatment
	err := db.Preload("Department").Where("id = ?", id).First(&treatment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &treatment, nil
}

func (r *treatmentRepository) FindAll(db *gorm.DB, filter entity.TreatmentFilter) ([]entity.Treatment, error) {
	var treatments []entity.Treatment
	query := db.Preload("Department").Order("treatments.name ASC")

	if filter.DepartmentID != 0 {
		query = query.Where("treatments.department_id = ?", filter.DepartmentID)
	}
	if filter.IsActive != nil {
		query = query.Where("treatments.is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(treatments.name) LIKE ? OR LOWER(treatments.description) LIKE ?", pattern, pattern)
	}

	if err := query.Find(&treatments).Error; err != nil {
		return nil, err
	}
	return treatments, nil
}

func (r *treatmentRepository) Update(db *gorm.DB, treatment *entity.Treatment) error {
	return db.Omit("Department").Save(treatment).Error
}

func (r *treatmentRepository) Delete(db *gorm.DB, id uint) (int64, error) {
	result := db.Delete(&entity.Treatment{}, id)
	return result.RowsAffected, result.Error
}
