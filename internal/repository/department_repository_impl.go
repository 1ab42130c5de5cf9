package repository

import (
	"errors"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"gorm.io/gorm"
)

type departmentRepository struct{}

func NewDepartmentRepository() domainRepo.DepartmentRepository {
	return &departmentRepository{}
}

func (r *departmentRepository) Create(db *gorm.DB, department *entity.Department) error {
	return db.Create(department).Error
}

func (r *departmentRepository) FindByID(db *gorm.DB, id uint) (*entity.Department, error) {
	var department entity.Department
	err := db.Where("id = ?", id).First(&department).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepository) FindAll(db *gorm.DB, search string) ([]entity.Department, error) {
	var departments []entity.Department
	query := db.Order("name ASC")
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(search))
	}
	if err := query.Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *departmentRepository) Update(db *gorm.DB, department *entity.Department) error {
	return db.Model(department).Select("name", "description").Updates(department).Error
}

// Delete removes the department; doctors and treatments go with it through the foreign keys.
func (r *departmentRepository) Delete(db *gorm.DB, id uint) (int64, error) {
	result := db.Delete(&entity.Department{}, id)
	return result.RowsAffected, result.Error
}
