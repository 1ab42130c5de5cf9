package repository

import (
	"errors"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit("Department").Create(doctor).Error
}

func (r *doctorRepository) FindByID(db *gorm.DB, id uint) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Preload("Department").Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(db *gorm.DB, filter entity.DoctorFilter) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	query := db.Preload("Department").Order("doctors.name ASC")

	if filter.DepartmentID != 0 {
		query = query.Where("doctors.department_id = ?", filter.DepartmentID)
	}
	if filter.Specialization != "" {
		query = query.Where("LOWER(doctors.specialization) = ?", toLower(filter.Specialization))
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(doctors.name) LIKE ? OR LOWER(doctors.specialization) LIKE ?", pattern, pattern)
	}

	if err := query.Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit("Department", "CreatedAt").Save(doctor).Error
}

func (r *doctorRepository) Delete(db *gorm.DB, id uint) (int64, error) {
	result := db.Delete(&entity.Doctor{}, id)
	return result.RowsAffected, result.Error
}
