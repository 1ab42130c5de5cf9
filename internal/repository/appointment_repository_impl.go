package repository

import (
	"errors"
	"time"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

// Create inserts the appointment. A second appointment for the same (doctor, date, time) fails
// on the slot unique index, which is what arbitrates concurrent bookings.
func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("User", "Doctor").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uint) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Doctor.Department").Preload("User").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Doctor").
		Where("user_id = ?", userID).
		Order("appointment_date ASC").
		Order("appointment_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Preload("Doctor").Preload("User").
		Joins("LEFT JOIN doctors ON doctors.id = appointments.doctor_id").
		Order("appointments.appointment_date DESC").
		Order("appointments.appointment_time ASC")

	if filter.Status != "" {
		query = query.Where("appointments.status = ?", filter.Status)
	}
	if filter.Date != nil {
		query = query.Where("appointments.appointment_date = ?", datatypes.Date(*filter.Date))
	}
	if filter.DoctorID != 0 {
		query = query.Where("appointments.doctor_id = ?", filter.DoctorID)
	}
	if filter.UserID != uuid.Nil {
		query = query.Where("appointments.user_id = ?", filter.UserID)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(appointments.patient_name) LIKE ? OR LOWER(doctors.name) LIKE ?", pattern, pattern)
	}

	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) SlotTaken(db *gorm.DB, doctorID uint, date time.Time, at datatypes.Time, excludeID uint) (bool, error) {
	var count int64
	query := db.Model(&entity.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND appointment_time = ?", doctorID, datatypes.Date(date), at)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update writes the editable columns. The business identifier and creation time are never rewritten.
func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Model(appointment).
		Select("doctor_id", "patient_name", "phone_number", "appointment_date", "appointment_time", "status", "notes").
		Updates(appointment).Error
}

func (r *appointmentRepository) Delete(db *gorm.DB, id uint) (int64, error) {
	result := db.Delete(&entity.Appointment{}, id)
	return result.RowsAffected, result.Error
}
