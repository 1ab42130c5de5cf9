package repository

import (
	"time"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uint) (*entity.Appointment, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Appointment, error)
	FindAll(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	// SlotTaken reports whether another appointment (other than excludeID) holds the slot.
	SlotTaken(db *gorm.DB, doctorID uint, date time.Time, at datatypes.Time, excludeID uint) (bool, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error
	Delete(db *gorm.DB, id uint) (int64, error)
}
