package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled:
		return true
	}
	return false
}

// SlotIndexName names the unique (doctor, date, time) index. At most one appointment may hold a slot.
const SlotIndexName = "idx_appointments_slot"

// Appointment represents a booked visit with a doctor
type Appointment struct {
	ID              uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	DoctorID        *uint             `gorm:"uniqueIndex:idx_appointments_slot,priority:1" json:"doctor_id,omitempty"`
	PatientName     string            `gorm:"type:varchar(100);not null;index" json:"patient_name"`
	PhoneNumber     string            `gorm:"type:varchar(15);not null" json:"phone_number"`
	AppointmentDate datatypes.Date    `gorm:"not null;index;uniqueIndex:idx_appointments_slot,priority:2" json:"appointment_date"`
	AppointmentTime datatypes.Time    `gorm:"not null;uniqueIndex:idx_appointments_slot,priority:3" json:"appointment_time"`
	Status          AppointmentStatus `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	BusinessID      string            `gorm:"column:unique_id;type:varchar(30);uniqueIndex:idx_appointments_unique_id" json:"unique_id"`

	// Relationships
	User   *User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
	Doctor *Doctor `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// DefaultAppointmentTime is applied when the booking form leaves the time empty.
var DefaultAppointmentTime = datatypes.NewTime(9, 0, 0, 0)

// BeforeSave assigns the business identifier on the first save only.
func (a *Appointment) BeforeSave(tx *gorm.DB) error {
	a.EnsureBusinessID(time.Now())
	return nil
}

// EnsureBusinessID generates the business identifier when it is still empty and leaves it untouched otherwise.
func (a *Appointment) EnsureBusinessID(now time.Time) {
	if a.BusinessID == "" {
		a.BusinessID = NewBusinessID(now)
	}
}

// NewBusinessID builds an identifier of the form APT-<year>-<6 uppercase hex chars>.
func NewBusinessID(now time.Time) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("APT-%d-%s", now.Year(), strings.ToUpper(hex[:6]))
}

// Date returns the appointment date as a time.Time at midnight.
func (a *Appointment) Date() time.Time {
	return time.Time(a.AppointmentDate)
}

// DateString formats the appointment date as YYYY-MM-DD
func (a *Appointment) DateString() string {
	return a.Date().Format("2006-01-02")
}

// TimeString formats the appointment time as HH:MM
func (a *Appointment) TimeString() string {
	s := a.AppointmentTime.String()
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}

// DoctorName returns the doctor's name, or an empty string when no doctor is attached.
func (a *Appointment) DoctorName() string {
	if a.Doctor == nil {
		return ""
	}
	return a.Doctor.Name
}

func (a *Appointment) String() string {
	return fmt.Sprintf("%s with Dr. %s on %s", a.PatientName, a.DoctorName(), a.DateString())
}
