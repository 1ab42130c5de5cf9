package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// BookingRequest carries the raw booking form values. Dates and times stay strings until the
// usecase parses them, so malformed input is reported as a field error.
type BookingRequest struct {
	PatientName     string `form:"patient_name" validate:"required,max=100"`
	PhoneNumber     string `form:"phone_number" validate:"required"`
	AppointmentDate string `form:"appointment_date" validate:"required"`
	AppointmentTime string `form:"appointment_time"`
	DoctorID        string `form:"doctor" validate:"required"`
	Notes           string `form:"notes"`
}

type UpdateAppointmentRequest struct {
	DoctorID        *uint   `json:"doctor_id" validate:"omitempty,min=1"`
	PatientName     *string `json:"patient_name" validate:"omitempty,max=100"`
	PhoneNumber     *string `json:"phone_number"`
	AppointmentDate *string `json:"appointment_date"`
	AppointmentTime *string `json:"appointment_time"`
	Status          *string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
	Notes           *string `json:"notes"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              uint            `json:"id"`
	UniqueID        string          `json:"unique_id"`
	UserID          uuid.UUID       `json:"user_id"`
	Username        string          `json:"username,omitempty"`
	PatientName     string          `json:"patient_name"`
	PhoneNumber     string          `json:"phone_number"`
	AppointmentDate string          `json:"appointment_date"`
	AppointmentTime string          `json:"appointment_time"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	Doctor          *DoctorResponse `json:"doctor,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Summary is the confirmation line shown after booking.
func (a AppointmentResponse) Summary() string {
	name := ""
	if a.Doctor != nil {
		name = a.Doctor.Name
	}
	return "Appointment with Dr. " + name + " on " + a.AppointmentDate
}

// BookingPageResponse is everything the home page needs to render the booking form.
type BookingPageResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Today   string           `json:"today"`
}
