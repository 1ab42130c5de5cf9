package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorFilter is a domain-level filter for querying doctors.
// Used by repository layer to avoid coupling with delivery DTOs.
type DoctorFilter struct {
	DepartmentID   uint
	Specialization string
	Search         string // name or specialization (case-insensitive)
}

// TreatmentFilter narrows treatment listings
type TreatmentFilter struct {
	DepartmentID uint
	IsActive     *bool
	Search       string // name or description
}

// AppointmentFilter narrows the staff appointment listing
type AppointmentFilter struct {
	Status   AppointmentStatus
	Date     *time.Time
	DoctorID uint
	UserID   uuid.UUID
	Search   string // patient name or doctor name
}

// AuditLogFilter narrows the audit trail. Action is matched as a prefix, so "appointment" selects
// every appointment.* entry.
type AuditLogFilter struct {
	Page
	Action string
	UserID *uuid.UUID
}

// Page describes an offset window; zero values mean "first page, default size".
type Page struct {
	Page  int
	Limit int
}

// Normalize applies defaults and bounds to the page window
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}
