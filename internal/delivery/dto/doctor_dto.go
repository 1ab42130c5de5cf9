package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type DoctorRequest struct {
	Name            string           `json:"name" validate:"required,max=100"`
	DepartmentID    uint             `json:"department_id" validate:"required"`
	Specialization  string           `json:"specialization" validate:"required,max=100"`
	Experience      uint             `json:"experience"`
	Email           string           `json:"email" validate:"required,email,max=254"`
	Phone           string           `json:"phone" validate:"required"`
	AvailableDays   string           `json:"available_days" validate:"max=100"`
	ConsultationFee *decimal.Decimal `json:"consultation_fee"`
}

// Response DTOs

type DoctorResponse struct {
	ID              uint                `json:"id"`
	Name            string              `json:"name"`
	Label           string              `json:"label"`
	Specialization  string              `json:"specialization"`
	Experience      uint                `json:"experience"`
	Email           string              `json:"email"`
	Phone           string              `json:"phone"`
	AvailableDays   string              `json:"available_days"`
	ConsultationFee decimal.Decimal     `json:"consultation_fee"`
	Department      *DepartmentResponse `json:"department,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}
