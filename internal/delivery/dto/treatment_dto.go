package dto

import "github.com/shopspring/decimal"

// TreatmentRequest takes the duration as a Go duration string such as "45m" or "1h30m".
type TreatmentRequest struct {
	Name         string           `json:"name" validate:"required,max=100"`
	Description  string           `json:"description" validate:"required"`
	Price        *decimal.Decimal `json:"price" validate:"required"`
	Duration     string           `json:"duration" validate:"required"`
	DepartmentID uint             `json:"department_id" validate:"required"`
	IsActive     *bool            `json:"is_active"`
}

type TreatmentResponse struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       decimal.Decimal     `json:"price"`
	Duration    string              `json:"duration"`
	IsActive    bool                `json:"is_active"`
	Department  *DepartmentResponse `json:"department,omitempty"`
}
