package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultAvailableDays is used when a doctor is created without availability text.
const DefaultAvailableDays = "Monday-Friday"

// Doctor represents a bookable practitioner belonging to a department
type Doctor struct {
	ID              uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string          `gorm:"type:varchar(100);not null;index" json:"name"`
	DepartmentID    uint            `gorm:"not null;index" json:"department_id"`
	Specialization  string          `gorm:"type:varchar(100);not null;index" json:"specialization"`
	Experience      uint            `gorm:"not null;default:0" json:"experience"`
	Email           string          `gorm:"type:varchar(254);uniqueIndex:idx_doctors_email;not null" json:"email"`
	Phone           string          `gorm:"type:varchar(15);not null" json:"phone"`
	AvailableDays   string          `gorm:"type:varchar(100);not null" json:"available_days"`
	ConsultationFee decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"consultation_fee"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Department *Department `gorm:"foreignKey:DepartmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"department,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// Label is the text shown in the booking form doctor select.
func (d *Doctor) Label() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.Specialization)
}

func (d *Doctor) String() string {
	return fmt.Sprintf("Dr. %s (%s)", d.Name, d.Specialization)
}
