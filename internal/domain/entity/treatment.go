package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Treatment is a service offered by a department. Treatments are switched off via IsActive
// rather than deleted.
type Treatment struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string          `gorm:"type:varchar(100);not null;index" json:"name"`
	Description  string          `gorm:"type:text;not null" json:"description"`
	Price        decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"price"`
	Duration     time.Duration   `gorm:"not null" json:"duration"`
	DepartmentID uint            `gorm:"not null;index" json:"department_id"`
	IsActive     *bool           `gorm:"not null;default:true;index" json:"is_active"`

	// Relationships
	Department *Department `gorm:"foreignKey:DepartmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"department,omitempty"`
}

func (Treatment) TableName() string {
	return "treatments"
}

// Active reports whether the treatment is currently offered
func (t *Treatment) Active() bool {
	return t.IsActive == nil || *t.IsActive
}

func (t *Treatment) String() string {
	return fmt.Sprintf("%s ($%s)", t.Name, t.Price.StringFixed(2))
}
