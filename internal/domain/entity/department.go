package entity

// Department groups doctors and the treatments they offer
type Department struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(100);not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Department) TableName() string {
	return "departments"
}
