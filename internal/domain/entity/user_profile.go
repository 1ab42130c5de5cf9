package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile holds optional contact details, one row per user
type UserProfile struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_profiles_user;not null" json:"user_id"`
	Phone     string    `gorm:"type:varchar(15)" json:"phone,omitempty"`
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
