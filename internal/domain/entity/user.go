package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the centralized authentication table
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(150);uniqueIndex:idx_users_username;not null" json:"username"`
	Email     string    `gorm:"type:varchar(254)" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	IsStaff   bool      `gorm:"not null;default:false" json:"is_staff"`
	IsActive  *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the primary key so inserts do not depend on a database-side default.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Active reports whether the account may log in. A nil flag means the database default applies.
func (u *User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}
