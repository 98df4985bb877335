package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that can host and attend activities.
// Username and email uniqueness are enforced at write time by unique indexes.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username    string         `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email       string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	DisplayName string         `gorm:"size:100;not null" json:"display_name"`
	Bio         string         `gorm:"type:text" json:"bio"`
	Password    string         `gorm:"not null" json:"-"`
	Photos      []Photo        `gorm:"foreignKey:UserID" json:"photos,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
