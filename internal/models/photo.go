package models

import (
	"time"

	"github.com/google/uuid"
)

// Photo is a profile image belonging to a user. At most one photo per user
// is the main photo.
type Photo struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	IsMain    bool      `gorm:"not null;default:false" json:"is_main"`
	CreatedAt time.Time `json:"created_at"`
}
