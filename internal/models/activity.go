package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity is a social event. It exclusively owns its attendances: deleting
// an activity removes them all in the same commit.
type Activity struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Category    string       `gorm:"size:100;not null" json:"category"`
	Date        time.Time    `gorm:"not null;index" json:"date"`
	City        string       `gorm:"size:100;not null" json:"city"`
	Venue       string       `gorm:"size:255;not null" json:"venue"`
	Attendances []Attendance `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE" json:"attendances,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Attendance links a user to an activity. The (activity, user) pair is
// unique, and exactly one attendance per activity carries IsHost after
// creation. The host row is only removed by deleting the whole activity.
type Attendance struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActivityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendances_activity_user" json:"activity_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendances_activity_user" json:"user_id"`
	IsHost     bool      `gorm:"not null;default:false" json:"is_host"`
	JoinedAt   time.Time `gorm:"not null" json:"joined_at"`
	User       User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
