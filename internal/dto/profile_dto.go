package dto

import (
	"time"

	"github.com/gatherly/gatherly-backend/internal/models"
	"github.com/google/uuid"
)

type ProfileResponse struct {
	Username    string            `json:"username"`
	DisplayName string            `json:"display_name"`
	Bio         string            `json:"bio"`
	Image       string            `json:"image,omitempty"`
	Photos      []models.Photo    `json:"photos"`
	Activities  []ProfileActivity `json:"activities"`
}

// ProfileActivity is the trimmed activity view shown on a profile page.
type ProfileActivity struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
}

type AddPhotoRequest struct {
	URL string `json:"url"`
}
