package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateActivityRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	City        string    `json:"city"`
	Venue       string    `json:"venue"`
}

type EditActivityRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	City        string    `json:"city"`
	Venue       string    `json:"venue"`
}

type AttendeeResponse struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Image       string    `json:"image,omitempty"`
	IsHost      bool      `json:"is_host"`
	JoinedAt    time.Time `json:"joined_at"`
}

type ActivityResponse struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Date        time.Time          `json:"date"`
	City        string             `json:"city"`
	Venue       string             `json:"venue"`
	Attendees   []AttendeeResponse `json:"attendees"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
