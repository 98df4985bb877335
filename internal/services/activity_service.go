package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/gatherly/gatherly-backend/internal/dto"
	"github.com/gatherly/gatherly-backend/internal/models"
	"github.com/gatherly/gatherly-backend/internal/store"
	"github.com/google/uuid"
)

// ActivityService enforces the attendance invariants: every activity has
// exactly one host attendance from the moment it exists, a user attends an
// activity at most once, and the host only leaves by deleting the activity.
type ActivityService struct {
	store store.Store
}

func NewActivityService(st store.Store) *ActivityService {
	return &ActivityService{store: st}
}

// CreateActivity inserts the activity and the creator's host attendance in
// one transaction. A created activity without a host row is never
// observable.
func (s *ActivityService) CreateActivity(req *dto.CreateActivityRequest, creatorID uuid.UUID) (*models.Activity, error) {
	if err := validateActivityFields(req.Title, req.Description, req.Category, req.Date, req.City, req.Venue); err != nil {
		return nil, err
	}

	creator, err := s.store.GetUserByID(creatorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load creator: %w", err)
	}

	activity := models.Activity{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
		City:        req.City,
		Venue:       req.Venue,
	}

	err = s.store.InTx(func(tx store.Store) error {
		rows, err := tx.CreateActivity(&activity)
		if err != nil {
			return fmt.Errorf("failed to create activity: %w", err)
		}
		if rows == 0 {
			return ErrNothingCommitted
		}

		rows, err = tx.CreateAttendance(&models.Attendance{
			ID:         uuid.New(),
			ActivityID: activity.ID,
			UserID:     creator.ID,
			IsHost:     true,
			JoinedAt:   time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to create host attendance: %w", err)
		}
		if rows == 0 {
			return ErrNothingCommitted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &activity, nil
}

// EditActivity updates mutable fields. Host authorization is decided by the
// caller's gate, not here.
func (s *ActivityService) EditActivity(id uuid.UUID, req *dto.EditActivityRequest) (*models.Activity, error) {
	if err := validateActivityFields(req.Title, req.Description, req.Category, req.Date, req.City, req.Venue); err != nil {
		return nil, err
	}

	activity, err := s.store.GetActivity(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}

	activity.Title = req.Title
	activity.Description = req.Description
	activity.Category = req.Category
	activity.Date = req.Date
	activity.City = req.City
	activity.Venue = req.Venue

	rows, err := s.store.SaveActivity(activity)
	if err != nil {
		return nil, fmt.Errorf("failed to save activity: %w", err)
	}
	if rows == 0 {
		return nil, ErrNothingCommitted
	}
	return activity, nil
}

// DeleteActivity removes the activity and all of its attendances atomically.
func (s *ActivityService) DeleteActivity(id uuid.UUID) error {
	if _, err := s.store.GetActivity(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("failed to load activity: %w", err)
	}

	return s.store.InTx(func(tx store.Store) error {
		rows, err := tx.DeleteActivity(id)
		if err != nil {
			return fmt.Errorf("failed to delete activity: %w", err)
		}
		if rows == 0 {
			return ErrNothingCommitted
		}
		return nil
	})
}

// Attend adds a non-host attendance. Re-calling after success yields
// ErrAlreadyAttending; the membership state converges either way.
func (s *ActivityService) Attend(activityID, userID uuid.UUID) error {
	activity, err := s.store.GetActivity(activityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("failed to load activity: %w", err)
	}

	if _, err := s.store.GetAttendance(activity.ID, userID); err == nil {
		return ErrAlreadyAttending
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to check attendance: %w", err)
	}

	rows, err := s.store.CreateAttendance(&models.Attendance{
		ID:         uuid.New(),
		ActivityID: activity.ID,
		UserID:     userID,
		IsHost:     false,
		JoinedAt:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to create attendance: %w", err)
	}
	if rows == 0 {
		return ErrNothingCommitted
	}
	return nil
}

// Unattend removes the caller's attendance. The host's own row is refused;
// it only disappears with the activity.
func (s *ActivityService) Unattend(activityID, userID uuid.UUID) error {
	attendance, err := s.store.GetAttendance(activityID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to load attendance: %w", err)
	}

	if attendance.IsHost {
		return ErrHostCannotLeave
	}

	rows, err := s.store.DeleteAttendance(attendance.ID)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if rows == 0 {
		return ErrNothingCommitted
	}
	return nil
}

// GetActivity returns the activity with its attendee projection.
func (s *ActivityService) GetActivity(id uuid.UUID) (*dto.ActivityResponse, error) {
	activity, err := s.store.GetActivity(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}
	return s.project(activity)
}

// ListActivities returns all activities ordered by date, each with its
// attendee projection.
func (s *ActivityService) ListActivities() ([]dto.ActivityResponse, error) {
	activities, err := s.store.ListActivities()
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	responses := make([]dto.ActivityResponse, 0, len(activities))
	for i := range activities {
		resp, err := s.project(&activities[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

func (s *ActivityService) project(activity *models.Activity) (*dto.ActivityResponse, error) {
	attendances, err := s.store.ListAttendances(activity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}

	attendees := make([]dto.AttendeeResponse, 0, len(attendances))
	for _, at := range attendances {
		attendees = append(attendees, dto.AttendeeResponse{
			Username:    at.User.Username,
			DisplayName: at.User.DisplayName,
			Image:       mainPhotoURL(at.User.Photos),
			IsHost:      at.IsHost,
			JoinedAt:    at.JoinedAt,
		})
	}

	return &dto.ActivityResponse{
		ID:          activity.ID,
		Title:       activity.Title,
		Description: activity.Description,
		Category:    activity.Category,
		Date:        activity.Date,
		City:        activity.City,
		Venue:       activity.Venue,
		Attendees:   attendees,
	}, nil
}

func mainPhotoURL(photos []models.Photo) string {
	for _, p := range photos {
		if p.IsMain {
			return p.URL
		}
	}
	return ""
}

func validateActivityFields(title, description, category string, date time.Time, city, venue string) error {
	switch {
	case title == "":
		return &ValidationError{Field: "title"}
	case description == "":
		return &ValidationError{Field: "description"}
	case category == "":
		return &ValidationError{Field: "category"}
	case date.IsZero():
		return &ValidationError{Field: "date"}
	case city == "":
		return &ValidationError{Field: "city"}
	case venue == "":
		return &ValidationError{Field: "venue"}
	}
	return nil
}
