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

var ErrNotPhotoOwner = errors.New("you can only manage your own photos")

type ProfileService struct {
	store store.Store
}

func NewProfileService(st store.Store) *ProfileService {
	return &ProfileService{store: st}
}

func (s *ProfileService) GetProfile(username string) (*dto.ProfileResponse, error) {
	user, err := s.store.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	photos, err := s.store.ListPhotos(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	if photos == nil {
		photos = []models.Photo{}
	}

	attended, err := s.store.ListActivitiesForUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attended activities: %w", err)
	}
	activities := make([]dto.ProfileActivity, 0, len(attended))
	for _, a := range attended {
		activities = append(activities, dto.ProfileActivity{
			ID:       a.ID,
			Title:    a.Title,
			Category: a.Category,
			Date:     a.Date,
		})
	}

	return &dto.ProfileResponse{
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		Image:       mainPhotoURL(photos),
		Photos:      photos,
		Activities:  activities,
	}, nil
}

// AddPhoto stores a photo for the user. The first photo becomes the main
// photo automatically.
func (s *ProfileService) AddPhoto(userID uuid.UUID, url string) (*models.Photo, error) {
	if url == "" {
		return nil, &ValidationError{Field: "url"}
	}

	existing, err := s.store.ListPhotos(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}

	photo := models.Photo{
		ID:        uuid.New(),
		UserID:    userID,
		URL:       url,
		IsMain:    len(existing) == 0,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreatePhoto(&photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

// SetMainPhoto makes the photo the user's main photo, demoting the previous
// one in the same transaction.
func (s *ProfileService) SetMainPhoto(userID, photoID uuid.UUID) error {
	photo, err := s.store.GetPhoto(photoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("failed to load photo: %w", err)
	}
	if photo.UserID != userID {
		return ErrNotPhotoOwner
	}
	if photo.IsMain {
		return nil
	}

	return s.store.InTx(func(tx store.Store) error {
		photos, err := tx.ListPhotos(userID)
		if err != nil {
			return err
		}
		for i := range photos {
			if photos[i].IsMain {
				photos[i].IsMain = false
				if _, err := tx.SavePhoto(&photos[i]); err != nil {
					return err
				}
			}
		}
		photo.IsMain = true
		rows, err := tx.SavePhoto(photo)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNothingCommitted
		}
		return nil
	})
}

func (s *ProfileService) DeletePhoto(userID, photoID uuid.UUID) error {
	photo, err := s.store.GetPhoto(photoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("failed to load photo: %w", err)
	}
	if photo.UserID != userID {
		return ErrNotPhotoOwner
	}
	if photo.IsMain {
		return ErrMainPhotoDelete
	}

	rows, err := s.store.DeletePhoto(photoID)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if rows == 0 {
		return ErrNothingCommitted
	}
	return nil
}
