package store

import (
	"errors"

	"github.com/gatherly/gatherly-backend/internal/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned by all Get* methods when no matching record
// exists. Implementations must never leak their driver's not-found error.
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary for users, activities, attendances and
// auth tokens. Cross-entity reads are explicit queries; nothing is lazily
// loaded behind field access. Mutating methods return the number of rows the
// commit affected so callers can detect a write that silently did nothing.
type Store interface {
	GetUserByID(id uuid.UUID) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	CreateUser(u *models.User) error
	SaveUser(u *models.User) (int64, error)

	GetActivity(id uuid.UUID) (*models.Activity, error)
	ListActivities() ([]models.Activity, error)
	// ListActivitiesForUser returns the activities the user attends, ordered
	// by date.
	ListActivitiesForUser(userID uuid.UUID) ([]models.Activity, error)
	CreateActivity(a *models.Activity) (int64, error)
	SaveActivity(a *models.Activity) (int64, error)
	// DeleteActivity removes the activity and all of its attendances.
	DeleteActivity(id uuid.UUID) (int64, error)

	GetAttendance(activityID, userID uuid.UUID) (*models.Attendance, error)
	// ListAttendances returns the activity's attendances with each linked
	// User populated.
	ListAttendances(activityID uuid.UUID) ([]models.Attendance, error)
	CreateAttendance(at *models.Attendance) (int64, error)
	DeleteAttendance(id uuid.UUID) (int64, error)

	GetPhoto(id uuid.UUID) (*models.Photo, error)
	ListPhotos(userID uuid.UUID) ([]models.Photo, error)
	CreatePhoto(p *models.Photo) error
	SavePhoto(p *models.Photo) (int64, error)
	DeletePhoto(id uuid.UUID) (int64, error)

	CreateRefreshToken(t *models.RefreshToken) error
	GetRefreshToken(tokenHash string) (*models.RefreshToken, error)
	RevokeRefreshToken(tokenHash string) error
	RevokeUserRefreshTokens(userID uuid.UUID) error

	// InTx runs fn against a transactional view of the store. Every write fn
	// performs commits together or not at all.
	InTx(fn func(Store) error) error
}
