package store

import (
	"errors"
	"fmt"

	"github.com/gatherly/gatherly-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gorm is the Postgres-backed Store.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (g *Gorm) GetUserByID(id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := g.db.First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *Gorm) GetUserByUsername(username string) (*models.User, error) {
	var u models.User
	if err := g.db.First(&u, "username = ?", username).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *Gorm) GetUserByEmail(email string) (*models.User, error) {
	var u models.User
	if err := g.db.First(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *Gorm) CreateUser(u *models.User) error {
	if err := g.db.Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (g *Gorm) SaveUser(u *models.User) (int64, error) {
	result := g.db.Save(u)
	return result.RowsAffected, result.Error
}

func (g *Gorm) GetActivity(id uuid.UUID) (*models.Activity, error) {
	var a models.Activity
	if err := g.db.First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (g *Gorm) ListActivities() ([]models.Activity, error) {
	var activities []models.Activity
	err := g.db.Order("date ASC").Find(&activities).Error
	return activities, err
}

func (g *Gorm) ListActivitiesForUser(userID uuid.UUID) ([]models.Activity, error) {
	var activities []models.Activity
	err := g.db.
		Joins("JOIN attendances ON attendances.activity_id = activities.id").
		Where("attendances.user_id = ?", userID).
		Order("activities.date ASC").
		Find(&activities).Error
	return activities, err
}

func (g *Gorm) CreateActivity(a *models.Activity) (int64, error) {
	result := g.db.Create(a)
	return result.RowsAffected, result.Error
}

func (g *Gorm) SaveActivity(a *models.Activity) (int64, error) {
	result := g.db.Save(a)
	return result.RowsAffected, result.Error
}

func (g *Gorm) DeleteActivity(id uuid.UUID) (int64, error) {
	// Cascade is explicit so it holds even without the FK constraint.
	if err := g.db.Where("activity_id = ?", id).Delete(&models.Attendance{}).Error; err != nil {
		return 0, err
	}
	result := g.db.Where("id = ?", id).Delete(&models.Activity{})
	return result.RowsAffected, result.Error
}

func (g *Gorm) GetAttendance(activityID, userID uuid.UUID) (*models.Attendance, error) {
	var at models.Attendance
	err := g.db.First(&at, "activity_id = ? AND user_id = ?", activityID, userID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &at, nil
}

func (g *Gorm) ListAttendances(activityID uuid.UUID) ([]models.Attendance, error) {
	var attendances []models.Attendance
	err := g.db.Preload("User").Preload("User.Photos").
		Where("activity_id = ?", activityID).
		Order("joined_at ASC").
		Find(&attendances).Error
	return attendances, err
}

func (g *Gorm) CreateAttendance(at *models.Attendance) (int64, error) {
	result := g.db.Create(at)
	return result.RowsAffected, result.Error
}

func (g *Gorm) DeleteAttendance(id uuid.UUID) (int64, error) {
	result := g.db.Where("id = ?", id).Delete(&models.Attendance{})
	return result.RowsAffected, result.Error
}

func (g *Gorm) GetPhoto(id uuid.UUID) (*models.Photo, error) {
	var p models.Photo
	if err := g.db.First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (g *Gorm) ListPhotos(userID uuid.UUID) ([]models.Photo, error) {
	var photos []models.Photo
	err := g.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&photos).Error
	return photos, err
}

func (g *Gorm) CreatePhoto(p *models.Photo) error {
	if err := g.db.Create(p).Error; err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}
	return nil
}

func (g *Gorm) SavePhoto(p *models.Photo) (int64, error) {
	result := g.db.Save(p)
	return result.RowsAffected, result.Error
}

func (g *Gorm) DeletePhoto(id uuid.UUID) (int64, error) {
	result := g.db.Where("id = ?", id).Delete(&models.Photo{})
	return result.RowsAffected, result.Error
}

func (g *Gorm) CreateRefreshToken(t *models.RefreshToken) error {
	if err := g.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (g *Gorm) GetRefreshToken(tokenHash string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	err := g.db.First(&t, "token_hash = ? AND revoked = false", tokenHash).Error
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (g *Gorm) RevokeRefreshToken(tokenHash string) error {
	return g.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

func (g *Gorm) RevokeUserRefreshTokens(userID uuid.UUID) error {
	return g.db.Model(&models.RefreshToken{}).
		Where("user_id = ?", userID).
		Update("revoked", true).Error
}

func (g *Gorm) InTx(fn func(Store) error) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}
