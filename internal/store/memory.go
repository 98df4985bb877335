package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/gatherly/gatherly-backend/internal/models"
	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests. It mirrors the database's
// uniqueness constraints so engine-level invariants hold against it too.
type Memory struct {
	mu          sync.Mutex
	users       map[uuid.UUID]models.User
	activities  map[uuid.UUID]models.Activity
	attendances map[uuid.UUID]models.Attendance
	photos      map[uuid.UUID]models.Photo
	tokens      map[string]models.RefreshToken
}

func NewMemory() *Memory {
	return &Memory{
		users:       make(map[uuid.UUID]models.User),
		activities:  make(map[uuid.UUID]models.Activity),
		attendances: make(map[uuid.UUID]models.Attendance),
		photos:      make(map[uuid.UUID]models.Photo),
		tokens:      make(map[string]models.RefreshToken),
	}
}

func (m *Memory) GetUserByID(id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) GetUserByUsername(username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) GetUserByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateUser(u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) SaveUser(u *models.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return 0, nil
	}
	m.users[u.ID] = *u
	return 1, nil
}

func (m *Memory) GetActivity(id uuid.UUID) (*models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.activities[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m *Memory) ListActivities() ([]models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	activities := make([]models.Activity, 0, len(m.activities))
	for _, a := range m.activities {
		activities = append(activities, a)
	}
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Date.Before(activities[j].Date)
	})
	return activities, nil
}

func (m *Memory) ListActivitiesForUser(userID uuid.UUID) ([]models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var activities []models.Activity
	for _, at := range m.attendances {
		if at.UserID == userID {
			if a, ok := m.activities[at.ActivityID]; ok {
				activities = append(activities, a)
			}
		}
	}
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Date.Before(activities[j].Date)
	})
	return activities, nil
}

func (m *Memory) CreateActivity(a *models.Activity) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if _, ok := m.activities[a.ID]; ok {
		return 0, errors.New("duplicate key value violates unique constraint")
	}
	m.activities[a.ID] = *a
	return 1, nil
}

func (m *Memory) SaveActivity(a *models.Activity) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.activities[a.ID]; !ok {
		return 0, nil
	}
	m.activities[a.ID] = *a
	return 1, nil
}

func (m *Memory) DeleteActivity(id uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.activities[id]; !ok {
		return 0, nil
	}
	for atID, at := range m.attendances {
		if at.ActivityID == id {
			delete(m.attendances, atID)
		}
	}
	delete(m.activities, id)
	return 1, nil
}

func (m *Memory) GetAttendance(activityID, userID uuid.UUID) (*models.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, at := range m.attendances {
		if at.ActivityID == activityID && at.UserID == userID {
			at := at
			return &at, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListAttendances(activityID uuid.UUID) ([]models.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var attendances []models.Attendance
	for _, at := range m.attendances {
		if at.ActivityID == activityID {
			at.User = m.users[at.UserID]
			attendances = append(attendances, at)
		}
	}
	sort.Slice(attendances, func(i, j int) bool {
		return attendances[i].JoinedAt.Before(attendances[j].JoinedAt)
	})
	return attendances, nil
}

func (m *Memory) CreateAttendance(at *models.Attendance) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.attendances {
		if existing.ActivityID == at.ActivityID && existing.UserID == at.UserID {
			return 0, errors.New("duplicate key value violates unique constraint")
		}
	}
	if at.ID == uuid.Nil {
		at.ID = uuid.New()
	}
	m.attendances[at.ID] = *at
	return 1, nil
}

func (m *Memory) DeleteAttendance(id uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attendances[id]; !ok {
		return 0, nil
	}
	delete(m.attendances, id)
	return 1, nil
}

func (m *Memory) GetPhoto(id uuid.UUID) (*models.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.photos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *Memory) ListPhotos(userID uuid.UUID) ([]models.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var photos []models.Photo
	for _, p := range m.photos {
		if p.UserID == userID {
			photos = append(photos, p)
		}
	}
	sort.Slice(photos, func(i, j int) bool {
		return photos[i].CreatedAt.Before(photos[j].CreatedAt)
	})
	return photos, nil
}

func (m *Memory) CreatePhoto(p *models.Photo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.photos[p.ID] = *p
	return nil
}

func (m *Memory) SavePhoto(p *models.Photo) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.photos[p.ID]; !ok {
		return 0, nil
	}
	m.photos[p.ID] = *p
	return 1, nil
}

func (m *Memory) DeletePhoto(id uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.photos[id]; !ok {
		return 0, nil
	}
	delete(m.photos, id)
	return 1, nil
}

func (m *Memory) CreateRefreshToken(t *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.tokens[t.TokenHash] = *t
	return nil
}

func (m *Memory) GetRefreshToken(tokenHash string) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[tokenHash]
	if !ok || t.Revoked {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (m *Memory) RevokeRefreshToken(tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tokens[tokenHash]; ok {
		t.Revoked = true
		m.tokens[tokenHash] = t
	}
	return nil
}

func (m *Memory) RevokeUserRefreshTokens(userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for hash, t := range m.tokens {
		if t.UserID == userID {
			t.Revoked = true
			m.tokens[hash] = t
		}
	}
	return nil
}

// InTx applies fn to a snapshot and adopts it only if fn succeeds, so a
// failing multi-row write leaves the store untouched.
func (m *Memory) InTx(fn func(Store) error) error {
	m.mu.Lock()
	snapshot := m.cloneLocked()
	m.mu.Unlock()

	if err := fn(snapshot); err != nil {
		return err
	}

	m.mu.Lock()
	m.users = snapshot.users
	m.activities = snapshot.activities
	m.attendances = snapshot.attendances
	m.photos = snapshot.photos
	m.tokens = snapshot.tokens
	m.mu.Unlock()
	return nil
}

func (m *Memory) cloneLocked() *Memory {
	clone := NewMemory()
	for k, v := range m.users {
		clone.users[k] = v
	}
	for k, v := range m.activities {
		clone.activities[k] = v
	}
	for k, v := range m.attendances {
		clone.attendances[k] = v
	}
	for k, v := range m.photos {
		clone.photos[k] = v
	}
	for k, v := range m.tokens {
		clone.tokens[k] = v
	}
	return clone
}
