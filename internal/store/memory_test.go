package store

import (
	"errors"
	"testing"
	"time"

	"github.com/gatherly/gatherly-backend/internal/models"
	"github.com/google/uuid"
)

func TestMemoryUniqueConstraints(t *testing.T) {
	m := NewMemory()

	if err := m.CreateUser(&models.User{Username: "anna", Email: "anna@example.com"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := m.CreateUser(&models.User{Username: "anna", Email: "other@example.com"}); err == nil {
		t.Error("duplicate username accepted")
	}
	if err := m.CreateUser(&models.User{Username: "other", Email: "anna@example.com"}); err == nil {
		t.Error("duplicate email accepted")
	}

	activityID, userID := uuid.New(), uuid.New()
	if _, err := m.CreateAttendance(&models.Attendance{ActivityID: activityID, UserID: userID}); err != nil {
		t.Fatalf("CreateAttendance: %v", err)
	}
	if _, err := m.CreateAttendance(&models.Attendance{ActivityID: activityID, UserID: userID}); err == nil {
		t.Error("duplicate (activity, user) attendance accepted")
	}
}

func TestMemoryInTxRollsBackOnError(t *testing.T) {
	m := NewMemory()
	boom := errors.New("boom")

	err := m.InTx(func(tx Store) error {
		if _, err := tx.CreateActivity(&models.Activity{ID: uuid.New(), Title: "x", Date: time.Now()}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx error = %v, want boom", err)
	}

	activities, _ := m.ListActivities()
	if len(activities) != 0 {
		t.Errorf("expected no activities after rolled-back tx, got %d", len(activities))
	}
}

func TestMemoryInTxCommits(t *testing.T) {
	m := NewMemory()
	id := uuid.New()

	err := m.InTx(func(tx Store) error {
		if _, err := tx.CreateActivity(&models.Activity{ID: id, Title: "x", Date: time.Now()}); err != nil {
			return err
		}
		_, err := tx.CreateAttendance(&models.Attendance{ActivityID: id, UserID: uuid.New(), IsHost: true, JoinedAt: time.Now()})
		return err
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}

	if _, err := m.GetActivity(id); err != nil {
		t.Errorf("activity missing after committed tx: %v", err)
	}
	attendances, _ := m.ListAttendances(id)
	if len(attendances) != 1 {
		t.Errorf("expected 1 attendance after committed tx, got %d", len(attendances))
	}
}

func TestMemoryDeleteActivityCascades(t *testing.T) {
	m := NewMemory()
	id := uuid.New()

	if _, err := m.CreateActivity(&models.Activity{ID: id, Title: "x", Date: time.Now()}); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	if _, err := m.CreateAttendance(&models.Attendance{ActivityID: id, UserID: uuid.New()}); err != nil {
		t.Fatalf("CreateAttendance: %v", err)
	}

	rows, err := m.DeleteActivity(id)
	if err != nil || rows != 1 {
		t.Fatalf("DeleteActivity rows=%d err=%v", rows, err)
	}

	attendances, _ := m.ListAttendances(id)
	if len(attendances) != 0 {
		t.Errorf("attendances survived activity deletion: %d", len(attendances))
	}
}
