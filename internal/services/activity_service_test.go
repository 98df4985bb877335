package services

import (
	"errors"
	"testing"
	"time"

	"github.com/gatherly/gatherly-backend/internal/dto"
	"github.com/gatherly/gatherly-backend/internal/models"
	"github.com/gatherly/gatherly-backend/internal/store"
	"github.com/google/uuid"
)

func seedUser(t *testing.T, st *store.Memory, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:          uuid.New(),
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: username,
		Password:    "hash",
	}
	if err := st.CreateUser(user); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func validActivityRequest() *dto.CreateActivityRequest {
	return &dto.CreateActivityRequest{
		Title:       "Board game night",
		Description: "Bring your own games",
		Category:    "games",
		Date:        time.Date(2026, 10, 3, 19, 0, 0, 0, time.UTC),
		City:        "Berlin",
		Venue:       "Spielecafe",
	}
}

func TestCreateActivityInsertsHostAttendance(t *testing.T) {
	st := store.NewMemory()
	svc := NewActivityService(st)
	host := seedUser(t, st, "anna")

	activity, err := svc.CreateActivity(validActivityRequest(), host.ID)
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}

	attendances, err := st.ListAttendances(activity.ID)
	if err != nil {
		t.Fatalf("ListAttendances: %v", err)
	}
	if len(attendances) != 1 {
		t.Fatalf("expected 1 attendance, got %d", len(attendances))
	}
	if !attendances[0].IsHost {
		t.Error("creator's attendance is not marked as host")
	}
	if attendances[0].UserID != host.ID {
		t.Errorf("host attendance belongs to %s, want %s", attendances[0].UserID, host.ID)
	}
}

func TestCreateActivityValidatesRequiredFields(t *testing.T) {
	st := store.NewMemory()
	svc := NewActivityService(st)
	host := seedUser(t, st, "anna")

	tests := []struct {
		name   string
		mutate func(*dto.CreateActivityRequest)
		field  string
	}{
		{"missing title", func(r *dto.CreateActivityRequest) { r.Title = "" }, "title"},
		{"missing description", func(r *dto.CreateActivityRequest) { r.Description = "" }, "description"},
		{"missing category", func(r *dto.CreateActivityRequest) { r.Category = "" }, "category"},
		{"missing date", func(r *dto.CreateActivityRequest) { r.Date = time.Time{} }, "date"},
		{"missing city", func(r *dto.CreateActivityRequest) { r.City = "" }, "city"},
		{"missing venue", func(r *dto.CreateActivityRequest) { r.Venue = "" }, "venue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validActivityRequest()
			tt.mutate(req)

			_, err := svc.CreateActivity(req, host.ID)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Field != tt.field {
				t.Errorf("field = %q, want %q", validationErr.Field, tt.field)
			}
		})
	}
}

func TestAttendUnknownActivity(t *testing.T) {
	st := store.NewMemory()
	svc := NewActivityService(st)
	user := seedUser(t, st, "bela")

	if err := svc.Attend(uuid.New(), user.ID); !errors.Is(err, ErrActivityNotFound) {
		t.Fatalf("expected ErrActivityNotFound, got %v", err)
	}
}

func TestAttendTwiceYieldsConflict(t *testing.T) {
	st := store.NewMemory()
	svc := NewActivityService(st)
	host := seedUser(t, st, "anna")
	guest := seedUser(t, st, "bela")

	activity, err := svc.CreateActivity(validActivityRequest(), host.ID)
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}

	if err := svc.Attend(activity.ID, guest.ID); err != nil {
		t.Fatalf("first Attend: %v", err)
	}
	if err := svc.Attend(activity.ID, guest.ID); !errors.Is(err, ErrAlreadyAttending) {
		t.Fatalf("second Attend: expected ErrAlreadyAttending, got %v", err)
	}

	attendances, _ := st.ListAttendances(activity.ID)
	count := 0
	for _, at := range attendances {
		if at.UserID == guest.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly 1 attendance row for guest, got %d", count)
	}
}

func TestUnattendHostForbidden(t *testing.T) {
	st := store.NewMemory()
	svc := NewActivityService(st)
	host := seedUser(t, st, "anna")

	activity, err := svc.CreateActivity(validActivityRequest(), host.ID)
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}

	if err := svc.Unattend(activity.ID, host.ID); !errors.Is(err, ErrHostCannotLeave) {
		t.Fatalf("expected ErrHostCannotLeave, got %v", err)
	}

	// The host row must still be there.
	attendances, _ := st.ListAttendances(activity.ID)
	if len(attendances) != 1 || !attendances[0].IsHost {
		t.Error("host attendance was removed")
	}
}

func TestUnattendWithoutAttendance(t *testing.T) {
	st := store.NewMemory()
	svc := NewActivityService(st)
	host := seedUser(t, st, "anna")
	stranger := seedUser(t, st, "cleo")

	activity, err := svc.CreateActivity(validActivityRequest(), host.ID)
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}

	if err := svc.Unattend(activity.ID, stranger.ID); !errors.Is(err, ErrAttendanceNotFound) {
		t.Fatalf("expected ErrAttendanceNotFound, got %v", err)
	}
	if err := svc.Unattend(uuid.New(), stranger.ID); !errors.Is(err, ErrAttendanceNotFound) {
		t.Fatalf("unknown activity: expected ErrAttendanceNotFound, got %v", err)
	}
}

func TestDeleteActivityCascades(t *testing.T) {
	st := store.NewMemory()
	svc := NewActivityService(st)
	host := seedUser(t, st, "anna")
	guest := seedUser(t, st, "bela")

	activity, err := svc.CreateActivity(validActivityRequest(), host.ID)
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	if err := svc.Attend(activity.ID, guest.ID); err != nil {
		t.Fatalf("Attend: %v", err)
	}

	if err := svc.DeleteActivity(activity.ID); err != nil {
		t.Fatalf("DeleteActivity: %v", err)
	}

	if _, err := st.GetActivity(activity.ID); !errors.Is(err, store.ErrNotFound) {
		t.Error("activity still present after delete")
	}
	attendances, _ := st.ListAttendances(activity.ID)
	if len(attendances) != 0 {
		t.Errorf("expected 0 attendance rows after cascade, got %d", len(attendances))
	}

	if err := svc.DeleteActivity(activity.ID); !errors.Is(err, ErrActivityNotFound) {
		t.Fatalf("second delete: expected ErrActivityNotFound, got %v", err)
	}
}

// zeroRowStore simulates a commit that passes validation but affects no rows.
type zeroRowStore struct {
	store.Store
}

func (z *zeroRowStore) CreateAttendance(at *models.Attendance) (int64, error) {
	return 0, nil
}

func TestAttendReportsNothingCommitted(t *testing.T) {
	st := store.NewMemory()
	svc := NewActivityService(st)
	host := seedUser(t, st, "anna")
	guest := seedUser(t, st, "bela")

	activity, err := svc.CreateActivity(validActivityRequest(), host.ID)
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}

	broken := NewActivityService(&zeroRowStore{Store: st})
	if err := broken.Attend(activity.ID, guest.ID); !errors.Is(err, ErrNothingCommitted) {
		t.Fatalf("expected ErrNothingCommitted, got %v", err)
	}
}

func TestHostScenario(t *testing.T) {
	st := store.NewMemory()
	svc := NewActivityService(st)
	u1 := seedUser(t, st, "anna")
	u2 := seedUser(t, st, "bela")

	activity, err := svc.CreateActivity(validActivityRequest(), u1.ID)
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}

	if err := svc.Attend(activity.ID, u2.ID); err != nil {
		t.Fatalf("Attend u2: %v", err)
	}
	if err := svc.Unattend(activity.ID, u2.ID); err != nil {
		t.Fatalf("Unattend u2: %v", err)
	}
	if err := svc.Unattend(activity.ID, u1.ID); !errors.Is(err, ErrHostCannotLeave) {
		t.Fatalf("Unattend host: expected ErrHostCannotLeave, got %v", err)
	}

	// At every point exactly one host row existed; verify the final state.
	attendances, _ := st.ListAttendances(activity.ID)
	hosts := 0
	for _, at := range attendances {
		if at.IsHost {
			hosts++
		}
	}
	if hosts != 1 {
		t.Errorf("expected exactly one host attendance, got %d", hosts)
	}
}

func TestEditActivity(t *testing.T) {
	st := store.NewMemory()
	svc := NewActivityService(st)
	host := seedUser(t, st, "anna")

	activity, err := svc.CreateActivity(validActivityRequest(), host.ID)
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}

	updated, err := svc.EditActivity(activity.ID, &dto.EditActivityRequest{
		Title:       "Movie night",
		Description: "Classics only",
		Category:    "film",
		Date:        activity.Date,
		City:        "Berlin",
		Venue:       "Kino International",
	})
	if err != nil {
		t.Fatalf("EditActivity: %v", err)
	}
	if updated.Title != "Movie night" {
		t.Errorf("title = %q, want %q", updated.Title, "Movie night")
	}

	if _, err := svc.EditActivity(uuid.New(), &dto.EditActivityRequest{
		Title: "x", Description: "x", Category: "x", Date: activity.Date, City: "x", Venue: "x",
	}); !errors.Is(err, ErrActivityNotFound) {
		t.Fatalf("expected ErrActivityNotFound, got %v", err)
	}
}

func TestGetActivityProjectsAttendees(t *testing.T) {
	st := store.NewMemory()
	svc := NewActivityService(st)
	host := seedUser(t, st, "anna")
	guest := seedUser(t, st, "bela")

	activity, err := svc.CreateActivity(validActivityRequest(), host.ID)
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	if err := svc.Attend(activity.ID, guest.ID); err != nil {
		t.Fatalf("Attend: %v", err)
	}

	resp, err := svc.GetActivity(activity.ID)
	if err != nil {
		t.Fatalf("GetActivity: %v", err)
	}
	if len(resp.Attendees) != 2 {
		t.Fatalf("expected 2 attendees, got %d", len(resp.Attendees))
	}
	if !resp.Attendees[0].IsHost || resp.Attendees[0].Username != "anna" {
		t.Errorf("first attendee should be the host anna, got %+v", resp.Attendees[0])
	}
}
