package services

import (
	"errors"
	"testing"

	"github.com/gatherly/gatherly-backend/internal/store"
	"github.com/google/uuid"
)

func TestGetProfileIncludesAttendedActivities(t *testing.T) {
	st := store.NewMemory()
	activities := NewActivityService(st)
	profiles := NewProfileService(st)
	host := seedUser(t, st, "anna")
	guest := seedUser(t, st, "bela")

	activity, err := activities.CreateActivity(validActivityRequest(), host.ID)
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	if err := activities.Attend(activity.ID, guest.ID); err != nil {
		t.Fatalf("Attend: %v", err)
	}

	profile, err := profiles.GetProfile("bela")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if len(profile.Activities) != 1 || profile.Activities[0].ID != activity.ID {
		t.Errorf("profile activities = %+v, want the attended activity", profile.Activities)
	}

	if _, err := profiles.GetProfile("nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFirstPhotoBecomesMain(t *testing.T) {
	st := store.NewMemory()
	svc := NewProfileService(st)
	user := seedUser(t, st, "anna")

	first, err := svc.AddPhoto(user.ID, "https://img.example.com/1.jpg")
	if err != nil {
		t.Fatalf("AddPhoto: %v", err)
	}
	if !first.IsMain {
		t.Error("first photo should be the main photo")
	}

	second, err := svc.AddPhoto(user.ID, "https://img.example.com/2.jpg")
	if err != nil {
		t.Fatalf("AddPhoto: %v", err)
	}
	if second.IsMain {
		t.Error("second photo must not become main automatically")
	}

	if _, err := svc.AddPhoto(user.ID, ""); err == nil {
		t.Error("empty url accepted")
	}
}

func TestSetMainPhotoIsExclusive(t *testing.T) {
	st := store.NewMemory()
	svc := NewProfileService(st)
	user := seedUser(t, st, "anna")

	first, _ := svc.AddPhoto(user.ID, "https://img.example.com/1.jpg")
	second, _ := svc.AddPhoto(user.ID, "https://img.example.com/2.jpg")

	if err := svc.SetMainPhoto(user.ID, second.ID); err != nil {
		t.Fatalf("SetMainPhoto: %v", err)
	}

	photos, _ := st.ListPhotos(user.ID)
	mains := 0
	for _, p := range photos {
		if p.IsMain {
			mains++
			if p.ID != second.ID {
				t.Errorf("main photo is %s, want %s", p.ID, second.ID)
			}
		}
	}
	if mains != 1 {
		t.Errorf("expected exactly one main photo, got %d", mains)
	}

	// The old main photo is now deletable; the new one is not.
	if err := svc.DeletePhoto(user.ID, first.ID); err != nil {
		t.Errorf("DeletePhoto demoted photo: %v", err)
	}
	if err := svc.DeletePhoto(user.ID, second.ID); !errors.Is(err, ErrMainPhotoDelete) {
		t.Errorf("expected ErrMainPhotoDelete, got %v", err)
	}
}

func TestPhotoOwnershipEnforced(t *testing.T) {
	st := store.NewMemory()
	svc := NewProfileService(st)
	owner := seedUser(t, st, "anna")
	other := seedUser(t, st, "bela")

	photo, err := svc.AddPhoto(owner.ID, "https://img.example.com/1.jpg")
	if err != nil {
		t.Fatalf("AddPhoto: %v", err)
	}

	if err := svc.SetMainPhoto(other.ID, photo.ID); !errors.Is(err, ErrNotPhotoOwner) {
		t.Errorf("SetMainPhoto by non-owner: expected ErrNotPhotoOwner, got %v", err)
	}
	if err := svc.DeletePhoto(other.ID, photo.ID); !errors.Is(err, ErrNotPhotoOwner) {
		t.Errorf("DeletePhoto by non-owner: expected ErrNotPhotoOwner, got %v", err)
	}
	if err := svc.DeletePhoto(owner.ID, uuid.New()); !errors.Is(err, ErrPhotoNotFound) {
		t.Errorf("expected ErrPhotoNotFound, got %v", err)
	}
}
