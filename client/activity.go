// Package client is the consuming-side SDK: a typed HTTP client for the
// backend plus a keyed, observable cache of activity state that supports
// optimistic mutation with rollback.
package client

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Activity is the client-side view of an activity. IsGoing and IsHost are
// derived from (Attendees, current username) and recomputed whenever either
// changes; they are never stored independently.
type Activity struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Date        time.Time  `json:"date"`
	City        string     `json:"city"`
	Venue       string     `json:"venue"`
	Attendees   []Attendee `json:"attendees"`

	IsGoing bool `json:"-"`
	IsHost  bool `json:"-"`
}

type Attendee struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Image       string    `json:"image,omitempty"`
	IsHost      bool      `json:"is_host"`
	JoinedAt    time.Time `json:"joined_at"`
}

// deriveFlags recomputes the viewer-relative flags. Pure function of the
// attendee list and the signed-in username.
func (a *Activity) deriveFlags(username string) {
	a.IsGoing = false
	a.IsHost = false
	for _, at := range a.Attendees {
		if at.Username == username {
			a.IsGoing = true
			a.IsHost = at.IsHost
			return
		}
	}
}

func (a *Activity) clone() *Activity {
	c := *a
	c.Attendees = append([]Attendee(nil), a.Attendees...)
	return &c
}

// DateGroup is one calendar day's worth of activities, ordered by date.
type DateGroup struct {
	Date       string
	Activities []Activity
}

// groupByDate sorts activities ascending by date and buckets them by
// calendar day. The secondary sort on id makes intra-day order independent
// of insertion order, so grouping is stable and idempotent.
func groupByDate(activities []Activity) []DateGroup {
	sorted := append([]Activity(nil), activities...)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	var groups []DateGroup
	for _, a := range sorted {
		day := a.Date.Format("2006-01-02")
		if len(groups) == 0 || groups[len(groups)-1].Date != day {
			groups = append(groups, DateGroup{Date: day})
		}
		groups[len(groups)-1].Activities = append(groups[len(groups)-1].Activities, a)
	}
	return groups
}
