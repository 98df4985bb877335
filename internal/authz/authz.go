// Package authz decides whether an authenticated identity may mutate a
// specific activity. "Host" is a per-activity relationship, not a global
// role, so the decision is re-derived on every request.
package authz

import (
	"log/slog"

	"github.com/gatherly/gatherly-backend/internal/store"
	"github.com/google/uuid"
)

type Resolver struct {
	store store.Store
}

func NewResolver(st store.Store) *Resolver {
	return &Resolver{store: st}
}

// IsHost reports whether username is the host of the activity. It fails
// closed: a missing activity, a missing host record or an empty identity are
// all a plain deny, never an error.
func (r *Resolver) IsHost(username string, activityID uuid.UUID) bool {
	if username == "" || activityID == uuid.Nil {
		return false
	}

	attendances, err := r.store.ListAttendances(activityID)
	if err != nil {
		slog.Error("host lookup failed", "activity_id", activityID.String(), "error", err)
		return false
	}

	for _, at := range attendances {
		if at.IsHost {
			return at.User.Username == username
		}
	}
	return false
}
