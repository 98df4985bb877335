package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// LoadState tracks where a cache key is in its lifecycle.
type LoadState int

const (
	Unloaded LoadState = iota
	Loading
	Loaded
)

// EventType classifies cache change notifications.
type EventType int

const (
	EventLoaded EventType = iota
	EventUpdated
	EventRemoved
)

// Event describes one cache change. Activity is nil for EventRemoved.
type Event struct {
	Type     EventType
	ID       uuid.UUID
	Activity *Activity
}

// ErrNotLoaded is returned by optimistic mutations against an id the cache
// has never loaded; there is no local state to speculate on.
var ErrNotLoaded = errors.New("activity not loaded in cache")

// Cache is a keyed, observable cache of activity state for one signed-in
// user. Attend and CancelAttendance speculate locally before the remote call
// and roll the speculation back if it fails; Create, Edit and Delete only
// touch the cache after the remote call succeeds.
type Cache struct {
	api      API
	username string

	mu      sync.Mutex
	entries map[uuid.UUID]*Activity
	states  map[uuid.UUID]LoadState
	subs    map[int]func(Event)
	nextSub int

	// coalesces concurrent loads of the same id into one fetch
	flight singleflight.Group
}

func NewCache(api API, username string) *Cache {
	return &Cache{
		api:      api,
		username: username,
		entries:  make(map[uuid.UUID]*Activity),
		states:   make(map[uuid.UUID]LoadState),
		subs:     make(map[int]func(Event)),
	}
}

// Subscribe registers fn for cache change events and returns a cancel
// function. Callbacks run synchronously on the mutating goroutine.
func (c *Cache) Subscribe(fn func(Event)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Cache) notifyLocked(ev Event) {
	for _, fn := range c.subs {
		fn(ev)
	}
}

// State reports the load state for an id.
func (c *Cache) State(id uuid.UUID) LoadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[id]
}

// Get returns the cached activity without touching the network.
func (c *Cache) Get(id uuid.UUID) (*Activity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	return entry.clone(), true
}

// Load returns the cached activity if present (no remote call), otherwise
// fetches it, normalizes the server representation and stores it. Concurrent
// loads for the same id share a single in-flight fetch.
func (c *Cache) Load(ctx context.Context, id uuid.UUID) (*Activity, error) {
	c.mu.Lock()
	if entry, ok := c.entries[id]; ok {
		defer c.mu.Unlock()
		return entry.clone(), nil
	}
	c.states[id] = Loading
	c.mu.Unlock()

	v, err, _ := c.flight.Do(id.String(), func() (interface{}, error) {
		return c.api.GetActivity(ctx, id)
	})
	if err != nil {
		c.mu.Lock()
		if c.states[id] == Loading {
			c.states[id] = Unloaded
		}
		c.mu.Unlock()
		return nil, err
	}

	activity := v.(*Activity).clone()
	activity.deriveFlags(c.username)

	c.mu.Lock()
	c.entries[id] = activity
	c.states[id] = Loaded
	c.notifyLocked(Event{Type: EventLoaded, ID: id, Activity: activity.clone()})
	c.mu.Unlock()

	return activity.clone(), nil
}

// LoadAll fetches the full activity list and replaces the cache contents.
func (c *Cache) LoadAll(ctx context.Context) error {
	activities, err := c.api.ListActivities(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range activities {
		activity := activities[i].clone()
		activity.deriveFlags(c.username)
		c.entries[activity.ID] = activity
		c.states[activity.ID] = Loaded
		c.notifyLocked(Event{Type: EventLoaded, ID: activity.ID, Activity: activity.clone()})
	}
	return nil
}

// Attend optimistically adds the current user to the activity's attendee
// list, then confirms with the server. On failure the speculation is rolled
// back and the error returned.
func (c *Cache) Attend(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	entry, ok := c.entries[id]
	if !ok {
		c.mu.Unlock()
		return ErrNotLoaded
	}
	prev := entry.clone()

	entry.Attendees = append(entry.Attendees, Attendee{
		Username: c.username,
		JoinedAt: time.Now(),
	})
	entry.deriveFlags(c.username)
	c.notifyLocked(Event{Type: EventUpdated, ID: id, Activity: entry.clone()})
	c.mu.Unlock()

	if err := c.api.Attend(ctx, id); err != nil {
		c.rollback(id, prev)
		return err
	}
	return nil
}

// CancelAttendance optimistically removes the current user from the
// attendee list, then confirms with the server. On failure (for example the
// host trying to leave) the speculation is rolled back.
func (c *Cache) CancelAttendance(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	entry, ok := c.entries[id]
	if !ok {
		c.mu.Unlock()
		return ErrNotLoaded
	}
	prev := entry.clone()

	attendees := entry.Attendees[:0]
	for _, at := range entry.Attendees {
		if at.Username != c.username {
			attendees = append(attendees, at)
		}
	}
	entry.Attendees = attendees
	entry.deriveFlags(c.username)
	c.notifyLocked(Event{Type: EventUpdated, ID: id, Activity: entry.clone()})
	c.mu.Unlock()

	if err := c.api.Unattend(ctx, id); err != nil {
		c.rollback(id, prev)
		return err
	}
	return nil
}

func (c *Cache) rollback(id uuid.UUID, prev *Activity) {
	c.mu.Lock()
	c.entries[id] = prev
	c.notifyLocked(Event{Type: EventUpdated, ID: id, Activity: prev.clone()})
	c.mu.Unlock()
}

// Create submits the activity and only caches it after the server confirms.
func (c *Cache) Create(ctx context.Context, activity *Activity) error {
	if err := c.api.CreateActivity(ctx, activity); err != nil {
		return err
	}

	stored := activity.clone()
	if len(stored.Attendees) == 0 {
		stored.Attendees = []Attendee{{
			Username: c.username,
			IsHost:   true,
			JoinedAt: time.Now(),
		}}
	}
	stored.deriveFlags(c.username)

	c.mu.Lock()
	c.entries[stored.ID] = stored
	c.states[stored.ID] = Loaded
	c.notifyLocked(Event{Type: EventUpdated, ID: stored.ID, Activity: stored.clone()})
	c.mu.Unlock()
	return nil
}

// Edit submits the update and only applies it to the cache after the server
// confirms.
func (c *Cache) Edit(ctx context.Context, activity *Activity) error {
	if err := c.api.UpdateActivity(ctx, activity); err != nil {
		return err
	}

	c.mu.Lock()
	stored := activity.clone()
	if existing, ok := c.entries[activity.ID]; ok && len(stored.Attendees) == 0 {
		stored.Attendees = append([]Attendee(nil), existing.Attendees...)
	}
	stored.deriveFlags(c.username)
	c.entries[activity.ID] = stored
	c.states[activity.ID] = Loaded
	c.notifyLocked(Event{Type: EventUpdated, ID: activity.ID, Activity: stored.clone()})
	c.mu.Unlock()
	return nil
}

// Delete removes the activity remotely, then drops it from the cache.
func (c *Cache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.api.DeleteActivity(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.entries, id)
	delete(c.states, id)
	c.notifyLocked(Event{Type: EventRemoved, ID: id})
	c.mu.Unlock()
	return nil
}

// ByDate recomputes the date-grouped view from the current cache contents
// on every call; nothing is maintained incrementally.
func (c *Cache) ByDate() []DateGroup {
	c.mu.Lock()
	activities := make([]Activity, 0, len(c.entries))
	for _, entry := range c.entries {
		activities = append(activities, *entry.clone())
	}
	c.mu.Unlock()
	return groupByDate(activities)
}
