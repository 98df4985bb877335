package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// API is the remote surface the cache mutates against. Implementations must
// return an error for any non-success outcome; the cache treats every error
// as grounds for rollback.
type API interface {
	ListActivities(ctx context.Context) ([]Activity, error)
	GetActivity(ctx context.Context, id uuid.UUID) (*Activity, error)
	CreateActivity(ctx context.Context, activity *Activity) error
	UpdateActivity(ctx context.Context, activity *Activity) error
	DeleteActivity(ctx context.Context, id uuid.UUID) error
	Attend(ctx context.Context, id uuid.UUID) error
	Unattend(ctx context.Context, id uuid.UUID) error
}

// HTTPAPI implements API over the backend's REST surface with bearer auth.
type HTTPAPI struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPAPI(baseURL, token string) *HTTPAPI {
	return &HTTPAPI{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *HTTPAPI) ListActivities(ctx context.Context) ([]Activity, error) {
	var activities []Activity
	if err := a.do(ctx, http.MethodGet, "/api/activities", nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (a *HTTPAPI) GetActivity(ctx context.Context, id uuid.UUID) (*Activity, error) {
	var activity Activity
	if err := a.do(ctx, http.MethodGet, "/api/activities/"+id.String(), nil, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

func (a *HTTPAPI) CreateActivity(ctx context.Context, activity *Activity) error {
	return a.do(ctx, http.MethodPost, "/api/activities", activity, nil)
}

func (a *HTTPAPI) UpdateActivity(ctx context.Context, activity *Activity) error {
	return a.do(ctx, http.MethodPut, "/api/activities/"+activity.ID.String(), activity, nil)
}

func (a *HTTPAPI) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	return a.do(ctx, http.MethodDelete, "/api/activities/"+id.String(), nil, nil)
}

func (a *HTTPAPI) Attend(ctx context.Context, id uuid.UUID) error {
	return a.do(ctx, http.MethodPost, "/api/activities/"+id.String()+"/attend", nil, nil)
}

func (a *HTTPAPI) Unattend(ctx context.Context, id uuid.UUID) error {
	return a.do(ctx, http.MethodDelete, "/api/activities/"+id.String()+"/attend", nil, nil)
}

func (a *HTTPAPI) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.token)

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return fmt.Errorf("%s %s: %s", method, path, apiErr.Message)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
