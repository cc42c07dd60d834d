package api

import "github.com/railmon/railmon/internal/railway"

// StatusResponse is the payload for GET /api/v1/status.
type StatusResponse struct {
	Status              string `json:"status"`
	LastUpdateSucceeded bool   `json:"last_update_succeeded"`
	IntervalMinutes     int    `json:"interval_minutes"`
	FetchedAt           string `json:"fetched_at,omitempty"`
}

// AccountResponse is the payload for GET /api/v1/account.
type AccountResponse struct {
	User       railway.User        `json:"me"`
	Workspaces []railway.Workspace `json:"workspaces"`
}

// errorResponse is the uniform error payload.
type errorResponse struct {
	Error string `json:"error"`
}
