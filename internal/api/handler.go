package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/railmon/railmon/internal/aggregate"
	"github.com/railmon/railmon/internal/alerts"
	"github.com/railmon/railmon/internal/poller"
)

// Source is the read surface the handlers consume. *poller.Poller satisfies it.
type Source interface {
	Snapshot() *aggregate.Snapshot
	LastUpdateSucceeded() bool
	Status() poller.Status
	Interval() time.Duration
}

// AlertSource lists the currently active alerts. *alerts.Engine satisfies it.
type AlertSource interface {
	Active() []*alerts.Alert
}

// Handler serves all /api/v1/* endpoints from the poller's current snapshot.
type Handler struct {
	src    Source
	alerts AlertSource
	mux    *http.ServeMux
}

// New creates a Handler wired to src and registers all routes.
// alertSrc may be nil, in which case /api/v1/alerts answers an empty list.
func New(src Source, alertSrc AlertSource) http.Handler {
	h := &Handler{src: src, alerts: alertSrc, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/alerts", h.activeAlerts)
	h.mux.HandleFunc("/api/v1/status", h.status)
	h.mux.HandleFunc("/api/v1/snapshot", h.snapshot)
	h.mux.HandleFunc("/api/v1/account", h.account)
	h.mux.HandleFunc("/api/v1/earnings", h.earnings)
	h.mux.HandleFunc("/api/v1/projects", h.projects)
	h.mux.HandleFunc("/api/v1/projects/", h.projectDeployments) // subtree: extracts {id}

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health: liveness plus the poller state.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{
		"status": string(h.src.Status()),
	})
}

// activeAlerts returns GET /api/v1/alerts: firing and recently resolved alerts.
func (h *Handler) activeAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.alerts == nil {
		jsonResp(w, http.StatusOK, []struct{}{})
		return
	}
	jsonResp(w, http.StatusOK, h.alerts.Active())
}

// status returns GET /api/v1/status: poller state and cadence.
func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	resp := StatusResponse{
		Status:              string(h.src.Status()),
		LastUpdateSucceeded: h.src.LastUpdateSucceeded(),
		IntervalMinutes:     int(h.src.Interval().Minutes()),
	}
	if snap := h.src.Snapshot(); snap != nil {
		resp.FetchedAt = snap.FetchedAt.UTC().Format(time.RFC3339)
	}
	jsonResp(w, http.StatusOK, resp)
}

// snapshot returns GET /api/v1/snapshot: the full merged snapshot.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.liveSnapshot(w, r)
	if !ok {
		return
	}
	jsonResp(w, http.StatusOK, snap)
}

// account returns GET /api/v1/account: identity and workspaces with billing.
func (h *Handler) account(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.liveSnapshot(w, r)
	if !ok {
		return
	}
	jsonResp(w, http.StatusOK, AccountResponse{
		User:       snap.User,
		Workspaces: snap.Workspaces,
	})
}

// earnings returns GET /api/v1/earnings: the derived totals block.
func (h *Handler) earnings(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.liveSnapshot(w, r)
	if !ok {
		return
	}
	jsonResp(w, http.StatusOK, snap.Earnings)
}

// projects returns GET /api/v1/projects: the project list.
func (h *Handler) projects(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.liveSnapshot(w, r)
	if !ok {
		return
	}
	jsonResp(w, http.StatusOK, snap.Projects)
}

// projectDeployments returns GET /api/v1/projects/{id}/deployments.
//
// A 404 distinguishes "no deployment data was fetched for this project" from
// the 200-with-empty-list case of a project that genuinely has none.
func (h *Handler) projectDeployments(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.liveSnapshot(w, r)
	if !ok {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/projects/")
	id, sub, found := strings.Cut(rest, "/")
	if id == "" || !found || sub != "deployments" {
		jsonErr(w, http.StatusNotFound, "not found")
		return
	}

	deployments, ok := snap.Deployments[id]
	if !ok {
		jsonErr(w, http.StatusNotFound, "no deployment data for project")
		return
	}
	jsonResp(w, http.StatusOK, deployments)
}

// --- helpers ----------------------------------------------------------------

// liveSnapshot fetches the current snapshot, writing the appropriate error
// response when the method is wrong or no cycle has succeeded yet.
func (h *Handler) liveSnapshot(w http.ResponseWriter, r *http.Request) (*aggregate.Snapshot, bool) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}
	snap := h.src.Snapshot()
	if snap == nil {
		jsonErr(w, http.StatusServiceUnavailable, "no snapshot available yet")
		return nil, false
	}
	return snap, true
}

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
