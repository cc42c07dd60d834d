package aggregate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/railmon/railmon/internal/railway"
)

// API is the subset of the railway client the aggregator drives.
// Abstracted so tests can script per-branch outcomes.
type API interface {
	Me(ctx context.Context) (railway.User, error)
	MeWithWorkspaces(ctx context.Context) (railway.User, []railway.Workspace, error)
	Projects(ctx context.Context) ([]railway.Project, error)
	Deployments(ctx context.Context, projectID string) ([]railway.Deployment, error)
	ReferralInfo(ctx context.Context, workspaceID string) (railway.ReferralInfo, error)
	WorkspaceTemplates(ctx context.Context, workspaceID string) ([]railway.Template, error)
	TemplateMetrics(ctx context.Context, templateID string) (railway.TemplateMetrics, error)
}

// Aggregator orchestrates the full fan-out of one poll cycle.
type Aggregator struct {
	api API
	now func() time.Time // injectable for deterministic tests
}

// New returns an Aggregator over the given API.
func New(api API) *Aggregator {
	return &Aggregator{api: api, now: time.Now}
}

// fatal reports whether err must abort the whole cycle. Only auth and
// connection failures of the foundational queries qualify; application-level
// errors always degrade.
func fatal(err error) bool {
	var authErr *railway.AuthError
	var connErr *railway.ConnError
	return errors.As(err, &authErr) || errors.As(err, &connErr)
}

// FetchAll runs one full aggregation cycle and returns the merged Snapshot.
//
// The identity and project-list branches are foundational: an auth or
// connection failure there propagates and no snapshot is produced. Every
// other failure degrades to an omitted branch. FetchAll never returns a nil
// snapshot alongside a nil error.
func (a *Aggregator) FetchAll(ctx context.Context) (*Snapshot, error) {
	snap := newSnapshot(a.now().UTC())

	if err := a.fetchIdentity(ctx, snap); err != nil {
		return nil, err
	}

	if err := a.fetchProjects(ctx, snap); err != nil {
		return nil, err
	}

	var totals Earnings
	for _, ws := range snap.Workspaces {
		if ws.ID == "" {
			continue
		}
		a.fetchReferrals(ctx, snap, ws.ID, &totals)
		a.fetchTemplates(ctx, snap, ws.ID, &totals)
	}
	snap.Earnings = totals

	return snap, nil
}

// fetchIdentity fills User and Workspaces. The combined query is tried
// first; on an application-level failure it falls back to the plain identity
// query, and on failure of both the fields stay at their empty defaults.
func (a *Aggregator) fetchIdentity(ctx context.Context, snap *Snapshot) error {
	user, workspaces, err := a.api.MeWithWorkspaces(ctx)
	if err == nil {
		snap.User = user
		if workspaces != nil {
			snap.Workspaces = workspaces
		}
		return nil
	}
	if fatal(err) {
		return err
	}
	slog.Warn("aggregate: identity+workspaces query failed, falling back", "err", err)

	user, err = a.api.Me(ctx)
	if err == nil {
		snap.User = user
		return nil
	}
	if fatal(err) {
		return err
	}
	slog.Warn("aggregate: identity fallback failed, continuing without identity", "err", err)
	return nil
}

// fetchProjects fills Projects and the per-project Deployments entries.
// A failed project list leaves Projects empty and skips all per-project work;
// a failed per-project query omits just that project's key.
func (a *Aggregator) fetchProjects(ctx context.Context, snap *Snapshot) error {
	projects, err := a.api.Projects(ctx)
	if err != nil {
		if fatal(err) {
			return err
		}
		slog.Warn("aggregate: project list query failed", "err", err)
		return nil
	}
	if projects != nil {
		snap.Projects = projects
	}

	for _, p := range projects {
		if p.ID == "" {
			continue
		}
		deployments, err := a.api.Deployments(ctx, p.ID)
		if err != nil {
			slog.Debug("aggregate: deployments query failed, omitting project",
				"project", p.ID, "err", err)
			continue
		}
		if deployments == nil {
			deployments = []railway.Deployment{}
		}
		snap.Deployments[p.ID] = deployments
	}
	return nil
}

// fetchReferrals fills one workspace's referral entry and accumulates the
// credited/pending totals. Failure omits the entry and contributes nothing.
func (a *Aggregator) fetchReferrals(ctx context.Context, snap *Snapshot, workspaceID string, totals *Earnings) {
	info, err := a.api.ReferralInfo(ctx, workspaceID)
	if err != nil {
		slog.Debug("aggregate: referral query failed, omitting workspace",
			"workspace", workspaceID, "err", err)
		return
	}
	snap.Referrals[workspaceID] = info
	totals.ReferralsCredited += info.Stats.Credited
	totals.ReferralsPending += info.Stats.Pending
}

// fetchTemplates fills the flat template list for one workspace plus each
// template's metrics entry, accumulating payout and earnings totals as it
// goes. A failed template list omits the whole workspace; a failed metrics
// query omits just that template's metrics.
func (a *Aggregator) fetchTemplates(ctx context.Context, snap *Snapshot, workspaceID string, totals *Earnings) {
	templates, err := a.api.WorkspaceTemplates(ctx, workspaceID)
	if err != nil {
		slog.Debug("aggregate: template query failed, omitting workspace",
			"workspace", workspaceID, "err", err)
		return
	}

	for _, tmpl := range templates {
		tmpl.WorkspaceID = workspaceID
		snap.Templates = append(snap.Templates, tmpl)
		totals.TemplatesPayout += tmpl.TotalPayout

		if tmpl.ID == "" {
			continue
		}
		metrics, err := a.api.TemplateMetrics(ctx, tmpl.ID)
		if err != nil {
			slog.Debug("aggregate: metrics query failed, omitting template",
				"template", tmpl.ID, "err", err)
			continue
		}
		snap.TemplateMetrics[tmpl.ID] = metrics
		totals.Templates30d += metrics.EarningsLast30Days
		totals.TemplatesTotal += metrics.TotalEarnings
	}
}
