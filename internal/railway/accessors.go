package railway

import (
	"context"
	"encoding/json"
	"fmt"
)

// conn mirrors the GraphQL connection shape {edges: [{node: ...}]}.
type conn[T any] struct {
	Edges []struct {
		Node T `json:"node"`
	} `json:"edges"`
}

func (c conn[T]) nodes() []T {
	out := make([]T, 0, len(c.Edges))
	for _, e := range c.Edges {
		out = append(out, e.Node)
	}
	return out
}

// field unmarshals one named top-level field of an execute result into dst.
// An absent or null field leaves dst at its zero value; a merely-empty
// result is never an error.
func field(data map[string]json.RawMessage, name string, dst any) error {
	raw, ok := data[name]
	if !ok || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &APIError{Reason: fmt.Sprintf("decode %s: %v", name, err)}
	}
	return nil
}

// Me returns the account identity.
func (c *Client) Me(ctx context.Context) (User, error) {
	data, err := c.execute(ctx, queryMe, nil)
	if err != nil {
		return User{}, err
	}
	var u User
	if err := field(data, "me", &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// MeWithWorkspaces returns the account identity together with its workspaces
// and their billing blocks, fetched as one nested query.
func (c *Client) MeWithWorkspaces(ctx context.Context) (User, []Workspace, error) {
	data, err := c.execute(ctx, queryMeWithWorkspaces, nil)
	if err != nil {
		return User{}, nil, err
	}
	var me struct {
		User
		Workspaces []Workspace `json:"workspaces"`
	}
	if err := field(data, "me", &me); err != nil {
		return User{}, nil, err
	}
	return me.User, me.Workspaces, nil
}

// projectNode is the raw project shape before connection flattening.
type projectNode struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	CreatedAt    string         `json:"createdAt"`
	UpdatedAt    string         `json:"updatedAt"`
	Environments conn[NamedRef] `json:"environments"`
	Services     conn[NamedRef] `json:"services"`
}

// Projects returns all projects visible to the credential.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	data, err := c.execute(ctx, queryProjects, nil)
	if err != nil {
		return nil, err
	}
	var pc conn[projectNode]
	if err := field(data, "projects", &pc); err != nil {
		return nil, err
	}
	out := make([]Project, 0, len(pc.Edges))
	for _, n := range pc.nodes() {
		out = append(out, Project{
			ID:           n.ID,
			Name:         n.Name,
			Description:  n.Description,
			CreatedAt:    n.CreatedAt,
			UpdatedAt:    n.UpdatedAt,
			Environments: n.Environments.nodes(),
			Services:     n.Services.nodes(),
		})
	}
	return out, nil
}

// Deployments returns the latest deployment of every service in a project,
// flattened to one list with each entry tagged by its owning service.
func (c *Client) Deployments(ctx context.Context, projectID string) ([]Deployment, error) {
	data, err := c.execute(ctx, queryDeployments, map[string]any{"projectId": projectID})
	if err != nil {
		return nil, err
	}
	var project struct {
		Services conn[struct {
			ID          string           `json:"id"`
			Name        string           `json:"name"`
			Deployments conn[Deployment] `json:"deployments"`
		}] `json:"services"`
	}
	if err := field(data, "project", &project); err != nil {
		return nil, err
	}

	var out []Deployment
	for _, svc := range project.Services.nodes() {
		for _, dep := range svc.Deployments.nodes() {
			dep.ServiceID = svc.ID
			dep.ServiceName = svc.Name
			out = append(out, dep)
		}
	}
	return out, nil
}

// ReferralInfo returns the referral program state of one workspace.
func (c *Client) ReferralInfo(ctx context.Context, workspaceID string) (ReferralInfo, error) {
	data, err := c.execute(ctx, queryReferralInfo, map[string]any{"workspaceId": workspaceID})
	if err != nil {
		return ReferralInfo{}, err
	}
	var ri ReferralInfo
	if err := field(data, "referralInfo", &ri); err != nil {
		return ReferralInfo{}, err
	}
	return ri, nil
}

// WorkspaceTemplates returns the templates published by one workspace.
func (c *Client) WorkspaceTemplates(ctx context.Context, workspaceID string) ([]Template, error) {
	data, err := c.execute(ctx, queryWorkspaceTemplates, map[string]any{"workspaceId": workspaceID})
	if err != nil {
		return nil, err
	}
	var tc conn[Template]
	if err := field(data, "workspaceTemplates", &tc); err != nil {
		return nil, err
	}
	return tc.nodes(), nil
}

// TemplateMetrics returns the earnings breakdown of one template.
func (c *Client) TemplateMetrics(ctx context.Context, templateID string) (TemplateMetrics, error) {
	data, err := c.execute(ctx, queryTemplateMetrics, map[string]any{"id": templateID})
	if err != nil {
		return TemplateMetrics{}, err
	}
	var tm TemplateMetrics
	if err := field(data, "templateMetrics", &tm); err != nil {
		return TemplateMetrics{}, err
	}
	return tm, nil
}

// ValidateToken reports whether the credential can fetch a non-empty
// identity. API failures of any kind yield false, never an error.
func (c *Client) ValidateToken(ctx context.Context) bool {
	me, err := c.Me(ctx)
	if err != nil {
		return false
	}
	return me.ID != ""
}
