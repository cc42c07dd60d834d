package railway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const projectsBody = `{
  "projects": {
    "edges": [
      {
        "node": {
          "id": "p1",
          "name": "api",
          "description": "backend",
          "createdAt": "2024-03-01T10:00:00.000Z",
          "environments": {"edges": [{"node": {"id": "e1", "name": "production"}}]},
          "services": {"edges": [{"node": {"id": "s1", "name": "web"}}, {"node": {"id": "s2", "name": "worker"}}]}
        }
      },
      {"node": {"id": "p2", "name": "blog", "environments": {"edges": []}, "services": {"edges": []}}}
    ]
  }
}`

const deploymentsBody = `{
  "project": {
    "services": {
      "edges": [
        {
          "node": {
            "id": "s1",
            "name": "web",
            "deployments": {"edges": [{"node": {"id": "d1", "status": "SUCCESS", "createdAt": "2024-03-02T09:00:00.000Z"}}]}
          }
        },
        {
          "node": {
            "id": "s2",
            "name": "worker",
            "deployments": {"edges": [{"node": {"id": "d2", "status": "FAILED"}}]}
          }
        }
      ]
    }
  }
}`

func TestProjects_UnwrapsConnection(t *testing.T) {
	srv := httptest.NewServer(graphqlOK(projectsBody))
	defer srv.Close()

	c := newTestClient(srv, Credential{Token: "tok", Kind: TokenPersonal})
	projects, err := c.Projects(context.Background())
	if err != nil {
		t.Fatalf("Projects() error = %v", err)
	}

	if len(projects) != 2 {
		t.Fatalf("len(projects) = %d, want 2", len(projects))
	}
	p := projects[0]
	if p.ID != "p1" || p.Name != "api" {
		t.Errorf("projects[0] = %+v", p)
	}
	if len(p.Environments) != 1 || p.Environments[0].Name != "production" {
		t.Errorf("environments = %+v", p.Environments)
	}
	if len(p.Services) != 2 {
		t.Errorf("services = %+v", p.Services)
	}
	if len(projects[1].Services) != 0 {
		t.Errorf("projects[1].Services = %+v, want empty", projects[1].Services)
	}
}

func TestDeployments_FlattensAndTagsServices(t *testing.T) {
	srv := httptest.NewServer(graphqlOK(deploymentsBody))
	defer srv.Close()

	c := newTestClient(srv, Credential{Token: "tok", Kind: TokenPersonal})
	deployments, err := c.Deployments(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Deployments() error = %v", err)
	}

	if len(deployments) != 2 {
		t.Fatalf("len(deployments) = %d, want 2", len(deployments))
	}
	if d := deployments[0]; d.ID != "d1" || d.ServiceID != "s1" || d.ServiceName != "web" {
		t.Errorf("deployments[0] = %+v", d)
	}
	if d := deployments[1]; d.Status != "FAILED" || d.ServiceName != "worker" {
		t.Errorf("deployments[1] = %+v", d)
	}
}

func TestMeWithWorkspaces_Billing(t *testing.T) {
	body := `{
	  "me": {
	    "id": "u1", "name": "Ann", "email": "ann@example.com",
	    "workspaces": [
	      {"id": "w1", "name": "Personal", "customer": {
	        "id": "c1", "creditBalance": 4.85, "currentUsage": 1.22,
	        "state": "ACTIVE", "isTrialing": true, "trialDaysRemaining": 12
	      }},
	      {"id": "w2", "name": "Side", "customer": null}
	    ]
	  }
	}`
	srv := httptest.NewServer(graphqlOK(body))
	defer srv.Close()

	c := newTestClient(srv, Credential{Token: "tok", Kind: TokenPersonal})
	user, workspaces, err := c.MeWithWorkspaces(context.Background())
	if err != nil {
		t.Fatalf("MeWithWorkspaces() error = %v", err)
	}

	if user.ID != "u1" || user.Name != "Ann" {
		t.Errorf("user = %+v", user)
	}
	if len(workspaces) != 2 {
		t.Fatalf("len(workspaces) = %d, want 2", len(workspaces))
	}
	cust := workspaces[0].Customer
	if cust == nil || cust.CreditBalance != 4.85 || !cust.IsTrialing || cust.TrialDaysRemaining != 12 {
		t.Errorf("workspaces[0].Customer = %+v", cust)
	}
	if workspaces[1].Customer != nil {
		t.Errorf("workspaces[1].Customer = %+v, want nil", workspaces[1].Customer)
	}
}

func TestAccessors_AbsentFieldIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(graphqlOK(`{}`))
	defer srv.Close()

	c := newTestClient(srv, Credential{Token: "tok", Kind: TokenPersonal})
	ctx := context.Background()

	if me, err := c.Me(ctx); err != nil || me.ID != "" {
		t.Errorf("Me() = %+v, %v, want zero value, nil", me, err)
	}
	if projects, err := c.Projects(ctx); err != nil || len(projects) != 0 {
		t.Errorf("Projects() = %v, %v, want empty, nil", projects, err)
	}
	if deployments, err := c.Deployments(ctx, "p1"); err != nil || len(deployments) != 0 {
		t.Errorf("Deployments() = %v, %v, want empty, nil", deployments, err)
	}
	if ri, err := c.ReferralInfo(ctx, "w1"); err != nil || ri.Code != "" {
		t.Errorf("ReferralInfo() = %+v, %v, want zero value, nil", ri, err)
	}
	if tm, err := c.TemplateMetrics(ctx, "t1"); err != nil || tm.TotalEarnings != 0 {
		t.Errorf("TemplateMetrics() = %+v, %v, want zero value, nil", tm, err)
	}
}

func TestAccessors_NullFieldIsEmpty(t *testing.T) {
	srv := httptest.NewServer(graphqlOK(`{"referralInfo": null}`))
	defer srv.Close()

	c := newTestClient(srv, Credential{Token: "tok", Kind: TokenPersonal})
	ri, err := c.ReferralInfo(context.Background(), "w1")
	if err != nil || ri.ID != "" {
		t.Errorf("ReferralInfo() = %+v, %v, want zero value, nil", ri, err)
	}
}

func TestWorkspaceTemplates(t *testing.T) {
	body := `{
	  "workspaceTemplates": {
	    "edges": [
	      {"node": {"id": "t1", "name": "redis", "code": "redis", "totalPayout": 42.5}},
	      {"node": {"id": "t2", "name": "minio", "code": "minio", "totalPayout": 0}}
	    ]
	  }
	}`
	srv := httptest.NewServer(graphqlOK(body))
	defer srv.Close()

	c := newTestClient(srv, Credential{Token: "tok", Kind: TokenPersonal})
	templates, err := c.WorkspaceTemplates(context.Background(), "w1")
	if err != nil {
		t.Fatalf("WorkspaceTemplates() error = %v", err)
	}
	if len(templates) != 2 {
		t.Fatalf("len(templates) = %d, want 2", len(templates))
	}
	if templates[0].TotalPayout != 42.5 {
		t.Errorf("templates[0].TotalPayout = %v, want 42.5", templates[0].TotalPayout)
	}
	if templates[0].WorkspaceID != "" {
		t.Errorf("WorkspaceID should be unset at client level, got %q", templates[0].WorkspaceID)
	}
}

func TestValidateToken(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{"valid token", graphqlOK(`{"me":{"id":"u1","name":"Ann"}}`), true},
		{"empty identity", graphqlOK(`{"me":{}}`), false},
		{"auth rejected", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}, false},
		{"graphql auth error", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"errors":[{"message":"Not Authenticated"}]}`))
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := newTestClient(srv, Credential{Token: "tok", Kind: TokenPersonal})
			if got := c.ValidateToken(context.Background()); got != tt.want {
				t.Errorf("ValidateToken() = %v, want %v", got, tt.want)
			}
		})
	}
}
