package railway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestClient points a Client with the given credential at srv.
func newTestClient(srv *httptest.Server, cred Credential) *Client {
	c := NewClient(srv.URL, cred)
	c.http = srv.Client()
	return c
}

// graphqlOK responds with {"data": ...} for every request.
func graphqlOK(data string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":` + data + `}`))
	}
}

func TestExecute_HeaderSelection(t *testing.T) {
	tests := []struct {
		name       string
		kind       TokenKind
		wantHeader string
		wantValue  string
		emptyOther string
	}{
		{"personal token uses bearer auth", TokenPersonal, "Authorization", "Bearer tok-1", "Team-Access-Token"},
		{"team token uses team header", TokenTeam, "Team-Access-Token", "tok-1", "Authorization"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got http.Header
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Clone()
				graphqlOK(`{"me":{"id":"u1"}}`)(w, r)
			}))
			defer srv.Close()

			c := newTestClient(srv, Credential{Token: "tok-1", Kind: tt.kind})
			if _, err := c.Me(context.Background()); err != nil {
				t.Fatalf("Me() error = %v", err)
			}

			if v := got.Get(tt.wantHeader); v != tt.wantValue {
				t.Errorf("%s = %q, want %q", tt.wantHeader, v, tt.wantValue)
			}
			if v := got.Get(tt.emptyOther); v != "" {
				t.Errorf("%s should be unset, got %q", tt.emptyOther, v)
			}
		})
	}
}

func TestExecute_TokenWhitespaceTrimmed(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		graphqlOK(`{}`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(srv, Credential{Token: "  tok-1\n", Kind: TokenPersonal})
	_, _ = c.Me(context.Background())

	if got != "Bearer tok-1" {
		t.Errorf("Authorization = %q, want trimmed token", got)
	}
}

func TestExecute_AuthStatusCodes(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"data":{"me":{"id":"u1"}}}`)) // body must not matter
		}))

		c := newTestClient(srv, Credential{Token: "bad", Kind: TokenPersonal})
		_, err := c.Me(context.Background())
		srv.Close()

		var authErr *AuthError
		if !errors.As(err, &authErr) {
			t.Errorf("status %d: got %T (%v), want *AuthError", status, err, err)
		}
	}
}

func TestExecute_UnexpectedStatus_TruncatesBody(t *testing.T) {
	longBody := strings.Repeat("x", 2000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(longBody))
	}))
	defer srv.Close()

	c := newTestClient(srv, Credential{Token: "tok", Kind: TokenPersonal})
	_, err := c.Me(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %T (%v), want *APIError", err, err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Errorf("Status = %d, want 502", apiErr.Status)
	}
	if len(apiErr.Reason) != maxBodyExcerpt {
		t.Errorf("body excerpt length = %d, want %d", len(apiErr.Reason), maxBodyExcerpt)
	}
}

func TestExecute_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := newTestClient(srv, Credential{Token: "tok", Kind: TokenPersonal})
	_, err := c.Me(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %T (%v), want *APIError", err, err)
	}
}

func TestExecute_GraphQLErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		wantAuth bool
	}{
		{"not authenticated", []string{"Not Authenticated"}, true},
		{"unauthorized", []string{"UNAUTHORIZED access"}, true},
		{"auth substring", []string{"problem with authorization layer"}, true},
		{"auth among others", []string{"field error", "token auth expired"}, true},
		{"plain field error", []string{"Cannot query field 'bogus'"}, false},
		{"multiple non-auth", []string{"bad request", "rate limited"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				var errs []map[string]string
				for _, m := range tt.messages {
					errs = append(errs, map[string]string{"message": m})
				}
				_ = json.NewEncoder(w).Encode(map[string]any{"errors": errs})
			}))
			defer srv.Close()

			c := newTestClient(srv, Credential{Token: "tok", Kind: TokenPersonal})
			_, err := c.Me(context.Background())

			var authErr *AuthError
			var apiErr *APIError
			switch {
			case tt.wantAuth && !errors.As(err, &authErr):
				t.Errorf("got %T (%v), want *AuthError", err, err)
			case !tt.wantAuth && !errors.As(err, &apiErr):
				t.Errorf("got %T (%v), want *APIError", err, err)
			}
		})
	}
}

func TestExecute_GraphQLErrors_MessagesJoined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"first"},{"message":"second"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv, Credential{Token: "tok", Kind: TokenPersonal})
	_, err := c.Me(context.Background())
	if err == nil || !strings.Contains(err.Error(), "first; second") {
		t.Errorf("err = %v, want joined messages", err)
	}
}

func TestExecute_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	c := newTestClient(srv, Credential{Token: "tok", Kind: TokenPersonal})
	srv.Close() // refuse all further connections

	_, err := c.Me(context.Background())
	var connErr *ConnError
	if !errors.As(err, &connErr) {
		t.Fatalf("got %T (%v), want *ConnError", err, err)
	}
	if connErr.Unwrap() == nil {
		t.Error("ConnError should preserve the underlying transport error")
	}
}

func TestExecute_RequestShape(t *testing.T) {
	var body struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		graphqlOK(`{}`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(srv, Credential{Token: "tok", Kind: TokenPersonal})
	_, _ = c.Deployments(context.Background(), "p1")

	if !strings.Contains(body.Query, "query deployments") {
		t.Errorf("query = %q, want deployments document", body.Query)
	}
	if body.Variables["projectId"] != "p1" {
		t.Errorf("variables = %v, want projectId=p1", body.Variables)
	}
}
