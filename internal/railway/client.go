package railway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is the public Railway GraphQL endpoint.
const DefaultEndpoint = "https://backboard.railway.com/graphql/v2"

const (
	// requestTimeout bounds a single query so one stalled call cannot
	// stall a whole poll cycle.
	requestTimeout = 30 * time.Second

	// maxBodyExcerpt caps how much of an error response body is carried
	// inside an APIError.
	maxBodyExcerpt = 500

	// teamTokenHeader carries team-kind tokens instead of bearer auth.
	teamTokenHeader = "Team-Access-Token"
)

// TokenKind selects which HTTP header carries the credential.
type TokenKind string

const (
	TokenPersonal TokenKind = "personal"
	TokenTeam     TokenKind = "team"
)

// Credential is an opaque API token plus its kind. Immutable for the
// lifetime of a Client.
type Credential struct {
	Token string
	Kind  TokenKind
}

// Client issues GraphQL queries against one Railway endpoint with one
// credential. Safe for concurrent use.
type Client struct {
	endpoint string
	cred     Credential
	http     *http.Client
}

// NewClient builds a Client for the given endpoint and credential.
// An empty endpoint falls back to DefaultEndpoint.
func NewClient(endpoint string, cred Credential) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		cred:     Credential{Token: strings.TrimSpace(cred.Token), Kind: cred.Kind},
		http:     &http.Client{Timeout: requestTimeout},
	}
}

// headers returns the request headers for the client's credential kind.
// Exactly one auth header is ever set.
func (c *Client) headers() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	if c.cred.Kind == TokenTeam {
		h.Set(teamTokenHeader, c.cred.Token)
	} else {
		h.Set("Authorization", "Bearer "+c.cred.Token)
	}
	return h
}

// graphqlError is one entry of a response's top-level errors array.
type graphqlError struct {
	Message string `json:"message"`
}

// envelope is the standard GraphQL response body.
type envelope struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []graphqlError             `json:"errors"`
}

// execute posts one query and returns the decoded data mapping.
// Every failure is one of *AuthError, *APIError, *ConnError.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any) (map[string]json.RawMessage, error) {
	payload := struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables,omitempty"`
	}{Query: query, Variables: variables}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &APIError{Reason: fmt.Sprintf("encode request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &APIError{Reason: fmt.Sprintf("build request: %v", err)}
	}
	req.Header = c.headers()

	slog.Debug("railway: executing query", "endpoint", c.endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ConnError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnError{Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &AuthError{Reason: "invalid API token"}
	case resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{Reason: "access denied"}
	case resp.StatusCode != http.StatusOK:
		return nil, &APIError{Status: resp.StatusCode, Reason: excerpt(respBody)}
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, &APIError{Reason: fmt.Sprintf("invalid JSON response: %v: %s", err, excerpt(respBody))}
	}

	if len(env.Errors) > 0 {
		msgs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			msgs = append(msgs, e.Message)
		}
		joined := strings.Join(msgs, "; ")
		if containsAuthHint(msgs) {
			return nil, &AuthError{Reason: joined}
		}
		return nil, &APIError{Reason: "graphql errors: " + joined}
	}

	if env.Data == nil {
		return map[string]json.RawMessage{}, nil
	}
	return env.Data, nil
}

// containsAuthHint reports whether any GraphQL error message looks like an
// authentication failure.
func containsAuthHint(msgs []string) bool {
	for _, m := range msgs {
		l := strings.ToLower(m)
		if strings.Contains(l, "auth") ||
			strings.Contains(l, "unauthorized") ||
			strings.Contains(l, "not authenticated") {
			return true
		}
	}
	return false
}

// excerpt truncates a response body for inclusion in an error message.
func excerpt(body []byte) string {
	if len(body) > maxBodyExcerpt {
		return string(body[:maxBodyExcerpt])
	}
	return string(body)
}
