package railway

import "fmt"

// AuthError indicates the credential was rejected or has expired.
// The only recovery is replacing the token.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("railway: authentication failed: %s", e.Reason)
}

// APIError indicates the API answered but reported an application-level
// failure: an unexpected HTTP status, an unparseable body, or non-auth
// GraphQL errors. Body is truncated before being stored here.
type APIError struct {
	Status int    // HTTP status; 0 for GraphQL-level or parse errors
	Reason string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("railway: api request failed with status %d: %s", e.Status, e.Reason)
	}
	return fmt.Sprintf("railway: api error: %s", e.Reason)
}

// ConnError wraps a transport-level failure (DNS, dial, TLS, timeout).
// The underlying error is preserved for logging but callers branch on the
// type, not the cause.
type ConnError struct {
	Err error
}

func (e *ConnError) Error() string {
	return fmt.Sprintf("railway: connection error: %v", e.Err)
}

func (e *ConnError) Unwrap() error { return e.Err }
