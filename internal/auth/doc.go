// Package auth provides optional API key authentication for the read API.
// APIKeyMiddleware compares a configured header against the expected key in
// constant time; with mode "none" it is a pass-through.
package auth
