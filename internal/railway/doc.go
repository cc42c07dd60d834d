// Package railway implements the GraphQL client for the Railway public API
// (backboard.railway.com).
//
// Client executes raw GraphQL queries over a single HTTPS POST endpoint and
// classifies every failure into one of three error types: AuthError for a
// rejected credential, ConnError for an unreachable transport, and APIError
// for a well-formed response carrying an application-level failure. Callers
// never see a raw transport error.
//
// Authentication depends on the credential kind: personal tokens are sent as
// a standard "Authorization: Bearer" header, team tokens in the dedicated
// "Team-Access-Token" header. Exactly one of the two is set per request.
//
// The typed accessors (Me, Projects, Deployments, ...) unwrap one named
// top-level field of the generic execute result and return a zero value when
// the field is absent; an empty result is not an error.
package railway
