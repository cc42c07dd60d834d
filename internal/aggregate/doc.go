// Package aggregate fans out the dependent Railway queries of one poll cycle
// and merges the results into a single immutable Snapshot.
//
// Every branch (identity, projects, per-project deployments, per-workspace
// referrals and templates, per-template metrics) degrades independently:
// a failed branch is omitted from the Snapshot and logged, never aborting the
// cycle. Only an auth or connection failure of the foundational identity and
// project-list queries escalates to the caller.
//
// The omit-versus-empty distinction is load-bearing: a project whose
// deployments query failed has no key in Snapshot.Deployments, while a project
// with zero deployments has a present, empty entry. Consumers use the missing
// key to tell "no data fetched" from "fetched, zero items".
package aggregate
