// Package api serves the JSON read surface over the poller's snapshot.
//
// Endpoints (all GET):
//
//	/api/v1/health                     liveness + poller state
//	/api/v1/status                     success flag, interval, fetch time
//	/api/v1/snapshot                   full merged snapshot
//	/api/v1/account                    identity + workspaces with billing
//	/api/v1/earnings                   derived earnings totals
//	/api/v1/projects                   project list
//	/api/v1/projects/{id}/deployments  per-project deployments; 404 when the
//	                                   branch was omitted in the last cycle
//
// Before the first successful poll cycle, snapshot-backed endpoints answer
// 503; /api/v1/status and /api/v1/health always answer 200.
package api
