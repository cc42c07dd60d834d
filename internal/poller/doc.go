// Package poller drives the aggregation cycle on a fixed interval and owns
// the last-known-good snapshot.
//
// Cycles are strictly serialized: the loop runs each cycle inline, so a tick
// firing while a cycle is still in flight is coalesced by the ticker rather
// than starting a concurrent cycle. On success the new snapshot replaces the
// old one by reference swap; readers see either the previous snapshot or the
// fully-new one, never a partial mix.
//
// Failure classification follows the error taxonomy of internal/railway:
// an auth failure is terminal (the loop stops until the process restarts with
// a fresh credential), a connection failure before the first success leaves
// the poller "not ready" and retries, and anything else keeps serving the
// previous snapshot with the success flag lowered.
package poller
