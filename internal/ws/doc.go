// Package ws streams each newly produced snapshot to WebSocket clients.
// The Hub is event-driven: the poller's OnUpdate hook calls Broadcast, and
// newly connected clients immediately receive the most recent snapshot.
// Slow clients are disconnected instead of back-pressuring the poll loop.
package ws
