// Package metrics exposes snapshot-derived gauges in Prometheus text
// exposition format. Families are rebuilt from the current snapshot on every
// scrape, so the endpoint always reflects exactly what the last poll cycle
// fetched.
package metrics
