// Package enrich adds best-effort market data to alerts.
//
// Enrichment never fails the pipeline: a missing API key, network error,
// rate limit, or unexpected payload degrades to absent fields, which render
// as "n/a" in the alert. Calls are bounded by a per-call timeout and are
// never retried; a slow provider must not stall the poll cycle.
package enrich
