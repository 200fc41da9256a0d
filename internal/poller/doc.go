// Package poller implements the poll loop.
//
// The loop:
//   - Runs one fetch → normalize → classify → enrich → dispatch → persist
//     cycle per tick; cycles never overlap
//   - Skips the whole cycle on fetch failure, single records on per-record
//     failures
//   - Enriches new events with bounded parallelism; every enrichment
//     completes or times out before the cycle persists
//   - Persists dedup state after every processed cycle, regardless of
//     enrichment or delivery outcomes
package poller
