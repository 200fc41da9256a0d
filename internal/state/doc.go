// Package state implements the durable dedup store.
//
// The store owns the identity → EventRecord mapping. It is mutated only by
// the single poll-cycle worker, so the mapping itself needs no locking; the
// durable write must still be atomic so another process (or the next start)
// never observes a torn file.
//
// Backends:
//   - FileStore: JSON snapshot, temp-file + rename replace (default)
//   - PostgresStore: batch upserts over pgx, for deployments with a database
package state
