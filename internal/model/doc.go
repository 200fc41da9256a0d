// Package model defines shared data types used across haltwatch.
//
// Conventions:
//   - Identities: deterministic strings derived from feed fields (see normalize)
//   - Timestamps: time.Time, the zero value means "not present in the feed"
//   - Market data values: decimal.Decimal pointers, nil means unavailable
package model
