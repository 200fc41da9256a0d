// Package database provides the PostgreSQL connection pool for the
// optional database-backed state store.
package database
