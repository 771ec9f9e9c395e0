// Package testdb provides throwaway PostgreSQL databases for integration tests.
//
// A database is taken from DATABASE_URL when it is set; otherwise a container
// is started with testcontainers-go. Either way the embedded migrations are
// applied before the handle is returned.
package testdb
