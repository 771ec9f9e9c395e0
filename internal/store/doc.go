// Package store defines the persistence interfaces for users, blogs and likes,
// the errors they return, feed pagination cursors and the transaction helper
// shared by the SQL implementations.
package store
