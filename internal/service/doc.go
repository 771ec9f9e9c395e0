// Package service implements the user, blog and like use cases on top of the
// store interfaces. Services translate store errors into the sentinels the API
// layer maps to HTTP statuses.
package service
