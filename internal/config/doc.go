// Package config loads application settings from defaults, an optional
// config.yaml, MEDIUM_* environment variables and the plain deployment
// variables (DATABASE_URL, JWT_SECRET, PORT, ...), then validates them.
package config
