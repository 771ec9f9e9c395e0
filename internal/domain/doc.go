// Package domain contains the core entities of the blogging platform: users,
// blog posts with their rich-text content, and likes. It is independent of any
// storage or delivery mechanism.
package domain
