// Package model defines the data structures used throughout the application.
package model

// User represents a registered account.
//
// The username is the primary identifier — there is no separate numeric or
// generated ID. It is chosen once at signup and the storage layer enforces
// uniqueness with a primary-key constraint.
//
// PasswordHash is server-only. The `json:"-"` tag guarantees it is never
// serialized into an API response, no matter which handler writes the user
// out. Forgetting this on even one field is how password hashes leak, so it
// lives here at the model level rather than in per-handler DTOs.
type User struct {
	Username     string         `json:"username"`
	PasswordHash string         `json:"-"`
	Profile      *UserProfile   `json:"profile"`
	SavedItems   []ClothingItem `json:"savedItems"`
}

// HasProfile reports whether the user has completed a style profile.
// The session flow branches on this: a freshly signed-up user is sent to
// the profile builder before anything else.
func (u *User) HasProfile() bool {
	return u.Profile != nil
}
