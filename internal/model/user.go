// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Accounts come in two flavours: local accounts carry a bcrypt PasswordHash,
// Google accounts carry the GoogleID subject from a verified ID token. After
// a Google sign-in with an email that already has a local account, both are
// populated (account linking). Email is unique and stored lowercase.
//
// PasswordHash and GoogleID are tagged `json:"-"`; they must never leave
// the server, not even in error paths.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	GoogleID     string    `json:"-"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the subset of User returned by auth and profile endpoints.
type PublicUser struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Public returns the fields of u that are safe to send to clients.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Avatar: u.Avatar,
	}
}
