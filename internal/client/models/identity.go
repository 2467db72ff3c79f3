// Package models defines client-side data models used by the RetroMarket CLI.
package models

import "time"

// Identity is the minimal authenticated-user record held in memory by the
// session manager. It is created on successful login, registration, or
// session bootstrap and dropped on logout.
type Identity struct {
	// ID is the server-assigned user identifier.
	ID string `json:"id"`

	// Email is the account's login email.
	Email string `json:"email"`

	// Name is the display name shown in the UI.
	Name string `json:"name"`

	// Roles lists the account's role names (e.g. "user", "admin").
	Roles []string `json:"roles,omitempty"`

	// ImageURL optionally references the profile picture.
	ImageURL string `json:"imageUrl,omitempty"`
}

// Address is a shipping/billing address attached to the extended profile.
type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zipCode"`
}

// ExtendedProfile is the superset of Identity returned by the profile
// endpoint: verification flags, CPF, addresses, and timestamps. It is
// fetched lazily and owned by the profile cache.
type ExtendedProfile struct {
	Identity

	// EmailConfirmed reports whether the account email has been verified.
	EmailConfirmed bool `json:"emailConfirmed"`

	// CPF is the Brazilian taxpayer number; empty when not provided.
	CPF string `json:"cpf,omitempty"`

	Addresses []Address `json:"addresses,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
