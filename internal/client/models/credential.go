package models

// CredentialKind tags the two session strategies the client understands.
type CredentialKind string

const (
	// CredentialBearer is a token stored durably on this machine together
	// with an identity snapshot.
	CredentialBearer CredentialKind = "bearer"

	// CredentialCookie marks a session managed entirely by the server via
	// an httpOnly cookie; the client holds no token, only the marker.
	CredentialCookie CredentialKind = "cookie"
)

// Credential is whatever artifact proves an active session. Exactly one
// kind is authoritative at a time; bearer presence is checked before the
// cookie fallback.
type Credential struct {
	Kind CredentialKind

	// Token is set only for CredentialBearer.
	Token string

	// Identity is the snapshot persisted alongside the token.
	Identity Identity
}
