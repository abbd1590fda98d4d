// Package domain defines core types, interfaces, and errors for the content service.
package domain

import "time"

// Role is the authority level carried by an account and its tokens.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Account is a persisted local account. LoginName is unique across the store.
// Accounts created through an identity provider carry the provider id and
// have no password hash.
type Account struct {
	ID           int64
	LoginName    string
	DisplayName  string
	Email        *string
	PasswordHash string
	Role         Role
	Provider     string // "" for direct accounts, provider id otherwise
	CreatedAt    time.Time
}

// Principal is the authenticated identity resolved for one request.
// It is immutable once attached to a request and never persisted.
type Principal struct {
	ID        int64
	LoginName string
	Role      Role
	Provider  string
}

// IsAdmin reports whether the principal carries the ADMIN role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// LoginCredential is the transient input of one direct authentication attempt.
type LoginCredential struct {
	LoginName string
	Password  string
}

// ExternalIdentityAssertion is a provider-verified identity delivered by the
// identity provider client. The derived login name ProviderID + "_" + Subject
// gives a stable mapping from (provider, subject) to a local account.
type ExternalIdentityAssertion struct {
	ProviderID  string
	Subject     string
	Email       *string
	DisplayName string
}

// DerivedLoginName returns the local login name for the assertion.
func (a ExternalIdentityAssertion) DerivedLoginName() string {
	return a.ProviderID + "_" + a.Subject
}
