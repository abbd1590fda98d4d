package authz

import (
	"net/http"

	"inkwell/internal/domain"
)

// DefaultPolicy is the rule set served in production. Read access to posts
// is public, mutations require a token, and account administration requires
// the ADMIN role. Anything unlisted is denied.
func DefaultPolicy() *Policy {
	rules := []Rule{
		{Pattern: "/healthz", Disposition: Public},
		{Pattern: "/api/posts/**", Methods: []string{http.MethodGet, http.MethodHead}, Disposition: Public},
		{Pattern: "/api/posts/**", Methods: []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}, Disposition: Authenticated},
		{Pattern: "/api/uploads/**", Disposition: Authenticated},
		{Pattern: "/api/me", Disposition: Authenticated},
		{Pattern: "/api/admin/**", Disposition: RequireRole, Role: domain.RoleAdmin},
	}

	// Login and the identity-provider callback paths bypass token validation
	// entirely; a stale or malformed Authorization header must not block a
	// fresh login attempt.
	whitelist := []string{
		"/healthz",
		"/api/login",
		"/oauth2/authorization/",
		"/login/oauth2/",
	}

	return NewPolicy(rules, whitelist)
}
