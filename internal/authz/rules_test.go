package authz

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"inkwell/internal/domain"
)

func TestPolicy_FirstMatchWins(t *testing.T) {
	p := NewPolicy([]Rule{
		{Pattern: "/api/things/**", Methods: []string{http.MethodGet}, Disposition: Public},
		{Pattern: "/api/things/**", Disposition: Authenticated},
		{Pattern: "/api/things/special", Disposition: Deny}, // shadowed, never reached
	}, nil)

	d, _ := p.Classify(http.MethodGet, "/api/things/special")
	assert.Equal(t, Public, d)

	d, _ = p.Classify(http.MethodPost, "/api/things/special")
	assert.Equal(t, Authenticated, d)
}

func TestPolicy_DenyByDefault(t *testing.T) {
	p := NewPolicy([]Rule{
		{Pattern: "/api/posts/**", Disposition: Public},
	}, nil)

	d, _ := p.Classify(http.MethodGet, "/internal/debug")
	assert.Equal(t, Deny, d)

	// Same path, unmatched because the only matching rule is method-bound.
	p = NewPolicy([]Rule{
		{Pattern: "/api/posts/**", Methods: []string{http.MethodGet}, Disposition: Public},
	}, nil)
	d, _ = p.Classify(http.MethodDelete, "/api/posts/1")
	assert.Equal(t, Deny, d)
}

func TestPolicy_RoleRule(t *testing.T) {
	p := NewPolicy([]Rule{
		{Pattern: "/api/admin/**", Disposition: RequireRole, Role: domain.RoleAdmin},
	}, nil)

	d, role := p.Classify(http.MethodGet, "/api/admin/accounts")
	assert.Equal(t, RequireRole, d)
	assert.Equal(t, domain.RoleAdmin, role)
}

func TestPatternMatches(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/api/login", "/api/login", true},
		{"/api/login", "/api/login/extra", false},
		{"/api/posts/*", "/api/posts/1", true},
		{"/api/posts/*", "/api/posts", false},
		{"/api/posts/*", "/api/posts/1/comments", false},
		{"/api/posts/**", "/api/posts", true},
		{"/api/posts/**", "/api/posts/1", true},
		{"/api/posts/**", "/api/posts/1/comments/2", true},
		{"/api/posts/**", "/api/postsx", false},
		{"/api/*/comments", "/api/1/comments", true},
		{"/api/*/comments", "/api/comments", false},
		{"/", "/", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, patternMatches(tt.pattern, tt.path),
			"pattern %q path %q", tt.pattern, tt.path)
	}
}

func TestPolicy_MethodMatchingIsCaseInsensitive(t *testing.T) {
	p := NewPolicy([]Rule{
		{Pattern: "/x", Methods: []string{"get"}, Disposition: Public},
	}, nil)

	d, _ := p.Classify(http.MethodGet, "/x")
	assert.Equal(t, Public, d)
}

func TestPolicy_Whitelist(t *testing.T) {
	p := NewPolicy(nil, []string{"/healthz", "/oauth2/authorization/"})

	assert.True(t, p.Whitelisted("/healthz"))
	assert.False(t, p.Whitelisted("/healthz/sub"))
	assert.True(t, p.Whitelisted("/oauth2/authorization/google"))
	assert.False(t, p.Whitelisted("/oauth2/authorizationx"))
	assert.False(t, p.Whitelisted("/api/posts"))
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		method string
		path   string
		want   Disposition
	}{
		{http.MethodGet, "/api/posts", Public},
		{http.MethodGet, "/api/posts/1", Public},
		{http.MethodPost, "/api/posts", Authenticated},
		{http.MethodDelete, "/api/posts/1", Authenticated},
		{http.MethodPost, "/api/uploads", Authenticated},
		{http.MethodGet, "/api/me", Authenticated},
		{http.MethodGet, "/api/admin/accounts", RequireRole},
		{http.MethodGet, "/metrics", Deny},
	}
	for _, tt := range tests {
		d, _ := p.Classify(tt.method, tt.path)
		assert.Equal(t, tt.want, d, "%s %s", tt.method, tt.path)
	}

	assert.True(t, p.Whitelisted("/api/login"))
	assert.True(t, p.Whitelisted("/login/oauth2/code/google"))
}
