package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/config"
)

func fakeIssuer(t *testing.T) string {
	t.Helper()

	var issuer string
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"issuer":%q,"authorization_endpoint":%q,"token_endpoint":%q,"jwks_uri":%q}`,
			issuer, issuer+"/authorize", issuer+"/token", issuer+"/keys")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	issuer = srv.URL
	return issuer
}

func TestNewRegistryDiscovery(t *testing.T) {
	issuer := fakeIssuer(t)

	reg, err := NewRegistry(context.Background(), []config.OAuthProvider{
		{ID: "acme", IssuerURL: issuer, ClientID: "client-id", ClientSecret: "client-secret"},
	}, "https://app.example.com")
	require.NoError(t, err)

	p, ok := reg.Get("acme")
	require.True(t, ok)
	assert.Equal(t, "acme", p.ID())

	_, ok = reg.Get("unknown")
	assert.False(t, ok)
	assert.Equal(t, []string{"acme"}, reg.IDs())

	authURL, err := url.Parse(p.AuthCodeURL("state-123"))
	require.NoError(t, err)
	assert.Equal(t, "/authorize", authURL.Path)
	q := authURL.Query()
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "https://app.example.com/login/oauth2/code/acme", q.Get("redirect_uri"))
	assert.Contains(t, q.Get("scope"), "openid")
}

func TestNewRegistryDiscoveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewRegistry(context.Background(), []config.OAuthProvider{
		{ID: "broken", IssuerURL: srv.URL, ClientID: "id", ClientSecret: "secret"},
	}, "https://app.example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestAssertionFromClaims(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		emailVerified bool
		displayName   string
		preferred     string
		wantEmail     *string
		wantDisplay   string
	}{
		{
			name:          "verified email and name",
			email:         "pat@example.com",
			emailVerified: true,
			displayName:   "Pat Example",
			wantEmail:     strPtr("pat@example.com"),
			wantDisplay:   "Pat Example",
		},
		{
			name:        "unverified email is dropped",
			email:       "pat@example.com",
			displayName: "Pat Example",
			wantDisplay: "Pat Example",
		},
		{
			name:        "preferred username fallback",
			preferred:   "pat42",
			wantDisplay: "pat42",
		},
		{
			name:        "subject fallback",
			wantDisplay: "subject-1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := assertionFromClaims("acme", "subject-1", tt.email, tt.emailVerified, tt.displayName, tt.preferred)
			assert.Equal(t, "acme", a.ProviderID)
			assert.Equal(t, "subject-1", a.Subject)
			assert.Equal(t, "acme_subject-1", a.DerivedLoginName())
			assert.Equal(t, tt.wantEmail, a.Email)
			assert.Equal(t, tt.wantDisplay, a.DisplayName)
		})
	}
}

func TestRandomState(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		s, err := RandomState()
		require.NoError(t, err)
		assert.Len(t, s, 43) // 32 random bytes, base64 raw-url encoded
		assert.NotContains(t, s, "+")
		assert.NotContains(t, s, "/")
		assert.False(t, seen[s], "state repeated")
		seen[s] = true
	}
}

func strPtr(s string) *string { return &s }
