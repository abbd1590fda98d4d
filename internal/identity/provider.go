// Package identity talks OAuth2/OIDC to third-party identity providers and
// converts their verified ID tokens into identity assertions. Verifying the
// provider's token is this package's job; mapping the assertion to a local
// account belongs to the auth bridge.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"inkwell/internal/config"
	"inkwell/internal/domain"
)

// Provider is one configured identity provider: its OAuth2 endpoints plus an
// ID-token verifier bound to our client id.
type Provider struct {
	id       string
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// ID returns the provider identifier used in login names and URLs.
func (p *Provider) ID() string { return p.id }

// AuthCodeURL returns the provider's authorization URL for the given state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange trades the authorization code for tokens, verifies the embedded
// ID token, and maps its claims to an assertion.
func (p *Provider) Exchange(ctx context.Context, code string) (*domain.ExternalIdentityAssertion, error) {
	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange with %s: %w", p.id, err)
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("provider %s returned no id_token", p.id)
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verify id_token from %s: %w", p.id, err)
	}

	var claims struct {
		Email             string `json:"email"`
		EmailVerified     bool   `json:"email_verified"`
		Name              string `json:"name"`
		PreferredUsername string `json:"preferred_username"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parse claims from %s: %w", p.id, err)
	}

	assertion := assertionFromClaims(p.id, idToken.Subject,
		claims.Email, claims.EmailVerified, claims.Name, claims.PreferredUsername)
	return &assertion, nil
}

// assertionFromClaims maps verified ID-token claims to an assertion. The
// email is only carried when the provider marked it verified; the display
// name falls back from name to preferred_username to the subject.
func assertionFromClaims(providerID, subject, email string, emailVerified bool, name, preferredUsername string) domain.ExternalIdentityAssertion {
	a := domain.ExternalIdentityAssertion{
		ProviderID: providerID,
		Subject:    subject,
	}
	if email != "" && emailVerified {
		a.Email = &email
	}
	switch {
	case name != "":
		a.DisplayName = name
	case preferredUsername != "":
		a.DisplayName = preferredUsername
	default:
		a.DisplayName = subject
	}
	return a
}

// Registry holds the configured providers keyed by id.
type Registry struct {
	providers map[string]*Provider
}

// NewRegistry performs OIDC discovery for each configured provider. A
// provider that fails discovery fails startup; the set is immutable
// afterwards.
func NewRegistry(ctx context.Context, cfgs []config.OAuthProvider, callbackBaseURL string) (*Registry, error) {
	providers := make(map[string]*Provider, len(cfgs))
	for _, c := range cfgs {
		oidcProvider, err := oidc.NewProvider(ctx, c.IssuerURL)
		if err != nil {
			return nil, fmt.Errorf("oidc discovery for %s: %w", c.ID, err)
		}
		providers[c.ID] = &Provider{
			id: c.ID,
			oauth: &oauth2.Config{
				ClientID:     c.ClientID,
				ClientSecret: c.ClientSecret,
				Endpoint:     oidcProvider.Endpoint(),
				RedirectURL:  callbackBaseURL + "/login/oauth2/code/" + c.ID,
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
			verifier: oidcProvider.Verifier(&oidc.Config{ClientID: c.ClientID}),
		}
	}
	return &Registry{providers: providers}, nil
}

// Get returns the provider for id.
func (r *Registry) Get(id string) (*Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// IDs returns the configured provider ids.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	return ids
}

// RandomState returns a URL-safe random string for the OAuth2 state
// parameter.
func RandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
