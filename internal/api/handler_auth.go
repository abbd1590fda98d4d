package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/domain"
	"inkwell/internal/identity"
	"inkwell/internal/middleware"
)

const (
	authCookieName  = "Authorization"
	stateCookieName = "oauth_state"
	stateCookieTTL  = 10 * time.Minute
)

type loginRequest struct {
	LoginName string `json:"loginName"`
	Password  string `json:"password"`
}

// Login authenticates a local account. The issued token travels back in the
// Authorization response header; the body stays empty so credentials and
// tokens never mix with payload data.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	principal, err := h.authenticator.Authenticate(r.Context(), domain.LoginCredential{
		LoginName: req.LoginName,
		Password:  req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	issued, err := h.codec.Issue(principal.ID, principal.LoginName, principal.Role, h.tokenTTL)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Authorization", "Bearer "+issued)
	w.WriteHeader(http.StatusOK)
}

// OAuthAuthorize starts the external login flow by redirecting to the
// provider's authorization endpoint. Unknown providers get the structured
// failure, never a redirect.
func (h *Handler) OAuthAuthorize(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "provider")
	provider, ok := h.provider(providerID)
	if !ok {
		middleware.WriteFailureJSON(w, domain.FailUnsupportedProvider)
		return
	}

	state, err := identity.RandomState()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/login/oauth2",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, provider.AuthCodeURL(state), http.StatusFound)
}

// OAuthCallback completes the external login: it verifies the state cookie,
// exchanges the code, maps the assertion to a local account, and delivers
// the token as a cookie before redirecting to the frontend.
func (h *Handler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "provider")
	provider, ok := h.provider(providerID)
	if !ok {
		middleware.WriteFailureJSON(w, domain.FailUnsupportedProvider)
		return
	}

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookieName)
	if err != nil || state == "" || cookie.Value != state {
		h.writeError(w, r, domain.ErrValidation("oauth state mismatch"))
		return
	}
	// The state is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookieName,
		Path:   "/login/oauth2",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		h.writeError(w, r, domain.ErrValidation("missing authorization code"))
		return
	}

	assertion, err := provider.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Warn("external login failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"provider", providerID,
			"error", err)
		middleware.WriteFailureJSON(w, domain.FailBadCredentials)
		return
	}

	principal, err := h.bridge.OnAssertion(r.Context(), *assertion)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	issued, err := h.codec.Issue(principal.ID, principal.LoginName, principal.Role, h.tokenTTL)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    issued,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.frontendOrigin, http.StatusFound)
}

// provider resolves a provider id against the registry and the bridge. The
// registry may be nil when no providers are configured.
func (h *Handler) provider(id string) (*identity.Provider, bool) {
	if h.providers == nil || !h.bridge.Supports(id) {
		return nil, false
	}
	return h.providers.Get(id)
}

type meResponse struct {
	ID        int64   `json:"id"`
	LoginName string  `json:"loginName"`
	Role      string  `json:"role"`
	Provider  *string `json:"provider,omitempty"`
}

// Me returns the authenticated caller's identity as seen by the server.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		middleware.WriteFailureJSON(w, domain.FailMissingToken)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		ID:        principal.ID,
		LoginName: principal.LoginName,
		Role:      string(principal.Role),
		Provider:  optStr(principal.Provider),
	})
}
