// Package api provides the HTTP handlers for the content service REST API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/auth"
	"inkwell/internal/domain"
	"inkwell/internal/identity"
	"inkwell/internal/middleware"
	"inkwell/internal/service"
	"inkwell/internal/token"
)

// Handler carries the services behind the REST routes. Uploads may be nil
// when S3 is not configured.
type Handler struct {
	authenticator  *auth.CredentialAuthenticator
	bridge         *auth.IdentityBridge
	codec          *token.Codec
	providers      *identity.Registry
	accounts       *service.AccountService
	posts          *service.PostService
	uploads        *service.UploadService
	purge          *service.PurgeService
	tokenTTL       time.Duration
	frontendOrigin string
	logger         *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	authenticator *auth.CredentialAuthenticator,
	bridge *auth.IdentityBridge,
	codec *token.Codec,
	providers *identity.Registry,
	accounts *service.AccountService,
	posts *service.PostService,
	uploads *service.UploadService,
	purge *service.PurgeService,
	tokenTTL time.Duration,
	frontendOrigin string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		authenticator:  authenticator,
		bridge:         bridge,
		codec:          codec,
		providers:      providers,
		accounts:       accounts,
		posts:          posts,
		uploads:        uploads,
		purge:          purge,
		tokenTTL:       tokenTTL,
		frontendOrigin: frontendOrigin,
		logger:         logger,
	}
}

// Routes mounts every route on r. Which of these require a token is decided
// by the authentication middleware, not here.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.Healthz)

	r.Post("/api/login", h.Login)
	r.Get("/oauth2/authorization/{provider}", h.OAuthAuthorize)
	r.Get("/login/oauth2/code/{provider}", h.OAuthCallback)

	r.Get("/api/me", h.Me)

	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Post("/", h.CreatePost)
		r.Get("/{postID}", h.GetPost)
		r.Put("/{postID}", h.UpdatePost)
		r.Delete("/{postID}", h.DeletePost)
	})

	r.Post("/api/uploads", h.CreateUploadURL)

	r.Route("/api/admin", func(r chi.Router) {
		r.Get("/accounts", h.ListAccounts)
		r.Put("/accounts/{accountID}/role", h.SetAccountRole)
		r.Post("/purge", h.RunPurge)
	})
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeError renders err as JSON. Authentication failures keep their
// structured envelope; domain errors map to plain {code,message}.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var failure *domain.AuthFailure
	if errors.As(err, &failure) {
		middleware.WriteFailureJSON(w, failure)
		return
	}
	status := httpStatusFromDomainError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err)
		writeJSON(w, status, errorBody{Code: status, Message: "internal server error"})
		return
	}
	writeJSON(w, status, errorBody{Code: status, Message: err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.ErrValidation("invalid request body: %s", err)
	}
	return nil
}

// int64Param parses a numeric chi URL parameter.
func int64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.ErrValidation("invalid %s: %q", name, raw)
	}
	return id, nil
}

// pageFromQuery extracts a PageRequest from max_results/page_token params.
func pageFromQuery(r *http.Request) domain.PageRequest {
	p := domain.PageRequest{PageToken: r.URL.Query().Get("page_token")}
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			p.MaxResults = n
		}
	}
	return p
}

// optStr returns a pointer to the string if non-empty, otherwise nil.
func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
