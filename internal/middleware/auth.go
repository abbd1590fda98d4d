// Package middleware provides the HTTP middleware chain: request IDs, rate
// limiting, and the stateless authentication pipeline.
package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"inkwell/internal/authz"
	"inkwell/internal/domain"
)

// bearerPrefix is the exact required prefix, trailing space included.
const bearerPrefix = "Bearer "

// TokenValidator validates a serialized access token and returns the
// principal it encodes.
type TokenValidator interface {
	Validate(serialized string) (*domain.Principal, error)
}

// Authenticator runs the per-request authentication pipeline:
//
//	whitelist check → classify → (pass | extract token → validate →
//	role check) → attach principal → dispatch
//
// Failures short-circuit with a structured JSON body and never reach the
// downstream handler. The policy and validator are immutable; the
// authenticator is safe for unbounded concurrent use.
type Authenticator struct {
	codec  TokenValidator
	policy *authz.Policy
	logger *slog.Logger
}

// NewAuthenticator creates the pipeline over an injected policy and token
// validator.
func NewAuthenticator(codec TokenValidator, policy *authz.Policy, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{codec: codec, policy: policy, logger: logger}
}

// Middleware returns the chi-compatible middleware function.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Whitelisted paths skip validation entirely, even with a
			// malformed Authorization header present.
			if a.policy.Whitelisted(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			disposition, requiredRole := a.policy.Classify(r.Method, r.URL.Path)
			switch disposition {
			case authz.Public:
				next.ServeHTTP(w, r)
				return
			case authz.Deny:
				a.fail(w, r, domain.FailNoMatchingRule)
				return
			}

			raw, ok := bearerToken(r)
			if !ok {
				a.fail(w, r, domain.FailMissingToken)
				return
			}

			principal, err := a.codec.Validate(raw)
			if err != nil {
				var failure *domain.AuthFailure
				if errors.As(err, &failure) {
					a.fail(w, r, failure)
					return
				}
				a.logger.Error("token validation error", "error", err)
				WriteFailureJSON(w, &domain.AuthFailure{
					Code: domain.CodeMalformedToken, Status: http.StatusInternalServerError,
					Message: "could not validate token",
				})
				return
			}

			// The token's role claim is authoritative for this request; the
			// directory is deliberately not consulted again, so a role change
			// only takes effect when the token expires.
			if disposition == authz.RequireRole && principal.Role != requiredRole {
				a.fail(w, r, domain.FailInsufficientRole)
				return
			}

			ctx := domain.WithPrincipal(r.Context(), *principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *Authenticator) fail(w http.ResponseWriter, r *http.Request, failure *domain.AuthFailure) {
	a.logger.Info("request rejected",
		"method", r.Method,
		"path", r.URL.Path,
		"code", string(failure.Code),
		"request_id", RequestIDFromContext(r.Context()),
	)
	WriteFailureJSON(w, failure)
}

// bearerToken extracts the token from the Authorization header. The header
// must carry the exact "Bearer " prefix with a non-empty remainder; anything
// else counts as a missing token.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	raw := header[len(bearerPrefix):]
	if raw == "" {
		return "", false
	}
	return raw, true
}

// failureBody is the wire shape of every authentication failure.
type failureBody struct {
	Status    int       `json:"status"`
	ErrorCode string    `json:"errorCode"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// WriteFailureJSON writes the structured JSON error for an AuthFailure. It is
// always a direct JSON response; authentication failures never trigger an
// identity-provider redirect.
func WriteFailureJSON(w http.ResponseWriter, failure *domain.AuthFailure) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(failure.Status)
	_ = json.NewEncoder(w).Encode(failureBody{
		Status:    failure.Status,
		ErrorCode: string(failure.Code),
		Message:   failure.Message,
		Timestamp: time.Now().UTC(),
	})
}
