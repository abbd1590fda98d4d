// Package app provides application-level wiring and dependency injection
// for the inkwell server following hexagonal architecture.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"inkwell/internal/auth"
	"inkwell/internal/authz"
	"inkwell/internal/config"
	"inkwell/internal/db/repository"
	"inkwell/internal/identity"
	"inkwell/internal/service"
	"inkwell/internal/token"
)

// Deps holds the external dependencies that main() must provide.
// These are things the app package cannot (or should not) create itself:
// database handles, config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups the service pointers that the API handler needs.
// Upload is nil when S3 is not configured.
type Services struct {
	Account *service.AccountService
	Post    *service.PostService
	Upload  *service.UploadService // nil when S3 not configured
	Purge   *service.PurgeService
}

// App holds the fully-wired application: services plus the authentication
// collaborators the router mounts in front of the handlers.
type App struct {
	Services      Services
	Codec         *token.Codec
	Authenticator *auth.CredentialAuthenticator
	Bridge        *auth.IdentityBridge
	Providers     *identity.Registry // nil when no providers configured
	Policy        *authz.Policy
}

// New wires repositories, services, and the authentication core from the
// provided deps. Identity provider discovery runs against ctx and fails
// startup when a configured provider is unreachable.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg

	// Mutating repositories ride the serialized write pool. The credential
	// lookup path gets its own repo on the read pool so logins do not queue
	// behind writes.
	accountRepo := repository.NewAccountRepo(deps.WriteDB)
	postRepo := repository.NewPostRepo(deps.WriteDB)
	accountReader := repository.NewAccountRepo(deps.ReadDB)

	verifier := auth.BcryptVerifier{}

	codec, err := token.NewCodec(cfg.Auth.TokenSecret)
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	authenticator := auth.NewCredentialAuthenticator(
		accountReader, verifier, deps.Logger.With("component", "authenticator"))
	bridge := auth.NewIdentityBridge(
		accountRepo, cfg.Auth.ProviderIDs(), deps.Logger.With("component", "identity-bridge"))

	var providers *identity.Registry
	if len(cfg.Auth.Providers) > 0 {
		providers, err = identity.NewRegistry(ctx, cfg.Auth.Providers, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("identity providers: %w", err)
		}
		deps.Logger.Info("identity providers configured", "providers", cfg.Auth.ProviderIDs())
	}

	uploadSvc := service.NewUploadService(cfg)
	if uploadSvc != nil {
		deps.Logger.Info("upload service enabled", "bucket", *cfg.S3Bucket)
	}

	return &App{
		Services: Services{
			Account: service.NewAccountService(accountRepo, verifier),
			Post:    service.NewPostService(postRepo),
			Upload:  uploadSvc,
			Purge: service.NewPurgeService(
				postRepo, cfg.PurgeRetention, deps.Logger.With("component", "purge")),
		},
		Codec:         codec,
		Authenticator: authenticator,
		Bridge:        bridge,
		Providers:     providers,
		Policy:        authz.DefaultPolicy(),
	}, nil
}
