package auth

import (
	"context"
	"errors"
	"log/slog"

	"inkwell/internal/domain"
)

// IdentityBridge maps provider-verified identity assertions to local
// accounts, provisioning one on first login. Externally provisioned accounts
// always receive the USER role; promotion happens through administration, not
// through the provider.
type IdentityBridge struct {
	accounts  domain.AccountRepository
	providers map[string]bool
	logger    *slog.Logger
}

// NewIdentityBridge creates a bridge accepting assertions from the given
// provider ids.
func NewIdentityBridge(accounts domain.AccountRepository, providers []string, logger *slog.Logger) *IdentityBridge {
	if logger == nil {
		logger = slog.Default()
	}
	supported := make(map[string]bool, len(providers))
	for _, p := range providers {
		supported[p] = true
	}
	return &IdentityBridge{accounts: accounts, providers: supported, logger: logger}
}

// Supports reports whether the bridge accepts assertions from providerID.
func (b *IdentityBridge) Supports(providerID string) bool {
	return b.providers[providerID]
}

// OnAssertion resolves the assertion to a local principal, creating the
// account when absent. A uniqueness conflict on create means another request
// provisioned the same derived login name first; the bridge re-reads instead
// of failing, so concurrent first logins both succeed against one account.
func (b *IdentityBridge) OnAssertion(ctx context.Context, assertion domain.ExternalIdentityAssertion) (*domain.Principal, error) {
	if !b.Supports(assertion.ProviderID) {
		return nil, domain.FailUnsupportedProvider
	}

	loginName := assertion.DerivedLoginName()

	account, err := b.accounts.GetByLoginName(ctx, loginName)
	if err != nil {
		var notFound *domain.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		account, err = b.provision(ctx, loginName, assertion)
		if err != nil {
			return nil, err
		}
	}

	return &domain.Principal{
		ID:        account.ID,
		LoginName: account.LoginName,
		Role:      account.Role,
		Provider:  account.Provider,
	}, nil
}

func (b *IdentityBridge) provision(ctx context.Context, loginName string, assertion domain.ExternalIdentityAssertion) (*domain.Account, error) {
	created, err := b.accounts.Create(ctx, &domain.Account{
		LoginName:   loginName,
		DisplayName: assertion.DisplayName,
		Email:       assertion.Email,
		Role:        domain.RoleUser,
		Provider:    assertion.ProviderID,
	})
	if err == nil {
		b.logger.Info("provisioned account from identity provider",
			"login_name", loginName, "provider", assertion.ProviderID)
		return created, nil
	}

	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		return nil, err
	}
	// Lost the race: someone else created the account between our read and
	// write. Re-read and use theirs.
	return b.accounts.GetByLoginName(ctx, loginName)
}
