package auth

import (
	"context"
	"errors"
	"log/slog"

	"inkwell/internal/domain"
)

// CredentialAuthenticator verifies login name/password pairs against the
// account directory, independent of HTTP transport.
//
// Unknown account and wrong password are distinguished in logs only; callers
// receive the single generic BAD_CREDENTIALS failure for both, and both paths
// perform one password comparison.
type CredentialAuthenticator struct {
	accounts domain.AccountRepository
	verifier domain.PasswordVerifier
	logger   *slog.Logger
}

// NewCredentialAuthenticator creates an authenticator over the given account
// directory and password collaborator.
func NewCredentialAuthenticator(accounts domain.AccountRepository, verifier domain.PasswordVerifier, logger *slog.Logger) *CredentialAuthenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialAuthenticator{accounts: accounts, verifier: verifier, logger: logger}
}

// Authenticate resolves the credential to a principal or returns
// domain.FailBadCredentials. A transient directory failure propagates as-is
// and fails the request; there is no retry.
func (a *CredentialAuthenticator) Authenticate(ctx context.Context, cred domain.LoginCredential) (*domain.Principal, error) {
	account, err := a.accounts.GetByLoginName(ctx, cred.LoginName)
	if err != nil {
		var notFound *domain.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// Burn a comparison so the miss costs the same as a mismatch.
		a.verifier.Verify(cred.Password, dummyHash)
		a.logger.Info("login rejected", "login_name", cred.LoginName, "reason", "unknown_account")
		return nil, domain.FailBadCredentials
	}

	if account.PasswordHash == "" || !a.verifier.Verify(cred.Password, account.PasswordHash) {
		a.logger.Info("login rejected", "login_name", cred.LoginName, "reason", "bad_password")
		return nil, domain.FailBadCredentials
	}

	return &domain.Principal{
		ID:        account.ID,
		LoginName: account.LoginName,
		Role:      account.Role,
		Provider:  account.Provider,
	}, nil
}
