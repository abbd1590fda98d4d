package service

import (
	"context"
	"strings"

	"inkwell/internal/domain"
)

// AccountService covers account administration: creating local accounts,
// listing them, and changing roles. Login-path lookups go through the
// authenticator instead.
type AccountService struct {
	accounts domain.AccountRepository
	verifier domain.PasswordVerifier
}

func NewAccountService(accounts domain.AccountRepository, verifier domain.PasswordVerifier) *AccountService {
	return &AccountService{accounts: accounts, verifier: verifier}
}

// CreateLocal provisions a password-backed account. The plaintext is hashed
// here and never stored.
func (s *AccountService) CreateLocal(ctx context.Context, loginName, password, displayName string, role domain.Role) (*domain.Account, error) {
	loginName = strings.TrimSpace(loginName)
	if loginName == "" {
		return nil, domain.ErrValidation("login name is required")
	}
	if len(password) < 8 {
		return nil, domain.ErrValidation("password must be at least 8 characters")
	}
	if !role.Valid() {
		return nil, domain.ErrValidation("invalid role: %s", role)
	}

	hash, err := s.verifier.Hash(password)
	if err != nil {
		return nil, err
	}
	if displayName == "" {
		displayName = loginName
	}
	return s.accounts.Create(ctx, &domain.Account{
		LoginName:    loginName,
		DisplayName:  displayName,
		PasswordHash: hash,
		Role:         role,
	})
}

func (s *AccountService) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

func (s *AccountService) List(ctx context.Context, page domain.PageRequest) ([]domain.Account, int64, error) {
	return s.accounts.List(ctx, page)
}

func (s *AccountService) SetRole(ctx context.Context, id int64, role domain.Role) error {
	if !role.Valid() {
		return domain.ErrValidation("invalid role: %s", role)
	}
	return s.accounts.SetRole(ctx, id, role)
}
