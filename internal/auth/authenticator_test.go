package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/domain"
)

// stubAccounts is an in-memory AccountRepository for unit tests.
type stubAccounts struct {
	mu      sync.Mutex
	nextID  int64
	byLogin map[string]*domain.Account
	failAll bool
}

func newStubAccounts() *stubAccounts {
	return &stubAccounts{nextID: 1, byLogin: map[string]*domain.Account{}}
}

func (s *stubAccounts) add(a *domain.Account) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextID
	s.nextID++
	s.byLogin[a.LoginName] = a
	return a
}

func (s *stubAccounts) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.byLogin {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound("account %d not found", id)
}

func (s *stubAccounts) GetByLoginName(_ context.Context, loginName string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return nil, fmt.Errorf("directory unavailable")
	}
	a, ok := s.byLogin[loginName]
	if !ok {
		return nil, domain.ErrNotFound("account %s not found", loginName)
	}
	return a, nil
}

func (s *stubAccounts) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byLogin[a.LoginName]; exists {
		return nil, domain.ErrConflict("login name %s taken", a.LoginName)
	}
	cp := *a
	cp.ID = s.nextID
	s.nextID++
	s.byLogin[cp.LoginName] = &cp
	return &cp, nil
}

func (s *stubAccounts) List(_ context.Context, _ domain.PageRequest) ([]domain.Account, int64, error) {
	return nil, 0, nil
}

func (s *stubAccounts) SetRole(_ context.Context, _ int64, _ domain.Role) error {
	return nil
}

func TestCredentialAuthenticator_Success(t *testing.T) {
	accounts := newStubAccounts()
	verifier := BcryptVerifier{}
	hash, err := verifier.Hash("s3cret")
	require.NoError(t, err)
	accounts.add(&domain.Account{
		LoginName: "alice", PasswordHash: hash, Role: domain.RoleAdmin,
	})

	a := NewCredentialAuthenticator(accounts, verifier, nil)
	p, err := a.Authenticate(context.Background(), domain.LoginCredential{
		LoginName: "alice", Password: "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", p.LoginName)
	assert.Equal(t, domain.RoleAdmin, p.Role)
	assert.True(t, p.IsAdmin())
}

func TestCredentialAuthenticator_GenericFailure(t *testing.T) {
	accounts := newStubAccounts()
	verifier := BcryptVerifier{}
	hash, err := verifier.Hash("right-password")
	require.NoError(t, err)
	accounts.add(&domain.Account{LoginName: "bob", PasswordHash: hash, Role: domain.RoleUser})

	a := NewCredentialAuthenticator(accounts, verifier, nil)

	// Unknown account and wrong password surface as the same failure.
	_, errUnknown := a.Authenticate(context.Background(), domain.LoginCredential{
		LoginName: "nobody", Password: "whatever",
	})
	_, errWrong := a.Authenticate(context.Background(), domain.LoginCredential{
		LoginName: "bob", Password: "wrong-password",
	})

	var f1, f2 *domain.AuthFailure
	require.ErrorAs(t, errUnknown, &f1)
	require.ErrorAs(t, errWrong, &f2)
	assert.Equal(t, domain.CodeBadCredentials, f1.Code)
	assert.Equal(t, domain.CodeBadCredentials, f2.Code)
	assert.Equal(t, f1.Message, f2.Message)
}

func TestCredentialAuthenticator_EmptyHashNeverMatches(t *testing.T) {
	// Provider-provisioned accounts have no password hash and cannot log in
	// with credentials.
	accounts := newStubAccounts()
	accounts.add(&domain.Account{LoginName: "google_123", Role: domain.RoleUser, Provider: "google"})

	a := NewCredentialAuthenticator(accounts, BcryptVerifier{}, nil)
	_, err := a.Authenticate(context.Background(), domain.LoginCredential{
		LoginName: "google_123", Password: "",
	})
	var failure *domain.AuthFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, domain.CodeBadCredentials, failure.Code)
}

func TestCredentialAuthenticator_DirectoryErrorPropagates(t *testing.T) {
	accounts := newStubAccounts()
	accounts.failAll = true

	a := NewCredentialAuthenticator(accounts, BcryptVerifier{}, nil)
	_, err := a.Authenticate(context.Background(), domain.LoginCredential{
		LoginName: "alice", Password: "x",
	})
	require.Error(t, err)
	var failure *domain.AuthFailure
	assert.False(t, errors.As(err, &failure), "transient errors must not map to an auth failure")
}

func TestBcryptVerifier_RoundTrip(t *testing.T) {
	v := BcryptVerifier{}
	hash, err := v.Hash("pa55word")
	require.NoError(t, err)
	assert.True(t, v.Verify("pa55word", hash))
	assert.False(t, v.Verify("PA55word", hash))
	assert.False(t, v.Verify("pa55word", "not-a-hash"))
}
