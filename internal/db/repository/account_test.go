package repository

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "inkwell/internal/db"
	"inkwell/internal/domain"
)

func setupAccountRepo(t *testing.T) *AccountRepo {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return NewAccountRepo(writeDB)
}

func TestAccountRepo_CreateAndGet(t *testing.T) {
	repo := setupAccountRepo(t)
	ctx := context.Background()

	email := "alice@example.com"
	a, err := repo.Create(ctx, &domain.Account{
		LoginName:    "alice",
		DisplayName:  "Alice",
		Email:        &email,
		PasswordHash: "$2a$10$fakehash",
		Role:         domain.RoleUser,
	})
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.NotZero(t, a.ID)
	assert.Equal(t, "alice", a.LoginName)
	assert.Equal(t, domain.RoleUser, a.Role)
	require.NotNil(t, a.Email)
	assert.Equal(t, email, *a.Email)
	assert.False(t, a.CreatedAt.IsZero())

	found, err := repo.GetByLoginName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)

	found, err = repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.LoginName)
}

func TestAccountRepo_GetByLoginName_NotFound(t *testing.T) {
	repo := setupAccountRepo(t)

	_, err := repo.GetByLoginName(context.Background(), "nobody")
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestAccountRepo_DuplicateLoginNameConflicts(t *testing.T) {
	repo := setupAccountRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Account{LoginName: "bob", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.Account{LoginName: "bob", Role: domain.RoleUser})
	require.Error(t, err)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestAccountRepo_NilEmail(t *testing.T) {
	repo := setupAccountRepo(t)

	a, err := repo.Create(context.Background(), &domain.Account{
		LoginName: "google_1234",
		Role:      domain.RoleUser,
		Provider:  "google",
	})
	require.NoError(t, err)
	assert.Nil(t, a.Email)
	assert.Equal(t, "google", a.Provider)
}

func TestAccountRepo_SetRole(t *testing.T) {
	repo := setupAccountRepo(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, &domain.Account{LoginName: "carol", Role: domain.RoleUser})
	require.NoError(t, err)

	require.NoError(t, repo.SetRole(ctx, a.ID, domain.RoleAdmin))

	found, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, found.Role)

	err = repo.SetRole(ctx, 99999, domain.RoleAdmin)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestAccountRepo_List(t *testing.T) {
	repo := setupAccountRepo(t)
	ctx := context.Background()

	for _, name := range []string{"u1", "u2", "u3"} {
		_, err := repo.Create(ctx, &domain.Account{LoginName: name, Role: domain.RoleUser})
		require.NoError(t, err)
	}

	accounts, total, err := repo.List(ctx, domain.PageRequest{MaxResults: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, accounts, 2)
}
