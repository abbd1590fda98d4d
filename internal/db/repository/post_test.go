package repository

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "inkwell/internal/db"
	"inkwell/internal/domain"
)

func setupPostRepo(t *testing.T) (*PostRepo, int64) {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)

	author, err := NewAccountRepo(writeDB).Create(context.Background(), &domain.Account{
		LoginName: "author", Role: domain.RoleUser,
	})
	require.NoError(t, err)

	return NewPostRepo(writeDB), author.ID
}

func TestPostRepo_CRUD(t *testing.T) {
	repo, authorID := setupPostRepo(t)
	ctx := context.Background()

	p, err := repo.Create(ctx, &domain.Post{AuthorID: authorID, Title: "hello", Body: "world"})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Nil(t, p.DeletedAt)

	p.Title = "hello again"
	require.NoError(t, repo.Update(ctx, p))

	found, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello again", found.Title)

	posts, total, err := repo.List(ctx, domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, posts, 1)
}

func TestPostRepo_SoftDeleteHidesPost(t *testing.T) {
	repo, authorID := setupPostRepo(t)
	ctx := context.Background()

	p, err := repo.Create(ctx, &domain.Post{AuthorID: authorID, Title: "gone"})
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(ctx, p.ID))

	_, err = repo.GetByID(ctx, p.ID)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, total, err := repo.List(ctx, domain.PageRequest{})
	require.NoError(t, err)
	assert.Zero(t, total)

	// Double delete reports not found.
	err = repo.SoftDelete(ctx, p.ID)
	assert.ErrorAs(t, err, &notFound)
}

func TestPostRepo_PurgeDeletedBefore(t *testing.T) {
	repo, authorID := setupPostRepo(t)
	ctx := context.Background()

	old, err := repo.Create(ctx, &domain.Post{AuthorID: authorID, Title: "old"})
	require.NoError(t, err)
	require.NoError(t, repo.SoftDelete(ctx, old.ID))

	kept, err := repo.Create(ctx, &domain.Post{AuthorID: authorID, Title: "kept"})
	require.NoError(t, err)

	// Cutoff in the future removes the already-deleted post but not live ones.
	n, err := repo.PurgeDeletedBefore(ctx, time.Now().Add(time.Hour).Unix())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetByID(ctx, kept.ID)
	require.NoError(t, err)

	// Cutoff in the past removes nothing.
	n, err = repo.PurgeDeletedBefore(ctx, time.Now().Add(-time.Hour).Unix())
	require.NoError(t, err)
	assert.Zero(t, n)
}
