package domain

import "context"

// AccountRepository is the persistence port for local accounts. It is the
// only shared mutable resource in the authentication core.
type AccountRepository interface {
	GetByID(ctx context.Context, id int64) (*Account, error)
	GetByLoginName(ctx context.Context, loginName string) (*Account, error)
	Create(ctx context.Context, a *Account) (*Account, error)
	List(ctx context.Context, page PageRequest) ([]Account, int64, error)
	SetRole(ctx context.Context, id int64, role Role) error
}

// PostRepository is the persistence port for posts.
type PostRepository interface {
	Create(ctx context.Context, p *Post) (*Post, error)
	GetByID(ctx context.Context, id int64) (*Post, error)
	List(ctx context.Context, page PageRequest) ([]Post, int64, error)
	Update(ctx context.Context, p *Post) error
	SoftDelete(ctx context.Context, id int64) error
	PurgeDeletedBefore(ctx context.Context, cutoffUnix int64) (int64, error)
}

// PasswordVerifier is the one-way password collaborator. Implementations
// must never expose the plaintext and should cost the same for matching and
// non-matching inputs.
type PasswordVerifier interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}
