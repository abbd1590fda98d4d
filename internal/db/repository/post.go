package repository

import (
	"context"
	"database/sql"

	"inkwell/internal/domain"
)

const postColumns = `id, author_id, title, body, created_at, updated_at, deleted_at`

// PostRepo persists posts in SQLite. Reads exclude soft-deleted rows; only
// PurgeDeletedBefore touches them again.
type PostRepo struct {
	db *sql.DB
}

func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{db: db}
}

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (author_id, title, body) VALUES (?, ?, ?)`,
		p.AuthorID, p.Title, p.Body)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *PostRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ? AND deleted_at IS NULL`, id)
	return scanPost(row)
}

func (r *PostRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Post, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE deleted_at IS NULL ORDER BY id DESC LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, *p)
	}
	return posts, total, rows.Err()
}

func (r *PostRepo) Update(ctx context.Context, p *domain.Post) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, body = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		p.Title, p.Body, p.ID)
	if err != nil {
		return err
	}
	return requireRow(res, p.ID)
}

func (r *PostRepo) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE posts SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

// PurgeDeletedBefore hard-deletes posts soft-deleted before the cutoff.
// Returns the number of rows removed.
func (r *PostRepo) PurgeDeletedBefore(ctx context.Context, cutoffUnix int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM posts WHERE deleted_at IS NOT NULL AND deleted_at < datetime(?, 'unixepoch')`,
		cutoffUnix)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound("post %d not found", id)
	}
	return nil
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var p domain.Post
	var deletedAt sql.NullTime
	if err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Body,
		&p.CreatedAt, &p.UpdatedAt, &deletedAt); err != nil {
		return nil, mapDBError(err)
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		p.DeletedAt = &t
	}
	return &p, nil
}
