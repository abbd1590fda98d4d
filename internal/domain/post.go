package domain

import "time"

// Post is an authored content entry. Deletion is soft: DeletedAt is set and
// the row stays until the purge job removes it.
type Post struct {
	ID        int64
	AuthorID  int64
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Deleted reports whether the post has been soft-deleted.
func (p *Post) Deleted() bool { return p.DeletedAt != nil }
