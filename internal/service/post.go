// Package service contains the application services that sit between the
// HTTP handlers and the repositories.
package service

import (
	"context"
	"strings"

	"inkwell/internal/domain"
)

const maxTitleLen = 200

// PostService implements post CRUD with ownership checks. Reads are public;
// mutations require the caller's principal.
type PostService struct {
	posts domain.PostRepository
}

func NewPostService(posts domain.PostRepository) *PostService {
	return &PostService{posts: posts}
}

func (s *PostService) Create(ctx context.Context, caller domain.Principal, title, body string) (*domain.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrValidation("post title is required")
	}
	if len(title) > maxTitleLen {
		return nil, domain.ErrValidation("post title exceeds 200 characters")
	}
	return s.posts.Create(ctx, &domain.Post{
		AuthorID: caller.ID,
		Title:    title,
		Body:     body,
	})
}

func (s *PostService) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *PostService) List(ctx context.Context, page domain.PageRequest) ([]domain.Post, int64, error) {
	return s.posts.List(ctx, page)
}

// Update replaces the title and body. Only the author or an admin may edit.
func (s *PostService) Update(ctx context.Context, caller domain.Principal, id int64, title, body string) (*domain.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrValidation("post title is required")
	}
	if len(title) > maxTitleLen {
		return nil, domain.ErrValidation("post title exceeds 200 characters")
	}

	existing, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.AuthorID != caller.ID && !caller.IsAdmin() {
		return nil, domain.ErrAccessDenied("only the author or an admin can edit this post")
	}

	existing.Title = title
	existing.Body = body
	if err := s.posts.Update(ctx, existing); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, id)
}

// Delete soft-deletes the post. Only the author or an admin may delete.
func (s *PostService) Delete(ctx context.Context, caller domain.Principal, id int64) error {
	existing, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.AuthorID != caller.ID && !caller.IsAdmin() {
		return domain.ErrAccessDenied("only the author or an admin can delete this post")
	}
	return s.posts.SoftDelete(ctx, id)
}
