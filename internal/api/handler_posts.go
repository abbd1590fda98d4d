package api

import (
	"net/http"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/middleware"
)

type postRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type postResponse struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"authorId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type postListResponse struct {
	Data          []postResponse `json:"data"`
	NextPageToken *string        `json:"nextPageToken,omitempty"`
}

func postToAPI(p domain.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Body:      p.Body,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	posts, total, err := h.posts.List(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data := make([]postResponse, len(posts))
	for i, p := range posts {
		data[i] = postToAPI(p)
	}
	npt := domain.NextPageToken(page.Offset(), page.Limit(), total)
	writeJSON(w, http.StatusOK, postListResponse{Data: data, NextPageToken: optStr(npt)})
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "postID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, postToAPI(*post))
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	principal, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		middleware.WriteFailureJSON(w, domain.FailMissingToken)
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	post, err := h.posts.Create(r.Context(), principal, req.Title, req.Body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, postToAPI(*post))
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	principal, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		middleware.WriteFailureJSON(w, domain.FailMissingToken)
		return
	}

	id, err := int64Param(r, "postID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	post, err := h.posts.Update(r.Context(), principal, id, req.Title, req.Body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, postToAPI(*post))
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	principal, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		middleware.WriteFailureJSON(w, domain.FailMissingToken)
		return
	}

	id, err := int64Param(r, "postID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.posts.Delete(r.Context(), principal, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
