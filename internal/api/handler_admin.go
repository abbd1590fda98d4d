package api

import (
	"net/http"
	"time"

	"inkwell/internal/domain"
)

type accountResponse struct {
	ID          int64     `json:"id"`
	LoginName   string    `json:"loginName"`
	DisplayName string    `json:"displayName"`
	Email       *string   `json:"email,omitempty"`
	Role        string    `json:"role"`
	Provider    *string   `json:"provider,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type accountListResponse struct {
	Data          []accountResponse `json:"data"`
	NextPageToken *string           `json:"nextPageToken,omitempty"`
}

func accountToAPI(a domain.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		LoginName:   a.LoginName,
		DisplayName: a.DisplayName,
		Email:       a.Email,
		Role:        string(a.Role),
		Provider:    optStr(a.Provider),
		CreatedAt:   a.CreatedAt,
	}
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	accounts, total, err := h.accounts.List(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data := make([]accountResponse, len(accounts))
	for i, a := range accounts {
		data[i] = accountToAPI(a)
	}
	npt := domain.NextPageToken(page.Offset(), page.Limit(), total)
	writeJSON(w, http.StatusOK, accountListResponse{Data: data, NextPageToken: optStr(npt)})
}

type setRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) SetAccountRole(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "accountID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req setRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.accounts.SetRole(r.Context(), id, domain.Role(req.Role)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type purgeResponse struct {
	PurgedCount int64 `json:"purgedCount"`
}

// RunPurge triggers the retention sweep outside its cron schedule.
func (h *Handler) RunPurge(w http.ResponseWriter, r *http.Request) {
	purged, err := h.purge.RunOnce(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, purgeResponse{PurgedCount: purged})
}
