package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/harborline/accountd/internal/accounts/domain"
	"github.com/harborline/accountd/internal/accounts/service"
	"github.com/harborline/accountd/pkg/accountsdk"
	"github.com/harborline/accountd/pkg/httpx"
)

// UsersHandler serves the administrative user management endpoints. Role
// enforcement happens in middleware; these handlers assume an admin session.
type UsersHandler struct {
	AccountService *service.AccountService
}

func userSummary(a domain.Account) accountsdk.UserSummary {
	return accountsdk.UserSummary{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Contact:   a.Contact,
		AvatarURL: a.AvatarURL,
		Verified:  a.IsVerified,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accounts, err := h.AccountService.ListUsers(ctx)
	if err != nil {
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	users := make([]accountsdk.UserSummary, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, userSummary(a))
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.ListUsersResponse{
		Users: users,
		Total: len(users),
	})
}

func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var req accountsdk.AdminUpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateAdminUpdateUser(req); err != nil {
		writeValidationError(w, err)
		return
	}

	account, err := h.AccountService.AdminUpdateUser(ctx, id, adminInput(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			accountsdk.ErrNotFound.WriteError(w)
		default:
			accountsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userSummary(account))
}

func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.AccountService.AdminDeleteUser(ctx, id); err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			accountsdk.ErrNotFound.WriteError(w)
		default:
			accountsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
		Message: "User deleted.",
	})
}

func (h *UsersHandler) HandleBulkDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req accountsdk.BulkDeleteUsersRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		accountsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	out := h.AccountService.AdminBulkDeleteUsers(ctx, req.IDs)
	httpx.WriteJSON(w, http.StatusOK, bulkResult(out))
}

func (h *UsersHandler) HandleBulkUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req accountsdk.BulkUpdateUsersRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Updates) == 0 {
		accountsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	for _, u := range req.Updates {
		if err := validateAdminUpdateUser(u.AdminUpdateUserRequest); err != nil {
			writeValidationError(w, err)
			return
		}
	}

	updates := make([]service.BulkUpdate, 0, len(req.Updates))
	for _, u := range req.Updates {
		updates = append(updates, service.BulkUpdate{
			ID:    u.ID,
			Input: adminInput(u.AdminUpdateUserRequest),
		})
	}

	out := h.AccountService.AdminBulkUpdateUsers(ctx, updates)
	httpx.WriteJSON(w, http.StatusOK, bulkResult(out))
}

func adminInput(req accountsdk.AdminUpdateUserRequest) service.AdminUpdateInput {
	return service.AdminUpdateInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Contact:      req.Contact,
		Password:     req.Password,
		AvatarURL:    req.AvatarURL,
		AvatarFileID: req.AvatarFileID,
	}
}

func bulkResult(out service.BulkOutcome) accountsdk.BulkResult {
	res := accountsdk.BulkResult{Succeeded: out.Succeeded}
	if len(out.Failed) > 0 {
		res.Failed = out.Failed
	}
	return res
}
