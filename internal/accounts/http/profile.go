package http

import (
	"errors"
	"net/http"

	"github.com/harborline/accountd/internal/accounts/domain"
	"github.com/harborline/accountd/internal/accounts/service"
	"github.com/harborline/accountd/pkg/accountsdk"
	"github.com/harborline/accountd/pkg/httpx"
)

type ProfileHandler struct {
	AccountService *service.AccountService
}

func profileResponse(a domain.Account) accountsdk.ProfileResponse {
	return accountsdk.ProfileResponse{
		ID:        a.ID,
		Variant:   string(a.Variant),
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Contact:   a.Contact,
		AvatarURL: a.AvatarURL,
		Verified:  a.IsVerified,
	}
}

func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, err := h.AccountService.GetProfile(ctx, httpx.AccountIDFromCtx(ctx))
	if err != nil {
		writeProfileError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, profileResponse(account))
}

func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req accountsdk.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateUpdateProfile(req); err != nil {
		writeValidationError(w, err)
		return
	}

	account, err := h.AccountService.UpdateProfile(ctx, httpx.AccountIDFromCtx(ctx), service.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Contact:   req.Contact,
	})
	if err != nil {
		writeProfileError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, profileResponse(account))
}

func (h *ProfileHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req accountsdk.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateChangePassword(req); err != nil {
		writeValidationError(w, err)
		return
	}

	err := h.AccountService.ChangePassword(ctx, httpx.AccountIDFromCtx(ctx), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIncorrectPassword):
			accountsdk.ErrIncorrectPassword.WriteError(w)
		case errors.Is(err, service.ErrAccountNotFound):
			accountsdk.ErrNotFound.WriteError(w)
		default:
			accountsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
		Message: "Password updated.",
	})
}

func (h *ProfileHandler) HandleUpdatePicture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req accountsdk.UpdateAvatarRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateUpdateAvatar(req); err != nil {
		writeValidationError(w, err)
		return
	}

	account, err := h.AccountService.UpdateAvatar(ctx, httpx.AccountIDFromCtx(ctx), req.AvatarURL, req.AvatarFileID)
	if err != nil {
		writeProfileError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, profileResponse(account))
}

func (h *ProfileHandler) HandleRemovePicture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.AccountService.RemoveAvatar(ctx, httpx.AccountIDFromCtx(ctx)); err != nil {
		writeProfileError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
		Message: "Profile picture removed.",
	})
}

func writeProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		accountsdk.ErrNotFound.WriteError(w)
	default:
		accountsdk.ErrServerError.WriteError(w)
	}
}
