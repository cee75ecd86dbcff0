package http

import (
	"errors"
	"net/http"

	"github.com/harborline/accountd/internal/accounts/domain"
	"github.com/harborline/accountd/internal/accounts/service"
	"github.com/harborline/accountd/pkg/accountsdk"
	"github.com/harborline/accountd/pkg/httpx"
)

type PasswordResetHandler struct {
	AccountService *service.AccountService
}

// RequestHandler mints and emails a reset token. The response is the same
// whether or not the email is registered.
func (h *PasswordResetHandler) RequestHandler(variant domain.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req accountsdk.PasswordResetRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := validatePasswordResetRequest(req); err != nil {
			writeValidationError(w, err)
			return
		}

		if err := h.AccountService.RequestPasswordReset(ctx, variant, req.Email); err != nil {
			accountsdk.ErrServerError.WriteError(w)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
			Message: "If that email is registered, a reset link has been sent.",
		})
	}
}

// ResetHandler consumes a reset token and sets the new password.
func (h *PasswordResetHandler) ResetHandler(variant domain.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req accountsdk.ResetPasswordRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := validateResetPassword(req); err != nil {
			writeValidationError(w, err)
			return
		}

		if err := h.AccountService.ResetPassword(ctx, variant, req.Token, req.Password); err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidOrExpiredToken):
				accountsdk.ErrInvalidOrExpiredToken.WriteError(w)
			default:
				accountsdk.ErrServerError.WriteError(w)
			}
			return
		}

		httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
			Message: "Password has been reset. You can now log in.",
		})
	}
}
