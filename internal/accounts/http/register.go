package http

import (
	"errors"
	"net/http"

	"github.com/harborline/accountd/internal/accounts/domain"
	"github.com/harborline/accountd/internal/accounts/service"
	"github.com/harborline/accountd/pkg/accountsdk"
	"github.com/harborline/accountd/pkg/httpx"
)

type RegisterHandler struct {
	AccountService *service.AccountService
}

// Handler returns the registration endpoint for one namespace.
func (h *RegisterHandler) Handler(variant domain.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req accountsdk.RegisterRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := validateRegister(req); err != nil {
			writeValidationError(w, err)
			return
		}

		account, err := h.AccountService.Register(ctx, variant, service.RegisterInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
			Contact:   req.Contact,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotificationFailed):
				// The account exists; the caller can log in to trigger a
				// fresh verification email.
				httpx.WriteJSON(w, http.StatusCreated, accountsdk.RegisterResponse{
					ID:      account.ID,
					Email:   account.Email,
					Message: "Account registered. Please verify your email.",
					Warning: "Verification email could not be sent. Log in to request another.",
				})
			case errors.Is(err, service.ErrDuplicateEmail):
				accountsdk.ErrDuplicateEmail.WriteError(w)
			default:
				accountsdk.ErrServerError.WriteError(w)
			}
			return
		}

		message := "Account registered. Please verify your email."
		if variant == domain.VariantAdmin {
			message = "Account registered. IT approval is required before login."
		}

		httpx.WriteJSON(w, http.StatusCreated, accountsdk.RegisterResponse{
			ID:      account.ID,
			Email:   account.Email,
			Message: message,
		})
	}
}
