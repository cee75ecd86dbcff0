package http

import (
	"errors"
	"net/http"

	"github.com/harborline/accountd/internal/accounts/domain"
	"github.com/harborline/accountd/internal/accounts/service"
	"github.com/harborline/accountd/pkg/accountsdk"
	"github.com/harborline/accountd/pkg/httpx"
)

type LoginHandler struct {
	AccountService *service.AccountService
	SessionService *service.SessionService
}

// Handler returns the credential login endpoint for one namespace.
func (h *LoginHandler) Handler(variant domain.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req accountsdk.LoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := validateLogin(req); err != nil {
			writeValidationError(w, err)
			return
		}

		account, err := h.AccountService.Authenticate(ctx, variant, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidCredentials):
				accountsdk.ErrInvalidCredentials.WriteError(w)
			case errors.Is(err, service.ErrNotVerified):
				accountsdk.ErrNotVerified.WriteError(w)
			default:
				accountsdk.ErrServerError.WriteError(w)
			}
			return
		}

		writeSession(w, h.SessionService, account)
	}
}

// writeSession issues a session token for a verified account and writes the
// session payload. Shared with the refresh handler.
func writeSession(w http.ResponseWriter, sessions *service.SessionService, account domain.Account) {
	token, claims, err := sessions.Issue(account)
	if err != nil {
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.SessionResponse{
		Token:       token,
		ExpiresIn:   int64(claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time).Seconds()),
		ID:          claims.Subject,
		Role:        claims.Role,
		DisplayName: claims.DisplayName,
		AvatarURL:   claims.AvatarURL,
	})
}
