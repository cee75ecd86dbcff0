package http

import (
	"errors"
	"net/http"

	"github.com/harborline/accountd/internal/accounts/service"
	"github.com/harborline/accountd/pkg/accountsdk"
	"github.com/harborline/accountd/pkg/httpx"
)

type VerifyTokenHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP consumes a verification token passed as a query parameter. The
// email link lands on the web frontend, which calls this endpoint.
func (h *VerifyTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.URL.Query().Get("token")
	if token == "" {
		accountsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	account, err := h.AccountService.ConsumeVerificationToken(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrExpiredToken):
			accountsdk.ErrInvalidOrExpiredToken.WriteError(w)
		default:
			accountsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.VerifyTokenResponse{
		ID:       account.ID,
		Variant:  string(account.Variant),
		Verified: true,
	})
}
