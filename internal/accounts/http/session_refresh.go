package http

import (
	"errors"
	"net/http"

	"github.com/harborline/accountd/internal/accounts/service"
	"github.com/harborline/accountd/pkg/accountsdk"
	"github.com/harborline/accountd/pkg/httpx"
)

type SessionRefreshHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP issues a fresh token for the current session, picking up profile
// changes (display name, avatar) made since the last issue.
func (h *SessionRefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := httpx.ClaimsFromCtx(ctx)
	if !ok {
		accountsdk.ErrNotAuthorized.WriteError(w)
		return
	}

	token, fresh, err := h.SessionService.Refresh(ctx, claims)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			accountsdk.ErrNotAuthorized.WriteError(w)
		default:
			accountsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.SessionResponse{
		Token:       token,
		ExpiresIn:   int64(fresh.ExpiresAt.Time.Sub(fresh.IssuedAt.Time).Seconds()),
		ID:          fresh.Subject,
		Role:        fresh.Role,
		DisplayName: fresh.DisplayName,
		AvatarURL:   fresh.AvatarURL,
	})
}
