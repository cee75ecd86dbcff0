package http

import (
	"net/http"

	"github.com/harborline/accountd/internal/accounts/service"
	"github.com/harborline/accountd/internal/accounts/storage"
	"github.com/harborline/accountd/pkg/accountsdk"
	"github.com/harborline/accountd/pkg/httpx"
)

type UploadHandler struct {
	Storage service.AvatarStorage
}

// ServeHTTP grants a presigned direct upload for a new avatar object. The
// client uploads, then reports the object back via PUT /v1/profile/picture.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.Storage == nil {
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	var req accountsdk.PresignUploadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validatePresignUpload(req); err != nil {
		writeValidationError(w, err)
		return
	}

	key := storage.NewObjectKey(httpx.AccountIDFromCtx(ctx))
	grant, err := h.Storage.PresignUpload(ctx, key, req.ContentType)
	if err != nil {
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.PresignUploadResponse{
		UploadURL: grant.UploadURL,
		FileID:    grant.FileID,
		ExpiresIn: int64(grant.ExpiresIn.Seconds()),
	})
}
