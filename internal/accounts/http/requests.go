package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/harborline/accountd/pkg/accountsdk"
)

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z' -]*$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// decodeJSON parses the request body, writing a 400 on failure. Returns
// false when the caller should stop.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		accountsdk.ErrInvalidRequest.WriteError(w)
		return false
	}
	return true
}

// writeValidationError maps ozzo per-field errors into the validation
// payload, or a plain 400 when the error carries no field detail.
func writeValidationError(w http.ResponseWriter, err error) {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]string, len(fieldErrs))
		for field, ferr := range fieldErrs {
			details[field] = ferr.Error()
		}
		accountsdk.NewValidationError(details).WriteError(w)
		return
	}
	accountsdk.ErrInvalidRequest.WriteError(w)
}

func validateRegister(req accountsdk.RegisterRequest) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.FirstName, validation.Required, validation.Length(2, 50), validation.Match(nameRe)),
		validation.Field(&req.LastName, validation.Required, validation.Length(2, 50), validation.Match(nameRe)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(&req.Contact, validation.Match(phoneRe)),
	)
}

func validateLogin(req accountsdk.LoginRequest) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}

func validatePasswordResetRequest(req accountsdk.PasswordResetRequest) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required, is.Email),
	)
}

func validateResetPassword(req accountsdk.ResetPasswordRequest) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Token, validation.Required),
		validation.Field(&req.Password, validation.Required, validation.Length(6, 100)),
	)
}

func validateChangePassword(req accountsdk.ChangePasswordRequest) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.CurrentPassword, validation.Required),
		validation.Field(&req.NewPassword, validation.Required, validation.Length(6, 100)),
	)
}

func validateUpdateProfile(req accountsdk.UpdateProfileRequest) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.FirstName, validation.Required, validation.Length(2, 50), validation.Match(nameRe)),
		validation.Field(&req.LastName, validation.Required, validation.Length(2, 50), validation.Match(nameRe)),
		validation.Field(&req.Contact, validation.Match(phoneRe)),
	)
}

func validateUpdateAvatar(req accountsdk.UpdateAvatarRequest) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.AvatarURL, validation.Required, is.URL),
		validation.Field(&req.AvatarFileID, validation.Required),
	)
}

func validatePresignUpload(req accountsdk.PresignUploadRequest) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.ContentType, validation.Required,
			validation.In("image/jpeg", "image/png", "image/webp")),
	)
}

func validateAdminUpdateUser(req accountsdk.AdminUpdateUserRequest) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.FirstName, validation.Required, validation.Length(2, 50), validation.Match(nameRe)),
		validation.Field(&req.LastName, validation.Required, validation.Length(2, 50), validation.Match(nameRe)),
		validation.Field(&req.Contact, validation.Match(phoneRe)),
		validation.Field(&req.Password, validation.Length(6, 100)),
		validation.Field(&req.AvatarURL, is.URL),
	)
}
