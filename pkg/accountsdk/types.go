package accountsdk

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// MessageResponse is the generic success payload for operations that return
// no resource, such as password reset requests.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterRequest is the payload for POST /v1/register/{user,admin}.
type RegisterRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Contact   string `json:"contact,omitempty"`
}

// RegisterResponse is returned with 201 on successful registration. Warning
// is set when the account was created but the notification email failed.
type RegisterResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

// LoginRequest is the payload for POST /v1/auth/login/{user,admin}.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse carries a freshly issued session token and the identity
// claims baked into it.
type SessionResponse struct {
	Token       string `json:"token"`
	ExpiresIn   int64  `json:"expires_in"`
	ID          string `json:"id"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// VerifyTokenResponse reports which namespace a consumed verification token
// belonged to.
type VerifyTokenResponse struct {
	ID       string `json:"id"`
	Variant  string `json:"type"`
	Verified bool   `json:"verified"`
}

// PasswordResetRequest is the payload for request-password-reset endpoints.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the payload for reset-password endpoints.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the payload for PUT /v1/profile/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ProfileResponse is the authenticated account's own view.
type ProfileResponse struct {
	ID        string `json:"id"`
	Variant   string `json:"type"`
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Contact   string `json:"contact,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Verified  bool   `json:"verified"`
}

// UpdateProfileRequest is a full replacement of the mutable profile fields.
type UpdateProfileRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Contact   string `json:"contact,omitempty"`
}

// UpdateAvatarRequest points the profile at an uploaded object.
type UpdateAvatarRequest struct {
	AvatarURL    string `json:"avatar_url"`
	AvatarFileID string `json:"avatar_file_id"`
}

// PresignUploadRequest asks for a direct-upload grant for an avatar object.
type PresignUploadRequest struct {
	ContentType string `json:"content_type"`
}

// PresignUploadResponse carries the presigned PUT URL and the object key the
// client must report back via UpdateAvatarRequest.
type PresignUploadResponse struct {
	UploadURL string `json:"upload_url"`
	FileID    string `json:"file_id"`
	ExpiresIn int64  `json:"expires_in"`
}

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
}

// UserSummary is the admin list view of a user account.
type UserSummary struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Contact   string `json:"contact,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Verified  bool   `json:"verified"`
	CreatedAt string `json:"created_at"`
}

// ListUsersResponse wraps the admin user listing.
type ListUsersResponse struct {
	Users []UserSummary `json:"users"`
	Total int           `json:"total"`
}

// AdminUpdateUserRequest is the admin's full-replace edit of a user account.
// Password is rotated only when non-empty. Avatar fields are applied only
// when AvatarURL is non-empty.
type AdminUpdateUserRequest struct {
	FirstName    string `json:"firstname"`
	LastName     string `json:"lastname"`
	Contact      string `json:"contact,omitempty"`
	Password     string `json:"password,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	AvatarFileID string `json:"avatar_file_id,omitempty"`
}

// BulkDeleteUsersRequest is the payload for DELETE /v1/users.
type BulkDeleteUsersRequest struct {
	IDs []string `json:"ids"`
}

// BulkUpdateUsersRequest applies the same edit to each listed account.
type BulkUpdateUsersRequest struct {
	Updates []BulkUserUpdate `json:"updates"`
}

// BulkUserUpdate is one entry of a bulk update.
type BulkUserUpdate struct {
	ID string `json:"id"`
	AdminUpdateUserRequest
}

// BulkResult reports per-id outcomes of a bulk operation.
type BulkResult struct {
	Succeeded []string          `json:"succeeded"`
	Failed    map[string]string `json:"failed,omitempty"`
}
