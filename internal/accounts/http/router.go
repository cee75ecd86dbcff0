// Package http exposes the account service over JSON endpoints.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/harborline/accountd/internal/accounts/domain"
	"github.com/harborline/accountd/internal/accounts/service"
	"github.com/harborline/accountd/internal/accounts/store"
	"github.com/harborline/accountd/pkg/httpx"
	"github.com/harborline/accountd/pkg/jwtx"
	"github.com/harborline/accountd/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AccountService *service.AccountService
	SessionService *service.SessionService
	Storage        service.AvatarStorage
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerRegistration()
	r.registerAuth()
	r.registerProfile()
	r.registerUploads()
	r.registerAdmin()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerRegistration() {
	h := &RegisterHandler{AccountService: r.AccountService}

	// Public signup endpoints - strict rate limit by IP
	r.Mux.Handle("POST /v1/register/user",
		httpx.Chain(h.Handler(domain.VariantUser),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/register/admin",
		httpx.Chain(h.Handler(domain.VariantAdmin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerAuth() {
	login := &LoginHandler{
		AccountService: r.AccountService,
		SessionService: r.SessionService,
	}

	// Credential endpoints - strict rate limit by IP (brute force prevention)
	r.Mux.Handle("POST /v1/auth/login/user",
		httpx.Chain(login.Handler(domain.VariantUser),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login/admin",
		httpx.Chain(login.Handler(domain.VariantAdmin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	verify := &VerifyTokenHandler{AccountService: r.AccountService}
	r.Mux.Handle("GET /v1/auth/verify-token",
		httpx.Chain(verify,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	reset := &PasswordResetHandler{AccountService: r.AccountService}
	r.Mux.Handle("POST /v1/auth/request-password-reset/user",
		httpx.Chain(reset.RequestHandler(domain.VariantUser),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/request-password-reset/admin",
		httpx.Chain(reset.RequestHandler(domain.VariantAdmin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/reset-password/user",
		httpx.Chain(reset.ResetHandler(domain.VariantUser),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/reset-password/admin",
		httpx.Chain(reset.ResetHandler(domain.VariantAdmin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	refresh := &SessionRefreshHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /v1/auth/session/refresh",
		httpx.Chain(refresh,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{AccountService: r.AccountService}

	secured := func(handler http.Handler, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(handler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByAccount(limit),
		)
	}

	r.Mux.Handle("GET /v1/profile", secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/profile", secured(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/profile/password", secured(http.HandlerFunc(h.HandleChangePassword), httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/profile/picture", secured(http.HandlerFunc(h.HandleUpdatePicture), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/profile/picture", secured(http.HandlerFunc(h.HandleRemovePicture), httpx.ModerateLimit))
}

func (r *Router) registerUploads() {
	h := &UploadHandler{Storage: r.Storage}

	r.Mux.Handle("POST /v1/uploads/avatar",
		httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &UsersHandler{AccountService: r.AccountService}

	secured := func(handler http.Handler) http.Handler {
		return httpx.Chain(handler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole("admin"),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/users", secured(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("PUT /v1/users/bulk", secured(http.HandlerFunc(h.HandleBulkUpdate)))
	r.Mux.Handle("PUT /v1/users/{id}", secured(http.HandlerFunc(h.HandleUpdate)))
	r.Mux.Handle("DELETE /v1/users/{id}", secured(http.HandlerFunc(h.HandleDelete)))
	r.Mux.Handle("DELETE /v1/users", secured(http.HandlerFunc(h.HandleBulkDelete)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.buildVersion, r.startTime),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
