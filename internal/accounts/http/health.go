package http

import (
	"net/http"
	"time"

	"github.com/harborline/accountd/internal/accounts/store"
	"github.com/harborline/accountd/pkg/accountsdk"
	"github.com/harborline/accountd/pkg/httpx"
)

// LivezHandler always returns 200 while the process is up.
func LivezHandler(version string, startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, accountsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler reports 503 until the database answers a ping.
func ReadyzHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &accountsdk.HealthChecks{Database: "ok"}
		status := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, accountsdk.HealthResponse{
			Status: status,
			Checks: checks,
		})
	}
}
