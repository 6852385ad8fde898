package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/cms/pkg/authsdk"
	"github.com/aussiebroadwan/cms/pkg/httpx"
)

// Pinger is anything whose connectivity can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

const readyTimeout = 2 * time.Second

func healthResponse(startTime time.Time, version, status string) authsdk.HealthResponse {
	return authsdk.HealthResponse{
		Status:  status,
		Uptime:  time.Since(startTime).Round(time.Second).String(),
		Version: version,
	}
}

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Returns 200 while the process is running, with uptime and version.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, healthResponse(startTime, version, "ok"))
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the database connection and that the token secrets are loaded.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, db Pinger, secretsLoaded bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{Database: "ok", Secrets: "ok"}

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			checks.Database = "error: " + err.Error()
		}
		if !secretsLoaded {
			checks.Secrets = "error: token secrets not loaded"
		}

		status, code := "ok", http.StatusOK
		if checks.Database != "ok" || checks.Secrets != "ok" {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		resp := healthResponse(startTime, version, status)
		resp.Checks = checks
		httpx.WriteJSON(w, code, resp)
	}
}
