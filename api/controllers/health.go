package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/geosynthix/catalog-backend/api/responses"
	"github.com/geosynthix/catalog-backend/pkg/config"
	"github.com/geosynthix/catalog-backend/pkg/logger"
)

// Pinger is any dependency that can report its own health.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Catalog-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every wired dependency. Nil pingers are reported as
// skipped so partial deployments (no pubsub, no redis) stay readable.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP, gcsP, pubsubP Pinger) http.HandlerFunc {
	checks := []struct {
		name   string
		pinger Pinger
	}{
		{"db", dbP},
		{"redis", redisP},
		{"gcs", gcsP},
		{"pubsub", pubsubP},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Catalog-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := map[string]string{}
		healthy := true
		for _, check := range checks {
			if check.pinger == nil {
				status[check.name] = "skipped"
				continue
			}
			if err := check.pinger.Ping(ctx); err != nil {
				status[check.name] = "down"
				healthy = false
				if logg != nil {
					logCtx := logg.WithField(ctx, "dependency", check.name)
					logg.Error(logCtx, "readiness check failed", err)
				}
				continue
			}
			status[check.name] = "up"
		}

		if !healthy {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, status)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
