package controllers

import (
	"net/http"

	"github.com/dmoralesv/floreria-backend/api/responses"
	"github.com/dmoralesv/floreria-backend/pkg/config"
	"github.com/dmoralesv/floreria-backend/pkg/db"
	pkgerrors "github.com/dmoralesv/floreria-backend/pkg/errors"
	"github.com/dmoralesv/floreria-backend/pkg/logger"
	"github.com/dmoralesv/floreria-backend/pkg/redis"
	"github.com/dmoralesv/floreria-backend/pkg/storage/gcs"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Floreria-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the hard dependencies. GCS is optional; when absent it is
// reported as skipped rather than failing readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, gcsP gcs.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Floreria-Env", cfg.App.Env)

		components := map[string]string{}
		healthy := true

		if dbP == nil {
			components["db"] = "missing"
			healthy = false
		} else if err := dbP.Ping(r.Context()); err != nil {
			components["db"] = "down"
			healthy = false
		} else {
			components["db"] = "ok"
		}

		if redisP == nil {
			components["redis"] = "missing"
			healthy = false
		} else if err := redisP.Ping(r.Context()); err != nil {
			components["redis"] = "down"
			healthy = false
		} else {
			components["redis"] = "ok"
		}

		if gcsP == nil {
			components["gcs"] = "skipped"
		} else if err := gcsP.Ping(r.Context()); err != nil {
			components["gcs"] = "down"
			healthy = false
		} else {
			components["gcs"] = "ok"
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "service not ready").WithDetails(components)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "components": components})
	}
}
