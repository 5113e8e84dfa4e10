package controllers

import (
	"context"
	"net/http"
	"sort"

	"github.com/sellboxapp/sellbox-backend/api/responses"
	"github.com/sellboxapp/sellbox-backend/pkg/config"
	pkgerrors "github.com/sellboxapp/sellbox-backend/pkg/errors"
	"github.com/sellboxapp/sellbox-backend/pkg/logger"
)

// ReadinessProbe checks connectivity to one dependency.
type ReadinessProbe struct {
	Name string
	Ping func(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SellBox-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the database, Redis and object storage connections.
func HealthReady(cfg *config.Config, logg *logger.Logger, probes []ReadinessProbe) http.HandlerFunc {
	sorted := make([]ReadinessProbe, len(probes))
	copy(sorted, probes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SellBox-Env", cfg.App.Env)

		checks := map[string]string{}
		for _, probe := range sorted {
			if probe.Ping == nil {
				continue
			}
			if err := probe.Ping(r.Context()); err != nil {
				checks[probe.Name] = "unavailable"
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, probe.Name+" unavailable").WithDetails(checks))
				return
			}
			checks[probe.Name] = "ok"
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
