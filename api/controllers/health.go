package controllers

import (
	"context"
	"net/http"

	"github.com/cakpo-corneille/niasotac/api/responses"
	"github.com/cakpo-corneille/niasotac/pkg/config"
	pkgerrors "github.com/cakpo-corneille/niasotac/pkg/errors"
	"github.com/cakpo-corneille/niasotac/pkg/logger"
	"github.com/cakpo-corneille/niasotac/pkg/redis"
)

// Pinger is the database readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Niasotac-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbClient Pinger, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-Niasotac-Env", cfg.App.Env)

		if dbClient == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not wired"))
			return
		}
		if err := dbClient.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}

		checks := map[string]string{"status": "ready", "db": "ok"}
		if redisClient != nil {
			if err := redisClient.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
			checks["redis"] = "ok"
		}

		responses.WriteSuccess(w, checks)
	}
}
