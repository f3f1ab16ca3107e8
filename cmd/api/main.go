package main

import (
	"context"
	"net/http"
	"os"

	"github.com/cakpo-corneille/niasotac/api/routes"
	categorysvc "github.com/cakpo-corneille/niasotac/internal/categories"
	newslettersvc "github.com/cakpo-corneille/niasotac/internal/newsletter"
	offeringsvc "github.com/cakpo-corneille/niasotac/internal/offerings"
	productsvc "github.com/cakpo-corneille/niasotac/internal/products"
	promotionsvc "github.com/cakpo-corneille/niasotac/internal/promotions"
	settingsvc "github.com/cakpo-corneille/niasotac/internal/settings"
	"github.com/cakpo-corneille/niasotac/pkg/config"
	"github.com/cakpo-corneille/niasotac/pkg/db"
	"github.com/cakpo-corneille/niasotac/pkg/logger"
	"github.com/cakpo-corneille/niasotac/pkg/mailer"
	"github.com/cakpo-corneille/niasotac/pkg/metrics"
	"github.com/cakpo-corneille/niasotac/pkg/migrate"
	"github.com/cakpo-corneille/niasotac/pkg/redis"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

// categoryAncestry exposes the ancestor chain as bare ids for the promotion
// scope checks.
type categoryAncestry struct {
	categories categorysvc.Service
}

func (a categoryAncestry) AncestorIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	chain, err := a.categories.Ancestors(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(chain))
	for _, node := range chain {
		ids = append(ids, node.ID)
	}
	return ids, nil
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// Redis is optional. Without it the showcase serves uncached and the
	// newsletter signups run unthrottled.
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	mail, err := mailer.New(cfg.Mail)
	if err != nil {
		logg.Error(context.Background(), "failed to create mailer", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()

	categoryService, err := categorysvc.NewService(
		categorysvc.NewRepository(gormDB), dbClient, redisClient, cfg.Catalog.CacheTTL,
	)
	requireService(logg, "categories", err)

	promotionService, err := promotionsvc.NewService(
		promotionsvc.NewRepository(gormDB), categoryAncestry{categories: categoryService}, nil,
	)
	requireService(logg, "promotions", err)

	productService, err := productsvc.NewService(
		productsvc.NewRepository(gormDB), dbClient, cfg.Catalog,
		categoryService, promotionService, redisClient,
	)
	requireService(logg, "products", err)

	offeringService, err := offeringsvc.NewService(offeringsvc.NewRepository(gormDB))
	requireService(logg, "services", err)

	settingsService, err := settingsvc.NewService(gormDB)
	requireService(logg, "settings", err)

	newsletterService, err := newslettersvc.NewService(
		newslettersvc.NewRepository(gormDB), mail, cfg.Mail, redisClient, logg,
	)
	requireService(logg, "newsletter", err)

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, routes.Services{
			Categories: categoryService,
			Products:   productService,
			Promotions: promotionService,
			Offerings:  offeringService,
			Settings:   settingsService,
			Newsletter: newsletterService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err != nil {
		logg.Error(context.Background(), "failed to create "+name+" service", err)
		os.Exit(1)
	}
}
