package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/geosynthix/catalog-backend/api/routes"
	"github.com/geosynthix/catalog-backend/internal/assets"
	"github.com/geosynthix/catalog-backend/internal/documents"
	"github.com/geosynthix/catalog-backend/internal/inquiries"
	"github.com/geosynthix/catalog-backend/internal/natures"
	"github.com/geosynthix/catalog-backend/internal/plants"
	"github.com/geosynthix/catalog-backend/internal/products"
	"github.com/geosynthix/catalog-backend/internal/quotes"
	"github.com/geosynthix/catalog-backend/pkg/config"
	"github.com/geosynthix/catalog-backend/pkg/db"
	"github.com/geosynthix/catalog-backend/pkg/logger"
	"github.com/geosynthix/catalog-backend/pkg/metrics"
	"github.com/geosynthix/catalog-backend/pkg/migrate"
	"github.com/geosynthix/catalog-backend/pkg/pubsub"
	"github.com/geosynthix/catalog-backend/pkg/redis"
	"github.com/geosynthix/catalog-backend/pkg/storage/gcs"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	requireResource(ctx, logg, "object storage", err)
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(ctx, "error closing object storage", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "error closing pubsub", err)
		}
	}()

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	assetMetrics := metrics.NewAssetMetrics(registry)

	cleanupQueue, err := assets.NewCleanupPublisher(pubsubClient.AssetCleanupPublisher())
	requireResource(ctx, logg, "asset cleanup publisher", err)

	productsRepo := products.NewRepository(dbClient.DB())
	plantsRepo := plants.NewRepository(dbClient.DB())
	naturesRepo := natures.NewRepository(dbClient.DB())
	documentsRepo := documents.NewRepository(dbClient.DB())
	inquiriesRepo := inquiries.NewRepository(dbClient.DB())
	quotesRepo := quotes.NewRepository(dbClient.DB())

	uploader, err := products.NewUploader(gcsClient, assetMetrics)
	requireResource(ctx, logg, "asset uploader", err)

	productService, err := products.NewService(productsRepo, dbClient, uploader, gcsClient, naturesRepo, plantsRepo, cleanupQueue, logg, assetMetrics)
	requireResource(ctx, logg, "product service", err)

	plantService, err := plants.NewService(plantsRepo, logg)
	requireResource(ctx, logg, "plant service", err)

	natureService, err := natures.NewService(naturesRepo, plantsRepo, gcsClient, cleanupQueue, logg)
	requireResource(ctx, logg, "nature service", err)

	documentService, err := documents.NewService(documentsRepo, gcsClient, cleanupQueue, logg)
	requireResource(ctx, logg, "document service", err)

	inquiryService, err := inquiries.NewService(inquiriesRepo, productsRepo)
	requireResource(ctx, logg, "inquiry service", err)

	quoteService, err := quotes.NewService(quotesRepo)
	requireResource(ctx, logg, "quote service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:       cfg,
			Logger:       logg,
			Registry:     registry,
			HTTPMetrics:  httpMetrics,
			DBPinger:     dbClient,
			RedisClient:  redisClient,
			GCSPinger:    gcsClient,
			PubSubPinger: pubsubClient,
			Products:     productService,
			Plants:       plantService,
			Natures:      natureService,
			Documents:    documentService,
			Inquiries:    inquiryService,
			Quotes:       quoteService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
