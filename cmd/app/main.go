package main

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mauv0809/pricelist/internal/catalog"
	"github.com/mauv0809/pricelist/internal/config"
	"github.com/mauv0809/pricelist/internal/dataset"
	"github.com/mauv0809/pricelist/internal/db"
	"github.com/mauv0809/pricelist/internal/handlers"
	"github.com/mauv0809/pricelist/internal/pricelist"
	"github.com/rs/zerolog/log"
)

const catalogCacheKey = "catalog"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	cfg.SetupLogging()

	ctx := context.Background()

	aliases, err := cfg.Aliases()
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.AliasesFile).Msg("could not load column aliases")
	}

	// Database is optional; it only holds catalog snapshots.
	var repo *db.Repository
	if cfg.DatabaseURL != "" {
		if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Warn().Err(err).Msg("could not run migrations")
		} else {
			log.Info().Msg("migrations completed")
		}

		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("could not connect to database, continuing without snapshots")
		} else {
			defer pool.Close()
			repo = db.NewRepository(pool)
			log.Info().Msg("connected to database")
		}
	}

	var client *catalog.Client
	if cfg.CatalogAPIURL != "" {
		client = catalog.NewClient(cfg.CatalogAPIURL, cfg.CatalogAPIToken, cfg.CatalogRateLimit)
		log.Info().Str("url", cfg.CatalogAPIURL).Msg("catalog client initialized")
	}

	// Reconciliation reads the live API through the cache, else the last
	// stored snapshot.
	var source catalog.Source
	switch {
	case client != nil:
		cache, err := catalog.NewLRUCache(cfg.CatalogCacheSize, cfg.CatalogCacheTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create catalog cache")
		}
		source = catalog.NewCachedSource(client, cache, catalogCacheKey)
	case repo != nil:
		source = repo
	default:
		log.Warn().Msg("no catalog source configured, reconciliation disabled")
	}

	store := dataset.NewStore()
	h := handlers.New(store)
	priceList := handlers.NewPriceListHandler(store, pricelist.NewNormalizer(aliases), source)

	// Setup Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Error().Err(v.Error)
			}
			evt.Int("status", v.Status).
				Str("method", v.Method).
				Str("uri", v.URI).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Routes
	e.GET("/health", h.Health)
	e.GET("/", h.Index)

	api := e.Group("/api/pricelist")
	api.POST("/upload", priceList.Upload)
	api.GET("/records", priceList.Records)
	api.GET("/stats", priceList.Stats)
	api.POST("/reconcile", priceList.Reconcile)
	api.GET("/export", priceList.Export)

	// Admin routes for catalog snapshots
	if client != nil && repo != nil {
		catalogHandler := handlers.NewCatalogHandler(client, repo)
		admin := e.Group("/admin")
		admin.POST("/catalog/snapshot", catalogHandler.Snapshot)
		admin.GET("/catalog/status", catalogHandler.Status)
		log.Info().Msg("catalog admin endpoints registered")
	}

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
