package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/go-chi/jwtauth"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/chi-demo/middleware"
	"github.com/tendant/simple-trader/pkg/simpletrader"
	"github.com/tendant/simple-trader/pkg/simpletrader/api"
	"github.com/tendant/simple-trader/pkg/simpletrader/config"
)

type Config struct {
	ApiKeySHA256  string `env:"API_KEY_SHA256" env-default:"1"`
	JWTSecret     string `env:"JWT_SECRET" env-default:""`
	PriceListFile string `env:"PRICE_LIST_FILE" env-default:""`
	EnvPrefix     string `env:"TRADER_ENV_PREFIX" env-default:""`
}

func main() {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	serverConfig, err := config.Load(config.WithEnv(cfg.EnvPrefix))
	if err != nil {
		slog.Error("Failed to load server configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	svc, cleanup, err := serverConfig.BuildService(ctx)
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := loadPriceList(ctx, svc, cfg.PriceListFile); err != nil {
		slog.Error("Failed to load price list", "file", cfg.PriceListFile, "err", err)
		os.Exit(1)
	}

	apiKeyMiddleware, err := middleware.ApiKeyMiddleware(middleware.ApiKeyConfig{
		APIKeys: map[string]string{
			"key1": cfg.ApiKeySHA256,
		},
	})
	if err != nil {
		slog.Error("Failed initialize API Key middleware", "err", err)
		return
	}

	opts := []api.Option{api.WithAdminMiddleware(apiKeyMiddleware)}
	if cfg.JWTSecret != "" {
		opts = append(opts, api.WithTokenAuth(jwtauth.New("HS256", []byte(cfg.JWTSecret), nil)))
	}
	handler := api.NewHandler(svc, opts...)

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	server.R.Mount("/api/v1", handler.Routes())

	slog.Info("Trader server starting",
		"environment", serverConfig.Environment,
		"database", serverConfig.DatabaseType,
		"storage", serverConfig.Storage.Type,
		"catalog_key", serverConfig.CatalogKey,
		"token_auth", cfg.JWTSecret != "",
	)
	server.Run()
}

// loadPriceList publishes file when set, otherwise loads whatever the store
// already holds. A store without a price list is not fatal.
func loadPriceList(ctx context.Context, svc simpletrader.Service, file string) error {
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		return svc.PublishCatalog(ctx, f)
	}

	err := svc.ReloadCatalog(ctx)
	if errors.Is(err, simpletrader.ErrCatalogNotFound) {
		slog.Warn("No price list published yet; PUT /api/v1/catalog to publish one")
		return nil
	}
	return err
}
