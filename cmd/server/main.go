package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vinifvision/alerta-conecta-mobile/internal/auth"
	"github.com/vinifvision/alerta-conecta-mobile/internal/config"
	"github.com/vinifvision/alerta-conecta-mobile/internal/db"
	"github.com/vinifvision/alerta-conecta-mobile/internal/geocode"
	httpapi "github.com/vinifvision/alerta-conecta-mobile/internal/http"
	"github.com/vinifvision/alerta-conecta-mobile/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "alerta-conecta").Logger()

	ctx := context.Background()

	// Incident source: own Postgres first, then the legacy occurrence
	// backend, then the built-in fixture dataset for offline demos.
	var store upstream.IncidentStore
	switch {
	case cfg.DatabaseURL != "":
		if err := runMigrations(cfg.MigrationsDir, cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
		pg, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect db")
		}
		defer pg.Close()
		store = pg
		logger.Info().Msg("using postgres incident store")
	case cfg.UpstreamURL != "":
		contract, err := upstream.ParseContract(cfg.UpstreamContract)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid upstream contract")
		}
		store = upstream.NewHTTPStore(cfg.UpstreamURL, contract)
		logger.Info().Str("upstream", cfg.UpstreamURL).Str("contract", string(contract)).Msg("using upstream incident store")
	default:
		store = upstream.NewFixtureStore(cfg.FixtureDelay)
		logger.Info().Msg("using fixture incident store")
	}

	var authn auth.Authenticator
	if cfg.AuthURL == "" {
		authn = auth.MockAuthenticator{Delay: cfg.FixtureDelay}
		logger.Info().Msg("using mock authenticator")
	} else {
		authn = &auth.HTTPAuthenticator{BaseURL: cfg.AuthURL}
	}

	geocoder := &geocode.NominatimGeocoder{
		BaseURL:   cfg.GeocodeBaseURL,
		UserAgent: cfg.GeocodeUserAgent,
	}

	router := httpapi.Router(cfg, store, authn, geocoder, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}

func runMigrations(dir, databaseURL string) error {
	m, err := migrate.New("file://"+dir, databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
