package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/02loveslollipop/thinsos/internal/logging"
	"github.com/02loveslollipop/thinsos/services/api/config"
	"github.com/02loveslollipop/thinsos/services/api/db"
	httpserver "github.com/02loveslollipop/thinsos/services/api/http"
	"github.com/02loveslollipop/thinsos/sos"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}
	logging.Setup(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := sos.NewClient(ctx, cfg.SOSURL, cfg.SOSToken,
		sos.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		sos.WithLogger(log.Logger),
	)
	if err != nil {
		log.Fatal().Err(err).Str("sos", cfg.SOSURL).Msg("sos client error")
	}
	log.Info().
		Str("sos", cfg.SOSURL).
		Int("series", len(client.DataAvailability())).
		Msg("loaded data availability")

	var store httpserver.Store
	if cfg.DatabaseURL != "" {
		pgStore, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("db connection error")
		}
		defer pgStore.Close()
		store = pgStore
	} else {
		log.Warn().Msg("DATABASE_URL not set, serving live SOS routes only")
	}

	srv := httpserver.New(cfg, client, store)
	log.Info().Str("addr", cfg.ListenAddr()).Msg("REST API listening")

	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
