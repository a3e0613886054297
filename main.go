package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/httpserver"
	"github.com/robalobadob/hangman/internal/session"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	catalog, err := words.Load(cfg.CatalogFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word catalog")
	}
	log.Info().Int("entries", len(catalog)).Msg("catalog loaded")

	st, closeStore := openStore(cfg)
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rounds := session.New(st, catalog, session.WithDailySalt(cfg.DailySalt))
	go rounds.RunJanitor(ctx, cfg.SessionTTL, max(cfg.SessionTTL/4, time.Minute))

	srv := httpserver.New(rounds, cfg)
	log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("starting hangman server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Error().Err(err).Msg("server exited")
		closeStore()
		os.Exit(1)
	}
}

// openStore builds the configured round store and its cleanup func.
func openStore(cfg config.Config) (store.Store, func()) {
	if cfg.StoreDriver != config.StoreSQLite {
		return store.NewMemoryStore(), func() {}
	}
	db, err := store.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("failed to open database")
	}
	return db, func() { _ = db.Close() }
}
