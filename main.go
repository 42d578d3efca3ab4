package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/brailledle/internal/config"
	"github.com/robalobadob/brailledle/internal/httpserver"
	"github.com/robalobadob/brailledle/internal/journal"
	"github.com/robalobadob/brailledle/internal/store"
	"github.com/robalobadob/brailledle/internal/symbols"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if os.Getenv("LOG_PRETTY") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx := context.Background()

	loader := symbols.StartLoader(ctx, func(ctx context.Context) (*symbols.Map, error) {
		return loadSymbols(ctx, cfg)
	})
	go watchLoad(ctx, loader, cfg)

	var results httpserver.Journal
	if cfg.DBPath != "" {
		j, err := journal.Open(ctx, cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("failed to open results journal")
		}
		defer j.Close()
		results = j
	}

	srv := httpserver.New(httpserver.Options{
		Store:        store.NewMemoryStore(),
		Symbols:      loader,
		Target:       cfg.Target,
		Game:         cfg.GameOptions(),
		Journal:      results,
		ClientOrigin: cfg.ClientOrigin,
	})
	log.Info().Str("port", cfg.Port).Str("policy", cfg.ScoringPolicy).Msg("starting brailledle server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// loadSymbols picks the configured map source.
func loadSymbols(ctx context.Context, cfg config.Config) (*symbols.Map, error) {
	switch {
	case cfg.SymbolsURL != "":
		client := &http.Client{Timeout: 30 * time.Second}
		return symbols.Fetch(ctx, client, cfg.SymbolsURL, cfg.SymbolOptions())
	case cfg.SymbolsFile != "":
		return symbols.LoadFile(cfg.SymbolsFile, cfg.SymbolOptions())
	}
	return symbols.Default(cfg.SymbolOptions())
}

// watchLoad logs the outcome of the map load. A failed load leaves the
// server up so clients see ReloadToRestart instead of a dead socket.
func watchLoad(ctx context.Context, l *symbols.Loader, cfg config.Config) {
	m, err := l.Wait(ctx)
	if err != nil {
		log.Error().Err(err).Str("source", cfg.SymbolSource()).Msg("symbol map failed to load; guesses disabled")
		return
	}
	if _, err := cfg.GameOptions().ResolveTarget(cfg.Target, m); err != nil {
		log.Error().Err(err).Str("target", cfg.Target).Msg("target is not spelled in the loaded alphabet")
		return
	}
	log.Info().Str("source", cfg.SymbolSource()).Int("symbols", m.Len()).Msg("symbol map loaded")
}
