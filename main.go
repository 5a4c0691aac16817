// main.go
//
// HTTP server entry point. Settings come from flags, MASTERMIND_* env vars
// or a .env file (see internal/config).

package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/config"
	"github.com/robalobadob/mastermind/internal/httpserver"
	"github.com/robalobadob/mastermind/internal/sqlitedb"
	"github.com/robalobadob/mastermind/internal/stats"
	"github.com/robalobadob/mastermind/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Args[0], os.Args[1:], os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := sqlitedb.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer db.Close()

	var sp stats.Provider
	switch cfg.Stats {
	case config.StatsFile:
		sp = stats.Shared(stats.NewFile(cfg.StatsFile))
	case config.StatsMemory:
		sp = stats.Shared(stats.NewMemory())
	default:
		sp = stats.NewSQLite(db)
	}
	if cfg.Debug {
		log.Warn().Msg("debug mode: clients may fix the secret")
	}

	srv := httpserver.New(cfg, store.NewMemoryStore(), db, sp)
	log.Info().Str("stats", cfg.Stats).Str("db", cfg.DBPath).Msg("starting mastermind server")
	if err := srv.Start(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
