// Command mastermind is the terminal version of the game.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/robalobadob/mastermind/internal/cli"
	"github.com/robalobadob/mastermind/internal/config"
	"github.com/robalobadob/mastermind/internal/sqlitedb"
	"github.com/robalobadob/mastermind/internal/stats"
)

// statsOwner keys the terminal player's counters in the shared database.
const statsOwner = "local"

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Args[0], os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	// info lines would interleave with the board
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && lvl > zerolog.InfoLevel {
		zerolog.SetGlobalLevel(lvl)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: cfg.NoColor})

	rec, db, err := openStats(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open statistics")
	}
	if db != nil {
		defer db.Close()
	}

	color := !cfg.NoColor && term.IsTerminal(int(os.Stdout.Fd()))
	s := cli.NewSession(os.Stdout, rec, cli.Display{Color: color})

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.Prompt(),
		AutoComplete:    s.Completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer rl.Close()

	if err := cli.Run(context.Background(), s, rl); err != nil {
		log.Error().Err(err).Msg("read input")
	}
}

// openStats picks the statistics backend; the database is returned so the
// caller can close it.
func openStats(cfg *config.Config) (stats.Recorder, *sql.DB, error) {
	switch cfg.Stats {
	case config.StatsFile:
		return stats.NewFile(cfg.StatsFile), nil, nil
	case config.StatsMemory:
		return stats.NewMemory(), nil, nil
	}
	db, err := sqlitedb.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return stats.NewSQLite(db).Player(statsOwner), db, nil
}
