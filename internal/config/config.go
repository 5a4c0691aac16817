// internal/config/config.go
//
// Runtime settings for both binaries.
// Every flag can also be given as an environment variable with the
// MASTERMIND_ prefix (addr → MASTERMIND_ADDR, db-path → MASTERMIND_DB_PATH),
// or in a file passed with -config. Flags win over env, env over defaults.

package config

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/namsral/flag"
)

const EnvPrefix = "MASTERMIND"

// Stats backends.
const (
	StatsSQLite = "sqlite"
	StatsFile   = "file"
	StatsMemory = "memory"
)

type Config struct {
	Addr     string
	LogLevel string

	DBPath    string
	Stats     string // sqlite | file | memory
	StatsFile string

	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	CookieKey      string
	ClientOrigin   string
	DailySalt      string

	Production bool
	Debug      bool // allows fixed secrets on POST /game/new
	NoColor    bool
}

var ErrBadStats = errors.New("stats must be sqlite, file or memory")

// Load parses args (without the program name) on top of the environment.
func Load(name string, args []string, out io.Writer) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSetWithEnvPrefix(name, EnvPrefix, flag.ContinueOnError)
	fs.SetOutput(out)

	fs.String(flag.DefaultConfigFlagname, "", "path to config file")
	fs.StringVar(&cfg.Addr, "addr", ":5175", "HTTP listen address")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "zerolog level (debug, info, warn, error)")
	fs.StringVar(&cfg.DBPath, "db-path", "./data/mastermind.db", "SQLite database file")
	fs.StringVar(&cfg.Stats, "stats", StatsSQLite, "statistics backend: sqlite, file or memory")
	fs.StringVar(&cfg.StatsFile, "stats-file", "./data/statistics.txt", "statistics file for -stats=file")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "dev_secret_change_me", "HS256 signing secret")
	fs.IntVar(&cfg.JWTExpiresDays, "jwt-expires-days", 14, "token lifetime in days")
	fs.StringVar(&cfg.CookieName, "cookie-name", "mastermind_token", "auth cookie name")
	fs.StringVar(&cfg.CookieKey, "cookie-key", "", "HMAC key for the guest cookie (random per process if empty)")
	fs.StringVar(&cfg.ClientOrigin, "client-origin", "http://localhost:5173", "allowed CORS origin")
	fs.StringVar(&cfg.DailySalt, "daily-salt", "local_dev_salt", "salt for the daily code")
	fs.BoolVar(&cfg.Production, "production", false, "secure cookies")
	fs.BoolVar(&cfg.Debug, "debug", false, "accept fixed secrets from clients")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "disable ANSI colors in the terminal client")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Stats {
	case StatsSQLite, StatsFile, StatsMemory:
	default:
		return fmt.Errorf("%w: %q", ErrBadStats, c.Stats)
	}
	if c.JWTExpiresDays <= 0 {
		return fmt.Errorf("jwt-expires-days must be positive, got %d", c.JWTExpiresDays)
	}
	return nil
}

// TokenTTL is the JWT lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}
