package stats

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// SQLite stores counters per owner in the stats table. An owner has either
// no rows (never played) or exactly one row per outcome; anything else is
// ErrMalformed.
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps a migrated database handle.
func NewSQLite(db *sql.DB) *SQLite { return &SQLite{db: db} }

// Player returns the Recorder for one owner key (e.g. "user:<id>").
func (s *SQLite) Player(owner string) Recorder {
	return &player{s: s, owner: owner}
}

type player struct {
	s     *SQLite
	owner string
}

func (p *player) Record(ctx context.Context, o Outcome) error {
	return p.s.Record(ctx, p.owner, o)
}

func (p *player) Counters(ctx context.Context) (Counters, error) {
	return p.s.Counters(ctx, p.owner)
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Record increments owner's counter for o inside one transaction.
func (s *SQLite) Record(ctx context.Context, owner string, o Outcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	c, fresh, err := load(ctx, tx, owner)
	if err != nil {
		return err
	}
	if err := c.add(o); err != nil {
		return err
	}
	if fresh {
		for _, k := range Outcomes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO stats (owner, outcome, count) VALUES (?, ?, 0)`, owner, k.String()); err != nil {
				return fmt.Errorf("seed %s: %w", k, err)
			}
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE stats SET count = count + 1 WHERE owner=? AND outcome=?`, owner, o.String()); err != nil {
		return fmt.Errorf("bump %s: %w", o, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	log.Debug().Str("owner", owner).Stringer("outcome", o).Msg("stats recorded")
	return nil
}

// Counters returns owner's totals; an owner with no rows reads as zeros.
func (s *SQLite) Counters(ctx context.Context, owner string) (Counters, error) {
	c, _, err := load(ctx, s.db, owner)
	return c, err
}

// load reads owner's rows and reports whether the owner has none yet.
func load(ctx context.Context, q querier, owner string) (Counters, bool, error) {
	rows, err := q.QueryContext(ctx, `SELECT outcome, count FROM stats WHERE owner=?`, owner)
	if err != nil {
		return Counters{}, false, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var (
		c    Counters
		seen = map[Outcome]bool{}
	)
	for rows.Next() {
		var (
			name  string
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			return Counters{}, false, err
		}
		o, err := ParseOutcome(name)
		if err != nil || count < 0 || seen[o] {
			return Counters{}, false, fmt.Errorf("%w: owner %q row %s=%d", ErrMalformed, owner, name, count)
		}
		seen[o] = true
		switch o {
		case Win:
			c.Wins = count
		case Loss:
			c.Losses = count
		case Incomplete:
			c.Incompletes = count
		}
	}
	if err := rows.Err(); err != nil {
		return Counters{}, false, err
	}
	switch len(seen) {
	case 0:
		return Counters{}, true, nil
	case len(Outcomes):
		return c, false, nil
	}
	return Counters{}, false, fmt.Errorf("%w: owner %q has %d values, want %d", ErrMalformed, owner, len(seen), len(Outcomes))
}
