// internal/history/history.go
//
// Per-game history rows in the games table.
// Every write here is best effort from the caller's point of view: the
// HTTP layer logs failures and carries on, since history never affects
// play.
//
// Owner: a row belongs either to a user (user_id) or to a guest
// (anonymous_id). Guest rows move to the account on signup/login (Claim).

package history

import (
	"context"
	"database/sql"
	"time"
)

// Owner identifies who played a game. Exactly one field is set.
type Owner struct {
	UserID string
	AnonID string
}

// Key is the stats owner key for o ("user:<id>" or "anon:<id>").
func (o Owner) Key() string {
	if o.UserID != "" {
		return "user:" + o.UserID
	}
	return "anon:" + o.AnonID
}

func (o Owner) clause() (string, any) {
	if o.UserID != "" {
		return `user_id=?`, o.UserID
	}
	return `anonymous_id=?`, o.AnonID
}

// Row is one game as listed by Mine.
type Row struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Guesses    int    `json:"guesses"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// Start inserts the row for a new game.
func (s *Store) Start(ctx context.Context, gameID string, o Owner) error {
	var userID, anonID any
	if o.UserID != "" {
		userID = o.UserID
	} else {
		anonID = o.AnonID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, user_id, anonymous_id, started_at, status, guesses)
		 VALUES (?,?,?,?,'playing',0)`, gameID, userID, anonID, now())
	return err
}

// Guessed bumps the guess count and, when status is not "playing", closes
// the row.
func (s *Store) Guessed(ctx context.Context, gameID string, o Owner, status string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	clause, arg := o.clause()
	if _, err := tx.ExecContext(ctx,
		`UPDATE games SET guesses = guesses + 1 WHERE id=? AND `+clause, gameID, arg); err != nil {
		return err
	}
	if status != "playing" {
		if _, err := tx.ExecContext(ctx,
			`UPDATE games SET status=?, finished_at=? WHERE id=? AND `+clause,
			status, now(), gameID, arg); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Finish closes a row without a guess (reveal, abandon).
func (s *Store) Finish(ctx context.Context, gameID string, o Owner, status string) error {
	clause, arg := o.clause()
	_, err := s.db.ExecContext(ctx,
		`UPDATE games SET status=?, finished_at=? WHERE id=? AND finished_at IS NULL AND `+clause,
		status, now(), gameID, arg)
	return err
}

// Mine lists a user's most recent games, newest first.
func (s *Store) Mine(ctx context.Context, userID string, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, guesses, started_at, COALESCE(finished_at,'')
		 FROM games WHERE user_id=? ORDER BY started_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Status, &r.Guesses, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Claim transfers a guest's games to a user account.
func (s *Store) Claim(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	return err
}
