// internal/game/engine.go
//
// Core game engine for a single Mastermind session.
// Responsibilities:
//   - Create new games with a random secret (4 pegs, 6 colors, 10 attempts).
//   - Validate and apply guesses (in progress, current attempt, complete).
//   - Score guesses (see Score in score.go).
//   - Track state transitions: playing → won/lost, and report outcomes
//     to a stats.Recorder.
//
// Notes:
//   - Statistics failures never change game state; they come back as a
//     non-fatal notice (Turn.Notice or the error of Abandon/Reveal/Reset).
//   - A Game serializes its own methods, so transports may share one
//     *Game between requests.

package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/mastermind/internal/code"
	"github.com/robalobadob/mastermind/internal/cryptorand"
	"github.com/robalobadob/mastermind/internal/stats"
)

var (
	ErrGameOver        = errors.New("game finished")
	ErrOutOfTurn       = errors.New("not the current attempt")
	ErrIncompleteGuess = errors.New("incomplete guess")
	ErrInvalidColor    = errors.New("invalid color in guess")
)

// Game holds the state of one game. The secret and attempts are only
// reachable through methods.
type Game struct {
	ID        string    // Unique game identifier (UUID).
	StartedAt time.Time // Start of the current round; reset by Reset.

	mu       sync.Mutex
	secret   code.Code
	attempts []Attempt
	state    State
	outcome  stats.Outcome // zero until recorded or ended with no guesses
	rng      *rand.Rand
	rec      stats.Recorder
}

// Option configures New.
type Option func(*Game)

// WithRand sets the random source used to draw secrets.
func WithRand(r *rand.Rand) Option { return func(g *Game) { g.rng = r } }

// WithRecorder sets the statistics collaborator.
func WithRecorder(r stats.Recorder) Option { return func(g *Game) { g.rec = r } }

// WithID overrides the generated identifier.
func WithID(id string) Option { return func(g *Game) { g.ID = id } }

// WithSecret fixes the first secret (daily challenge, tests). It is ignored
// unless the code is complete and valid; Reset always draws a new one.
func WithSecret(c code.Code) Option {
	return func(g *Game) {
		if c.Complete() && c.Valid() {
			g.secret = c
		}
	}
}

// New constructs a game in progress.
func New(opts ...Option) *Game {
	g := &Game{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		state:     StateInProgress,
		rec:       stats.Discard,
	}
	for _, o := range opts {
		o(g)
	}
	if g.rng == nil {
		g.rng = cryptorand.New()
	}
	if g.rec == nil {
		g.rec = stats.Discard
	}
	if !g.secret.Complete() {
		g.secret = code.Random(g.rng)
	}
	return g
}

// SubmitGuess validates and scores guess as attempt number attempt
// (zero-based), mutating the game state.
//
// Validation rules (a rejected guess changes nothing):
//   - Game must be in progress (ErrGameOver).
//   - attempt must be the current index (ErrOutOfTurn).
//   - Every slot must hold a playable color (ErrInvalidColor, ErrIncompleteGuess).
//
// State transitions:
//   - All pegs exact → won, Win recorded.
//   - Otherwise, MaxAttempts guesses made → lost, Loss recorded.
func (g *Game) SubmitGuess(ctx context.Context, attempt int, guess code.Code) (Turn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateInProgress {
		return Turn{State: g.state}, ErrGameOver
	}
	if attempt != len(g.attempts) {
		return Turn{State: g.state}, fmt.Errorf("%w: got %d, want %d", ErrOutOfTurn, attempt, len(g.attempts))
	}
	if !guess.Valid() {
		return Turn{State: g.state}, ErrInvalidColor
	}
	if !guess.Complete() {
		return Turn{State: g.state}, ErrIncompleteGuess
	}

	fb := Score(g.secret, guess)
	g.attempts = append(g.attempts, Attempt{Guess: guess, Feedback: fb})

	t := Turn{Attempt: attempt, Feedback: fb}
	switch {
	case fb.Solved():
		t.Notice = g.finish(ctx, StateWon, stats.Win)
	case len(g.attempts) >= MaxAttempts:
		t.Notice = g.finish(ctx, StateLost, stats.Loss)
	}
	t.State = g.state
	if g.state != StateInProgress {
		s := g.secret
		t.Secret = &s
	}
	return t, nil
}

// Abandon ends a game the player walks away from. If at least one guess
// was made and the game is still in progress, Incomplete is recorded.
// Afterwards the game is lost and cannot be counted again.
func (g *Game) Abandon(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.endEarly(ctx)
}

// Reveal returns the secret. A game still in progress ends as by Abandon;
// the error is the statistics notice, if any.
func (g *Game) Reveal(ctx context.Context) (code.Code, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	err := g.endEarly(ctx)
	return g.secret, err
}

// Reset abandons the current round (see Abandon) and starts a new one with
// a freshly drawn secret and no attempts.
func (g *Game) Reset(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	err := g.endEarly(ctx)
	g.secret = code.Random(g.rng)
	g.attempts = nil
	g.state = StateInProgress
	g.outcome = 0
	g.StartedAt = time.Now().UTC()
	return err
}

// State reports the current state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Attempt is the zero-based index the next guess must carry.
func (g *Game) Attempt() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.attempts)
}

// Attempts returns a copy of the scored guesses so far.
func (g *Game) Attempts() []Attempt {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Attempt(nil), g.attempts...)
}

// Outcome is the recorded outcome, zero while playing or when the game
// ended before any guess.
func (g *Game) Outcome() stats.Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.outcome
}

// Secret returns the secret once the game is over.
func (g *Game) Secret() (code.Code, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateInProgress {
		return code.Code{}, false
	}
	return g.secret, true
}

// Snapshot copies the presentable state.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		ID:       g.ID,
		State:    g.state,
		Attempt:  len(g.attempts),
		Max:      MaxAttempts,
		Attempts: append([]Attempt{}, g.attempts...),
	}
	if g.outcome != 0 {
		s.Outcome = g.outcome.String()
	}
	if g.state != StateInProgress {
		sec := g.secret
		s.Secret = &sec
	}
	return s
}

// finish moves to a terminal state and records o. Must hold g.mu.
func (g *Game) finish(ctx context.Context, st State, o stats.Outcome) error {
	g.state = st
	g.outcome = o
	if err := g.rec.Record(ctx, o); err != nil {
		return fmt.Errorf("record %s: %w", o, err)
	}
	return nil
}

// endEarly ends an in-progress game without a win or loss. Must hold g.mu.
func (g *Game) endEarly(ctx context.Context) error {
	if g.state != StateInProgress {
		return nil
	}
	if len(g.attempts) == 0 {
		g.state = StateLost
		return nil
	}
	return g.finish(ctx, StateLost, stats.Incomplete)
}
