package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/robalobadob/mastermind/internal/code"
	"github.com/robalobadob/mastermind/internal/stats"
)

var secret = code.Code{B, B, G, P}

// brokenRecorder fails every write.
type brokenRecorder struct{ calls int }

var errDiskFull = errors.New("disk full")

func (b *brokenRecorder) Record(context.Context, stats.Outcome) error {
	b.calls++
	return errDiskFull
}

func (b *brokenRecorder) Counters(context.Context) (stats.Counters, error) {
	return stats.Counters{}, errDiskFull
}

func newTestGame(rec stats.Recorder) *Game {
	return New(WithSecret(secret), WithRecorder(rec), WithRand(rand.New(rand.NewSource(1))))
}

func counters(t *testing.T, r stats.Recorder) stats.Counters {
	t.Helper()
	c, err := r.Counters(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewGame(t *testing.T) {
	g := New(WithRand(rand.New(rand.NewSource(7))))
	if g.ID == "" {
		t.Error("expected a generated ID")
	}
	if g.State() != StateInProgress || g.Attempt() != 0 || len(g.Attempts()) != 0 {
		t.Fatalf("unexpected initial game: %+v", g.Snapshot())
	}
	if _, ok := g.Secret(); ok {
		t.Error("secret visible before the game is over")
	}
	if !g.secret.Complete() {
		t.Errorf("secret %v is incomplete", g.secret)
	}
}

func TestWithSecretIgnoresIncomplete(t *testing.T) {
	g := New(WithSecret(code.Code{B, code.Unset, G, P}), WithRand(rand.New(rand.NewSource(3))))
	if !g.secret.Complete() {
		t.Fatalf("incomplete fixed secret was used: %v", g.secret)
	}
}

func TestWinOnFirstGuess(t *testing.T) {
	rec := stats.NewMemory()
	g := newTestGame(rec)

	turn, err := g.SubmitGuess(context.Background(), 0, secret)
	if err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	if turn.Feedback != (Feedback{4, 0}) || turn.State != StateWon {
		t.Fatalf("unexpected turn %+v", turn)
	}
	if turn.Secret == nil || *turn.Secret != secret {
		t.Errorf("expected secret in winning turn, got %v", turn.Secret)
	}
	if turn.Notice != nil {
		t.Errorf("unexpected notice %v", turn.Notice)
	}
	if diff := cmp.Diff(stats.Counters{Wins: 1}, counters(t, rec)); diff != "" {
		t.Errorf("unexpected counters (-want +got)\n%s", diff)
	}
	if g.Outcome() != stats.Win {
		t.Errorf("Outcome() = %v", g.Outcome())
	}
}

func TestWinOnLastAttempt(t *testing.T) {
	rec := stats.NewMemory()
	g := newTestGame(rec)
	ctx := context.Background()

	wrong := code.Code{O, O, O, O}
	for i := 0; i < MaxAttempts-1; i++ {
		turn, err := g.SubmitGuess(ctx, i, wrong)
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if turn.Feedback != (Feedback{}) || turn.State != StateInProgress || turn.Secret != nil {
			t.Fatalf("attempt %d: unexpected turn %+v", i, turn)
		}
	}
	turn, err := g.SubmitGuess(ctx, MaxAttempts-1, secret)
	if err != nil {
		t.Fatal(err)
	}
	if turn.State != StateWon {
		t.Fatalf("expected win on attempt %d, got %v", MaxAttempts, turn.State)
	}
	if diff := cmp.Diff(stats.Counters{Wins: 1}, counters(t, rec)); diff != "" {
		t.Errorf("unexpected counters (-want +got)\n%s", diff)
	}
}

func TestLoseAfterMaxAttempts(t *testing.T) {
	rec := stats.NewMemory()
	g := newTestGame(rec)
	ctx := context.Background()

	guess := code.Code{G, B, B, O}
	var turn Turn
	for i := 0; i < MaxAttempts; i++ {
		var err error
		turn, err = g.SubmitGuess(ctx, i, guess)
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if turn.Feedback != (Feedback{1, 2}) {
			t.Fatalf("attempt %d: feedback %+v", i, turn.Feedback)
		}
	}
	if turn.State != StateLost || g.State() != StateLost {
		t.Fatalf("expected lost, got %v", turn.State)
	}
	if got, ok := g.Secret(); !ok || got != secret {
		t.Errorf("Secret() = %v, %v", got, ok)
	}
	if turn.Secret == nil || *turn.Secret != secret {
		t.Errorf("losing turn secret = %v", turn.Secret)
	}
	if diff := cmp.Diff(stats.Counters{Losses: 1}, counters(t, rec)); diff != "" {
		t.Errorf("unexpected counters (-want +got)\n%s", diff)
	}

	if _, err := g.SubmitGuess(ctx, MaxAttempts, secret); !errors.Is(err, ErrGameOver) {
		t.Errorf("expected ErrGameOver after loss, got %v", err)
	}
}

func TestRejectedGuessesChangeNothing(t *testing.T) {
	g := newTestGame(stats.NewMemory())
	ctx := context.Background()
	if _, err := g.SubmitGuess(ctx, 0, code.Code{O, O, O, O}); err != nil {
		t.Fatal(err)
	}
	before := g.Snapshot()

	cases := []struct {
		name    string
		attempt int
		guess   code.Code
		want    error
	}{
		{"incomplete", 1, code.Code{B, code.Unset, G, P}, ErrIncompleteGuess},
		{"empty", 1, code.Code{}, ErrIncompleteGuess},
		{"invalid color", 1, code.Code{B, code.Color(42), G, P}, ErrInvalidColor},
		{"replayed attempt", 0, secret, ErrOutOfTurn},
		{"future attempt", 2, secret, ErrOutOfTurn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := g.SubmitGuess(ctx, tc.attempt, tc.guess); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if diff := cmp.Diff(before, g.Snapshot()); diff != "" {
				t.Errorf("state changed (-before +after)\n%s", diff)
			}
		})
	}
}

func TestSubmitAfterWin(t *testing.T) {
	g := newTestGame(nil)
	ctx := context.Background()
	if _, err := g.SubmitGuess(ctx, 0, secret); err != nil {
		t.Fatal(err)
	}
	turn, err := g.SubmitGuess(ctx, 1, secret)
	if !errors.Is(err, ErrGameOver) || turn.State != StateWon {
		t.Fatalf("expected ErrGameOver in won state, got %v %v", err, turn.State)
	}
	if g.Attempt() != 1 {
		t.Errorf("attempt advanced to %d", g.Attempt())
	}
}

func TestAbandon(t *testing.T) {
	ctx := context.Background()

	t.Run("before any guess", func(t *testing.T) {
		rec := stats.NewMemory()
		g := newTestGame(rec)
		if err := g.Abandon(ctx); err != nil {
			t.Fatal(err)
		}
		if counters(t, rec) != (stats.Counters{}) {
			t.Errorf("abandon without guesses was recorded: %+v", counters(t, rec))
		}
		if g.State() != StateLost || g.Outcome() != 0 {
			t.Errorf("state=%v outcome=%v", g.State(), g.Outcome())
		}
	})

	t.Run("after a guess", func(t *testing.T) {
		rec := stats.NewMemory()
		g := newTestGame(rec)
		if _, err := g.SubmitGuess(ctx, 0, code.Code{O, O, O, O}); err != nil {
			t.Fatal(err)
		}
		if err := g.Abandon(ctx); err != nil {
			t.Fatal(err)
		}
		if err := g.Abandon(ctx); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(stats.Counters{Incompletes: 1}, counters(t, rec)); diff != "" {
			t.Errorf("unexpected counters (-want +got)\n%s", diff)
		}
		if g.Outcome() != stats.Incomplete {
			t.Errorf("Outcome() = %v", g.Outcome())
		}
		if _, err := g.SubmitGuess(ctx, 1, secret); !errors.Is(err, ErrGameOver) {
			t.Errorf("expected ErrGameOver after abandon, got %v", err)
		}
	})

	t.Run("after a win", func(t *testing.T) {
		rec := stats.NewMemory()
		g := newTestGame(rec)
		if _, err := g.SubmitGuess(ctx, 0, secret); err != nil {
			t.Fatal(err)
		}
		if err := g.Abandon(ctx); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(stats.Counters{Wins: 1}, counters(t, rec)); diff != "" {
			t.Errorf("unexpected counters (-want +got)\n%s", diff)
		}
		if g.State() != StateWon {
			t.Errorf("abandon changed a won game to %v", g.State())
		}
	})
}

func TestReveal(t *testing.T) {
	ctx := context.Background()
	rec := stats.NewMemory()
	g := newTestGame(rec)
	if _, err := g.SubmitGuess(ctx, 0, code.Code{O, O, O, O}); err != nil {
		t.Fatal(err)
	}

	got, err := g.Reveal(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != secret {
		t.Errorf("Reveal() = %v, want %v", got, secret)
	}
	if g.State() != StateLost {
		t.Errorf("state after reveal = %v", g.State())
	}
	if _, ok := g.Secret(); !ok {
		t.Error("secret hidden after reveal")
	}
	// a second reveal is free
	if _, err := g.Reveal(ctx); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(stats.Counters{Incompletes: 1}, counters(t, rec)); diff != "" {
		t.Errorf("unexpected counters (-want +got)\n%s", diff)
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	for _, finish := range []string{"won", "lost"} {
		t.Run(finish, func(t *testing.T) {
			rec := stats.NewMemory()
			g := newTestGame(rec)
			if finish == "won" {
				if _, err := g.SubmitGuess(ctx, 0, secret); err != nil {
					t.Fatal(err)
				}
			} else {
				for i := 0; i < MaxAttempts; i++ {
					if _, err := g.SubmitGuess(ctx, i, code.Code{O, O, O, O}); err != nil {
						t.Fatal(err)
					}
				}
			}
			before := counters(t, rec)

			if err := g.Reset(ctx); err != nil {
				t.Fatal(err)
			}
			if g.State() != StateInProgress || g.Attempt() != 0 || len(g.Attempts()) != 0 || g.Outcome() != 0 {
				t.Fatalf("unexpected state after reset: %+v", g.Snapshot())
			}
			// newTestGame's rng has not been drawn from yet, so the fresh
			// secret is the first code of the same seeded stream
			ref := rand.New(rand.NewSource(1))
			if diff := cmp.Diff(code.Random(ref), g.secret); diff != "" {
				t.Errorf("secret not redrawn (-want +got)\n%s", diff)
			}
			if diff := cmp.Diff(before, counters(t, rec)); diff != "" {
				t.Errorf("reset of a finished game changed counters (-want +got)\n%s", diff)
			}
			if _, err := g.SubmitGuess(ctx, 0, g.secret); err != nil {
				t.Errorf("cannot play after reset: %v", err)
			}

			if err := g.Reset(ctx); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(code.Random(ref), g.secret); diff != "" {
				t.Errorf("second reset did not draw again (-want +got)\n%s", diff)
			}
		})
	}
}

func TestResetMidGameRecordsIncomplete(t *testing.T) {
	ctx := context.Background()
	rec := stats.NewMemory()
	g := newTestGame(rec)
	if _, err := g.SubmitGuess(ctx, 0, code.Code{O, O, O, O}); err != nil {
		t.Fatal(err)
	}
	if err := g.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(stats.Counters{Incompletes: 1}, counters(t, rec)); diff != "" {
		t.Errorf("unexpected counters (-want +got)\n%s", diff)
	}
}

func TestStatsFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()

	rec := &brokenRecorder{}
	g := newTestGame(rec)
	turn, err := g.SubmitGuess(ctx, 0, secret)
	if err != nil {
		t.Fatalf("SubmitGuess failed: %v", err)
	}
	if !errors.Is(turn.Notice, errDiskFull) {
		t.Errorf("expected notice wrapping errDiskFull, got %v", turn.Notice)
	}
	if turn.State != StateWon || g.State() != StateWon {
		t.Errorf("state = %v, want won", turn.State)
	}

	g2 := newTestGame(rec)
	if _, err := g2.SubmitGuess(ctx, 0, code.Code{O, O, O, O}); err != nil {
		t.Fatal(err)
	}
	if _, err := g2.Reveal(ctx); !errors.Is(err, errDiskFull) {
		t.Errorf("expected reveal notice, got %v", err)
	}
	if err := g2.Reset(ctx); err != nil {
		t.Errorf("reset after reveal should not record again: %v", err)
	}
	if g2.State() != StateInProgress {
		t.Errorf("engine unusable after notice: %v", g2.State())
	}
	if rec.calls != 2 {
		t.Errorf("expected 2 record attempts, got %d", rec.calls)
	}
}

func TestSnapshot(t *testing.T) {
	g := newTestGame(nil)
	g.ID = "g1"
	if _, err := g.SubmitGuess(context.Background(), 0, code.Code{G, B, B, O}); err != nil {
		t.Fatal(err)
	}
	want := Snapshot{
		ID:      "g1",
		State:   StateInProgress,
		Attempt: 1,
		Max:     MaxAttempts,
		Attempts: []Attempt{
			{Guess: code.Code{G, B, B, O}, Feedback: Feedback{1, 2}},
		},
	}
	if diff := cmp.Diff(want, g.Snapshot()); diff != "" {
		t.Errorf("unexpected snapshot (-want +got)\n%s", diff)
	}
}
