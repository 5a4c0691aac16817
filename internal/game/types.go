// internal/game/types.go
//
// Core type definitions for the Mastermind game engine.
// Defines:
//   - State: playing / won / lost.
//   - Feedback: exact and color hint counts for one guess.
//   - Attempt: one scored guess.
//   - Turn: what a caller learns from submitting a guess.
//   - Snapshot: a read-only view for presentation layers.

package game

import (
	"fmt"

	"github.com/robalobadob/mastermind/internal/code"
)

const (
	// MaxAttempts is the number of guesses a player gets.
	MaxAttempts = 10
)

// State is the coarse progress of a game.
type State int

const (
	StateInProgress State = iota
	StateWon
	StateLost
)

func (s State) String() string {
	switch s {
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "playing"
	}
}

// MarshalText encodes the state as "playing", "won" or "lost".
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Feedback is the hint for one guess.
//   - Exact: pegs with the right color in the right position.
//   - Color: pegs with the right color in a different position.
//
// Exact+Color never exceeds code.Length.
type Feedback struct {
	Exact int `json:"exact"`
	Color int `json:"color"`
}

// Solved reports whether every peg was exact.
func (f Feedback) Solved() bool { return f.Exact == code.Length }

func (f Feedback) String() string { return fmt.Sprintf("%d exact, %d color", f.Exact, f.Color) }

// Attempt is a scored guess.
type Attempt struct {
	Guess    code.Code `json:"guess"`
	Feedback Feedback  `json:"feedback"`
}

// Turn is returned by SubmitGuess.
type Turn struct {
	Attempt  int        // zero-based index of the guess just scored
	Feedback Feedback   // hint for that guess
	State    State      // state after the guess
	Secret   *code.Code // set once the game is over
	// Notice is a non-fatal statistics failure. The turn itself succeeded.
	Notice error
}

// Snapshot is a copy of everything a presentation layer may show.
type Snapshot struct {
	ID       string     `json:"gameId"`
	State    State      `json:"state"`
	Outcome  string     `json:"outcome,omitempty"` // win | loss | incomplete, once over
	Attempt  int        `json:"attempt"`           // index the next guess must carry
	Max      int        `json:"maxAttempts"`
	Attempts []Attempt  `json:"attempts"`
	Secret   *code.Code `json:"secret,omitempty"` // only once the game is over
}
