// internal/stats/stats.go
//
// Win/loss/incomplete counters kept on behalf of the game engine.
// Responsibilities:
//   - Recorder: the collaborator interface the engine reports outcomes to.
//   - Counters: the three persisted values.
//   - ErrMalformed: persisted counters that cannot be trusted.
//
// Implementations live alongside: Memory (process-local), File (three
// integers in a text file) and SQLite (per-owner rows).

package stats

import (
	"context"
	"errors"
	"fmt"
)

// Outcome is the kind of finished game being recorded.
type Outcome int

const (
	Win Outcome = iota + 1
	Loss
	Incomplete
)

// Outcomes lists every outcome in storage order.
var Outcomes = []Outcome{Win, Loss, Incomplete}

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Incomplete:
		return "incomplete"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, error) {
	for _, o := range Outcomes {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOutcome, s)
}

// Counters holds the persisted totals.
type Counters struct {
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	Incompletes int `json:"incompletes"`
}

// Played is the number of games with any recorded outcome.
func (c Counters) Played() int { return c.Wins + c.Losses + c.Incompletes }

// add bumps the counter for o.
func (c *Counters) add(o Outcome) error {
	switch o {
	case Win:
		c.Wins++
	case Loss:
		c.Losses++
	case Incomplete:
		c.Incompletes++
	default:
		return fmt.Errorf("%w: %d", ErrUnknownOutcome, int(o))
	}
	return nil
}

var (
	// ErrMalformed means the stored counters have the wrong number of
	// values or a value that is not a non-negative integer. Counters are
	// never repaired automatically.
	ErrMalformed      = errors.New("stats: malformed counters")
	ErrUnknownOutcome = errors.New("stats: unknown outcome")
)

// Recorder persists outcomes and reports the current totals.
type Recorder interface {
	// Record durably increments the counter for o.
	Record(ctx context.Context, o Outcome) error

	// Counters returns the current totals.
	Counters(ctx context.Context) (Counters, error)
}

// Discard is a Recorder that keeps nothing.
var Discard Recorder = discard{}

type discard struct{}

func (discard) Record(context.Context, Outcome) error      { return nil }
func (discard) Counters(context.Context) (Counters, error) { return Counters{}, nil }

// Provider hands out the Recorder for an owner key.
type Provider interface {
	Player(owner string) Recorder
}

// Shared is a Provider that ignores the owner: every player shares r.
func Shared(r Recorder) Provider { return shared{r} }

type shared struct{ r Recorder }

func (s shared) Player(string) Recorder { return s.r }
