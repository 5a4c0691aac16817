// internal/cli/session.go
//
// Interactive terminal front-end: one player, one game at a time.
// Lines are either a command ("new", "stats", ...) or a bare guess
// ("bpgo", "blue pink green orange"). Statistics failures are shown as
// warnings and never interrupt play.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/assets"
	"github.com/robalobadob/mastermind/internal/code"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/stats"
)

// errQuit ends the read loop.
var errQuit = errors.New("quit")

// Command defines a session command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Handler     func(ctx context.Context, s *Session, args []string) error
}

// Session is the state of one terminal player.
type Session struct {
	Display Display

	out      io.Writer
	game     *game.Game
	rec      stats.Recorder
	commands map[string]*Command
}

// NewSession starts a session with a fresh game. Options are passed to
// game.New; the recorder is shared by every game of the session.
func NewSession(out io.Writer, rec stats.Recorder, d Display, opts ...game.Option) *Session {
	s := &Session{
		Display:  d,
		out:      out,
		rec:      rec,
		game:     game.New(append([]game.Option{game.WithRecorder(rec)}, opts...)...),
		commands: make(map[string]*Command),
	}
	s.register(&Command{Name: "guess", ShortName: "g", Description: "submit a guess", Handler: guessCmd})
	s.register(&Command{Name: "board", ShortName: "b", Description: "show the board", Handler: boardCmd})
	s.register(&Command{Name: "new", ShortName: "n", Description: "start a new game", Handler: newCmd})
	s.register(&Command{Name: "reveal", ShortName: "r", Description: "show the secret", Handler: revealCmd})
	s.register(&Command{Name: "stats", ShortName: "s", Description: "show statistics", Handler: statsCmd})
	s.register(&Command{Name: "help", ShortName: "?", Description: "how to play", Handler: helpCmd})
	s.register(&Command{Name: "quit", ShortName: "q", Description: "leave", Handler: quitCmd})
	s.commands["exit"] = s.commands["quit"]
	return s
}

func (s *Session) register(cmd *Command) {
	s.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		s.commands[cmd.ShortName] = cmd
	}
}

// Game exposes the current game (useful for tests).
func (s *Session) Game() *game.Game { return s.game }

// Prompt is the prompt for the next line.
func (s *Session) Prompt() string {
	if s.game.State() != game.StateInProgress {
		return s.Display.paint(Yellow, "new game?") + " > "
	}
	return s.Display.Prompt(s.game.Attempt())
}

// Intro prints the banner and color palette.
func (s *Session) Intro() {
	fmt.Fprintln(s.out, s.Display.Title("Mastermind"))
	fmt.Fprintf(s.out, "Crack the %d-peg code in %d attempts. Type 'help' for the rules.\n", code.Length, game.MaxAttempts)
	fmt.Fprintln(s.out, s.Display.Palette())
	fmt.Fprintln(s.out)
}

// Execute runs one input line and reports whether the session is over.
func (s *Session) Execute(ctx context.Context, line string) (quit bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	// a line that reads as a code is a guess, even "b p g o"
	cmd, args := s.commands["guess"], parts
	if _, err := code.Parse(line); err != nil {
		if c, ok := s.commands[strings.ToLower(parts[0])]; ok {
			cmd, args = c, parts[1:]
		}
	}
	err := cmd.Handler(ctx, s, args)
	if errors.Is(err, errQuit) {
		return true
	}
	if err != nil {
		fmt.Fprintln(s.out, s.Display.Error("Error: "+err.Error()))
	}
	return false
}

// Close abandons the game in progress, counting it as incomplete if at
// least one guess was made.
func (s *Session) Close(ctx context.Context) {
	s.notice(s.game.Abandon(ctx))
}

func (s *Session) notice(err error) {
	if err == nil {
		return
	}
	log.Warn().Err(err).Msg("statistics not updated")
	msg := "statistics not updated: " + err.Error()
	if errors.Is(err, stats.ErrMalformed) {
		msg = "statistics file is malformed; counters not updated"
	}
	fmt.Fprintln(s.out, s.Display.Warning(msg))
}

// ------------------------------ commands -----------------------------------

func guessCmd(ctx context.Context, s *Session, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: guess <code>, e.g. guess bpgo")
	}
	if s.game.State() != game.StateInProgress {
		return errors.New("the game is over; type 'new' to play again")
	}
	c, err := code.Parse(strings.Join(args, " "))
	if err != nil {
		return err
	}
	turn, err := s.game.SubmitGuess(ctx, s.game.Attempt(), c)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%2d  %s   %s  %s\n", turn.Attempt+1, s.Display.Row(c), s.Display.Pins(turn.Feedback), turn.Feedback)
	switch turn.State {
	case game.StateWon:
		fmt.Fprintln(s.out, s.Display.Success(fmt.Sprintf("You cracked it in %d!", turn.Attempt+1)))
	case game.StateLost:
		fmt.Fprintf(s.out, "Out of attempts. The code was %s\n", s.Display.Row(*turn.Secret))
	}
	if turn.State != game.StateInProgress {
		fmt.Fprintln(s.out, "Type 'new' to play again.")
	}
	s.notice(turn.Notice)
	return nil
}

func boardCmd(ctx context.Context, s *Session, args []string) error {
	fmt.Fprint(s.out, s.Display.Board(s.game.Snapshot()))
	return nil
}

func newCmd(ctx context.Context, s *Session, args []string) error {
	if s.game.State() == game.StateInProgress && s.game.Attempt() > 0 {
		fmt.Fprintln(s.out, s.Display.Warning("Previous game counted as incomplete."))
	}
	s.notice(s.game.Reset(ctx))
	fmt.Fprintln(s.out, "New secret drawn. Good luck!")
	return nil
}

func revealCmd(ctx context.Context, s *Session, args []string) error {
	secret, err := s.game.Reveal(ctx)
	fmt.Fprintf(s.out, "The code was %s\n", s.Display.Row(secret))
	s.notice(err)
	return nil
}

func statsCmd(ctx context.Context, s *Session, args []string) error {
	c, err := s.rec.Counters(ctx)
	if err != nil {
		if errors.Is(err, stats.ErrMalformed) {
			return errors.New("statistics file is malformed")
		}
		return err
	}
	fmt.Fprintf(s.out, "played %d  won %d  lost %d  incomplete %d\n", c.Played(), c.Wins, c.Losses, c.Incompletes)
	return nil
}

func helpCmd(ctx context.Context, s *Session, args []string) error {
	fmt.Fprintln(s.out, assets.HelpText())
	fmt.Fprintln(s.out, s.Display.Palette())
	return nil
}

func quitCmd(ctx context.Context, s *Session, args []string) error {
	return errQuit
}

// Completer offers the command names for tab completion.
func (s *Session) Completer() readline.AutoCompleter {
	names := make([]string, 0, len(s.commands))
	seen := map[string]bool{}
	for _, c := range s.commands {
		if !seen[c.Name] {
			seen[c.Name] = true
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	items := make([]readline.PrefixCompleterInterface, len(names))
	for i, n := range names {
		items[i] = readline.PcItem(n)
	}
	return readline.NewPrefixCompleter(items...)
}

// Run reads lines until quit or EOF, then closes the session.
func Run(ctx context.Context, s *Session, rl *readline.Instance) error {
	s.Intro()
	defer s.Close(ctx)
	for {
		rl.SetPrompt(s.Prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if s.Execute(ctx, line) {
			return nil
		}
	}
}
