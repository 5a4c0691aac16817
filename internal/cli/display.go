package cli

import (
	"fmt"
	"strings"

	"github.com/robalobadob/mastermind/internal/code"
	"github.com/robalobadob/mastermind/internal/game"
)

// Terminal color codes
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Cyan    = "\033[36m"
	Dim     = "\033[2m"
	fgBlack = "\033[30m"
)

// 256-color backgrounds for the pegs, indexed by code.Color.
var pegColors = [...]string{
	code.Unset:   "",
	code.Blue:    "\033[48;5;27m",
	code.Pink:    "\033[48;5;211m",
	code.Green:   "\033[48;5;34m",
	code.Magenta: "\033[48;5;127m",
	code.Cyan:    "\033[48;5;44m",
	code.Orange:  "\033[48;5;208m",
}

// Display renders boards and messages, with or without ANSI escapes.
type Display struct {
	Color bool
}

func (d Display) paint(esc, s string) string {
	if !d.Color || esc == "" {
		return s
	}
	return esc + s + Reset
}

// Peg renders one peg as its letter, on its own color when enabled.
func (d Display) Peg(c code.Color) string {
	l := string(c.Letter())
	if int(c) < len(pegColors) {
		return d.paint(pegColors[c]+fgBlack+Bold, " "+l+" ")
	}
	return " " + l + " "
}

// Row renders a whole code.
func (d Display) Row(c code.Code) string {
	var b strings.Builder
	for i, col := range c {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.Peg(col))
	}
	return b.String()
}

// Pins renders feedback as ● per exact peg and ○ per color-only peg,
// padded with · to the code length.
func (d Display) Pins(f game.Feedback) string {
	var b strings.Builder
	for i := 0; i < code.Length; i++ {
		switch {
		case i < f.Exact:
			b.WriteString(d.paint(Green, "●"))
		case i < f.Exact+f.Color:
			b.WriteString(d.paint(Yellow, "○"))
		default:
			b.WriteString(d.paint(Dim, "·"))
		}
	}
	return b.String()
}

// Board renders every attempt so far, then the secret once the game is over.
func (d Display) Board(s game.Snapshot) string {
	var b strings.Builder
	for i, a := range s.Attempts {
		fmt.Fprintf(&b, "%2d  %s   %s  %s\n", i+1, d.Row(a.Guess), d.Pins(a.Feedback), a.Feedback)
	}
	if len(s.Attempts) == 0 {
		b.WriteString(d.paint(Dim, "no guesses yet") + "\n")
	}
	if s.Secret != nil {
		fmt.Fprintf(&b, "    %s   secret\n", d.Row(*s.Secret))
	}
	return b.String()
}

// Palette lists the playable colors with their letters.
func (d Display) Palette() string {
	parts := make([]string, 0, code.NumColors)
	for _, c := range code.Colors() {
		parts = append(parts, d.Peg(c)+" "+c.String())
	}
	return strings.Join(parts, "  ")
}

// Prompt returns a colored prompt string
func (d Display) Prompt(attempt int) string {
	return d.paint(Yellow, fmt.Sprintf("guess %d/%d", attempt+1, game.MaxAttempts)) + " > "
}

func (d Display) Error(msg string) string   { return d.paint(Red, msg) }
func (d Display) Warning(msg string) string { return d.paint(Yellow, msg) }
func (d Display) Success(msg string) string { return d.paint(Green+Bold, msg) }
func (d Display) Title(msg string) string   { return d.paint(Cyan+Bold, msg) }
