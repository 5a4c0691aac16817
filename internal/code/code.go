// internal/code/code.go
//
// Code and color model shared by the secret and every guess.
// Defines:
//   - Color: one peg color, or Unset while a guess is still being built.
//   - Code: a fixed-length row of pegs.
//
// Colors carry no order; they are only ever compared for equality.

package code

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// Length is the number of pegs in every code.
const Length = 4

// Color is a single peg color. The zero value is Unset.
type Color uint8

const (
	Unset Color = iota
	Blue
	Pink
	Green
	Magenta
	Cyan
	Orange
)

// NumColors is the number of playable colors (Unset excluded).
const NumColors = int(Orange)

var colorNames = [...]string{"unset", "blue", "pink", "green", "magenta", "cyan", "orange"}

var colorLetters = [...]byte{'.', 'B', 'P', 'G', 'M', 'C', 'O'}

var (
	ErrUnknownColor = errors.New("unknown color")
	ErrLength       = errors.New("wrong code length")
)

// Colors returns the playable colors in palette order.
func Colors() []Color {
	out := make([]Color, 0, NumColors)
	for c := Blue; c <= Orange; c++ {
		out = append(out, c)
	}
	return out
}

// Valid reports whether c is a playable color.
func (c Color) Valid() bool { return c >= Blue && c <= Orange }

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("color(%d)", uint8(c))
}

// Letter returns the one-letter form of c ('.' for Unset).
func (c Color) Letter() byte {
	if int(c) < len(colorLetters) {
		return colorLetters[c]
	}
	return '?'
}

// ParseColor accepts a color name ("blue"), its letter ("b"), or "."/"_"/""
// for Unset. Matching is case-insensitive.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", ".", "_", "unset":
		return Unset, nil
	}
	for i, name := range colorNames {
		if i == 0 {
			continue
		}
		if s == name || (len(s) == 1 && s[0] == name[0]) {
			return Color(i), nil
		}
	}
	return Unset, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

// MarshalText encodes the color as its name.
func (c Color) MarshalText() ([]byte, error) {
	if int(c) >= len(colorNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownColor, uint8(c))
	}
	return []byte(colorNames[c]), nil
}

// UnmarshalText decodes any form accepted by ParseColor.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Code is an ordered row of Length pegs.
type Code [Length]Color

// UnmarshalJSON decodes an array of exactly Length colors. Shorter and
// longer arrays are ErrLength; use "unset" (or "") for an empty slot.
func (c *Code) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var pegs []Color
	if err := json.Unmarshal(b, &pegs); err != nil {
		return err
	}
	if len(pegs) != Length {
		return fmt.Errorf("%w: got %d pegs, want %d", ErrLength, len(pegs), Length)
	}
	copy(c[:], pegs)
	return nil
}

// Random draws every slot independently and uniformly from the playable
// colors.
func Random(r *rand.Rand) Code {
	var c Code
	for i := range c {
		c[i] = Color(r.Intn(NumColors) + 1)
	}
	return c
}

// Complete reports whether no slot is Unset.
func (c Code) Complete() bool {
	for _, p := range c {
		if p == Unset {
			return false
		}
	}
	return true
}

// Valid reports whether every slot is Unset or a playable color.
func (c Code) Valid() bool {
	for _, p := range c {
		if p != Unset && !p.Valid() {
			return false
		}
	}
	return true
}

// Equal compares slot by slot.
func (c Code) Equal(o Code) bool { return c == o }

// Letters renders the code in one-letter form, e.g. "BPG.".
func (c Code) Letters() string {
	b := make([]byte, Length)
	for i, p := range c {
		b[i] = p.Letter()
	}
	return string(b)
}

func (c Code) String() string {
	parts := make([]string, Length)
	for i, p := range c {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

// Parse reads a code written either as Length letters ("BPGO", "bp.o") or as
// Length color tokens separated by spaces or commas ("blue pink green o").
// Unset slots are allowed; whether a code may be submitted is decided by
// the game, not here.
func Parse(s string) (Code, error) {
	var c Code
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	if len(fields) == 1 && len(fields[0]) == Length {
		fields = strings.Split(fields[0], "")
	}
	if len(fields) != Length {
		return c, fmt.Errorf("%w: got %d pegs, want %d", ErrLength, len(fields), Length)
	}
	for i, f := range fields {
		p, err := ParseColor(f)
		if err != nil {
			return Code{}, err
		}
		c[i] = p
	}
	return c, nil
}
