package game

import (
	"testing"

	"github.com/robalobadob/mastermind/internal/code"
)

const (
	B = code.Blue
	P = code.Pink
	G = code.Green
	M = code.Magenta
	C = code.Cyan
	O = code.Orange
)

func TestScore(t *testing.T) {
	cases := []struct {
		name          string
		secret, guess code.Code
		want          Feedback
	}{
		{"identical", code.Code{B, P, G, O}, code.Code{B, P, G, O}, Feedback{4, 0}},
		{"disjoint", code.Code{B, B, B, B}, code.Code{P, P, P, P}, Feedback{0, 0}},
		{"worked example", code.Code{B, B, G, P}, code.Code{G, B, B, O}, Feedback{1, 2}},
		{"all colors misplaced", code.Code{B, P, G, O}, code.Code{O, G, P, B}, Feedback{0, 4}},
		{"pairs swapped", code.Code{B, B, P, P}, code.Code{P, P, B, B}, Feedback{0, 4}},
		{"repeat in guess only counted once", code.Code{B, P, G, O}, code.Code{P, P, P, P}, Feedback{1, 0}},
		{"repeat in secret only counted once", code.Code{P, P, P, P}, code.Code{B, P, G, O}, Feedback{1, 0}},
		{"exact beats misplaced", code.Code{B, G, C, C}, code.Code{C, C, C, M}, Feedback{1, 1}},
		{"misplaced bounded by secret count", code.Code{M, B, B, B}, code.Code{C, M, M, M}, Feedback{0, 1}},
		{"mixed", code.Code{G, O, O, C}, code.Code{O, G, O, O}, Feedback{1, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.secret, tc.guess); got != tc.want {
				t.Errorf("Score(%v, %v) = %+v, want %+v", tc.secret, tc.guess, got, tc.want)
			}
		})
	}
}

// referenceScore is the multiset definition: exact positions, then the sum
// over colors of the smaller remaining count.
func referenceScore(secret, guess code.Code) Feedback {
	var (
		fb        Feedback
		restSec   [code.NumColors + 1]int
		restGuess [code.NumColors + 1]int
	)
	for i := range secret {
		if secret[i] == guess[i] {
			fb.Exact++
			continue
		}
		restSec[secret[i]]++
		restGuess[guess[i]]++
	}
	for c := range restSec {
		fb.Color += min(restSec[c], restGuess[c])
	}
	return fb
}

// allCodes enumerates every complete code.
func allCodes() []code.Code {
	colors := code.Colors()
	var out []code.Code
	var rec func(i int, c code.Code)
	rec = func(i int, c code.Code) {
		if i == code.Length {
			out = append(out, c)
			return
		}
		for _, col := range colors {
			c[i] = col
			rec(i+1, c)
		}
	}
	rec(0, code.Code{})
	return out
}

func TestScoreMatchesReferenceExhaustively(t *testing.T) {
	codes := allCodes()
	if len(codes) != 1296 {
		t.Fatalf("expected 1296 codes, got %d", len(codes))
	}
	for _, secret := range codes {
		for _, guess := range codes {
			got := Score(secret, guess)
			if got.Exact+got.Color > code.Length || got.Exact < 0 || got.Color < 0 {
				t.Fatalf("Score(%v, %v) = %+v out of range", secret, guess, got)
			}
			if want := referenceScore(secret, guess); got != want {
				t.Fatalf("Score(%v, %v) = %+v, reference %+v", secret, guess, got, want)
			}
			if got.Solved() != (secret == guess) {
				t.Fatalf("Score(%v, %v) solved=%v", secret, guess, got.Solved())
			}
		}
	}
}
