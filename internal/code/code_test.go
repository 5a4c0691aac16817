package code

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRandomIsCompleteAndPlayable(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	seen := map[Color]bool{}
	for i := 0; i < 500; i++ {
		c := Random(r)
		if !c.Complete() {
			t.Fatalf("Random produced incomplete code %v", c)
		}
		for _, p := range c {
			if !p.Valid() {
				t.Fatalf("Random produced invalid color %d", p)
			}
			seen[p] = true
		}
	}
	if len(seen) != NumColors {
		t.Errorf("expected all %d colors over 500 draws, saw %d", NumColors, len(seen))
	}
}

func TestRandomIsDeterministicForSeed(t *testing.T) {
	a := Random(rand.New(rand.NewSource(42)))
	b := Random(rand.New(rand.NewSource(42)))
	if !a.Equal(b) {
		t.Fatalf("same seed gave %v and %v", a, b)
	}
}

func TestComplete(t *testing.T) {
	cases := []struct {
		c  Code
		ok bool
	}{
		{Code{Blue, Pink, Green, Orange}, true},
		{Code{Blue, Unset, Green, Orange}, false},
		{Code{}, false},
		{Code{Cyan, Cyan, Cyan, Cyan}, true},
	}
	for _, tc := range cases {
		if got := tc.c.Complete(); got != tc.ok {
			t.Errorf("Complete(%v)=%v want %v", tc.c, got, tc.ok)
		}
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Code
		err  error
	}{
		{"BPGO", Code{Blue, Pink, Green, Orange}, nil},
		{"bp.o", Code{Blue, Pink, Unset, Orange}, nil},
		{"blue pink green orange", Code{Blue, Pink, Green, Orange}, nil},
		{"magenta,cyan,m,c", Code{Magenta, Cyan, Magenta, Cyan}, nil},
		{"  b _ g o ", Code{Blue, Unset, Green, Orange}, nil},
		{"BPG", Code{}, ErrLength},
		{"BPGOO", Code{}, ErrLength},
		{"BPGX", Code{}, ErrUnknownColor},
		{"red pink green orange", Code{}, ErrUnknownColor},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if !errors.Is(err, tc.err) {
			t.Errorf("Parse(%q) err=%v want %v", tc.in, err, tc.err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q)=%v want %v", tc.in, got, tc.want)
		}
	}
}

func TestLettersRoundTrip(t *testing.T) {
	c := Code{Magenta, Unset, Cyan, Pink}
	if got := c.Letters(); got != "M.CP" {
		t.Fatalf("Letters()=%q", got)
	}
	back, err := Parse(c.Letters())
	if err != nil || back != c {
		t.Fatalf("Parse(Letters()) = %v, %v", back, err)
	}
}

func TestJSON(t *testing.T) {
	c := Code{Blue, Pink, Green, Unset}
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(`["blue","pink","green","unset"]`, string(b)); diff != "" {
		t.Errorf("unexpected JSON (-want +got)\n%s", diff)
	}

	var got Code
	if err := json.Unmarshal([]byte(`["o","cyan","",""]`), &got); err != nil {
		t.Fatal(err)
	}
	if want := (Code{Orange, Cyan}); got != want {
		t.Errorf("decoded %v want %v", got, want)
	}
	if got.Complete() {
		t.Error("empty slots should decode to an incomplete code")
	}

	for _, in := range []string{`["o","cyan"]`, `["blue","pink","green","orange","cyan","cyan"]`, `[]`} {
		var dst Code
		if err := json.Unmarshal([]byte(in), &dst); !errors.Is(err, ErrLength) {
			t.Errorf("%s: expected ErrLength, got %v", in, err)
		}
	}

	var bad Code
	if err := json.Unmarshal([]byte(`["red","cyan","blue","blue"]`), &bad); !errors.Is(err, ErrUnknownColor) {
		t.Errorf("expected ErrUnknownColor, got %v", err)
	}
}
