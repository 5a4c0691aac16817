package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/robalobadob/mastermind/internal/sqlitedb"
)

func TestCodeIsDeterministicPerDay(t *testing.T) {
	morning := time.Date(2026, 3, 1, 0, 0, 1, 0, time.UTC)
	evening := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)

	a, b := Code(morning, "salt"), Code(evening, "salt")
	if a != b {
		t.Fatalf("same day gave %v and %v", a, b)
	}
	if !a.Complete() || !a.Valid() {
		t.Fatalf("daily code %v is not playable", a)
	}

	// Over a month the code must not be constant, and the salt must matter.
	changed, salted := false, false
	for d := 1; d <= 30; d++ {
		day := morning.AddDate(0, 0, d)
		if Code(day, "salt") != a {
			changed = true
		}
		if Code(day, "salt") != Code(day, "pepper") {
			salted = true
		}
	}
	if !changed || !salted {
		t.Errorf("daily code ignores date (%v) or salt (%v)", !changed, !salted)
	}
}

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	local := time.Date(2026, 3, 2, 5, 0, 0, 0, loc) // 2026-03-01 19:00 UTC
	if got := DateKey(local); got != "2026-03-01" {
		t.Errorf("DateKey = %q", got)
	}
}

func TestStore(t *testing.T) {
	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "daily.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	s := NewStore(db)
	date := "2026-03-01"

	played, err := s.AlreadyPlayed(ctx, "u1", date)
	if err != nil || played {
		t.Fatalf("AlreadyPlayed = %v, %v", played, err)
	}

	results := []Result{
		{UserID: "u1", Date: date, Code: "BPGO", Guesses: 5, ElapsedMs: 9000},
		{UserID: "u2", Date: date, Code: "BPGO", Guesses: 3, ElapsedMs: 20000},
		{UserID: "u3", Date: date, Code: "BPGO", Guesses: 5, ElapsedMs: 4000},
		{UserID: "u1", Date: date, Code: "BPGO", Guesses: 1, ElapsedMs: 1}, // ignored
		{UserID: "u4", Date: "2026-03-02", Code: "CCCC", Guesses: 1, ElapsedMs: 1},
	}
	for _, r := range results {
		if err := s.InsertResult(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	if played, _ := s.AlreadyPlayed(ctx, "u1", date); !played {
		t.Error("u1 should have played")
	}

	got, err := s.Leaderboard(ctx, date, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []LBRow{
		{UserID: "u2", Guesses: 3, ElapsedMs: 20000},
		{UserID: "u3", Guesses: 5, ElapsedMs: 4000},
		{UserID: "u1", Guesses: 5, ElapsedMs: 9000},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected leaderboard (-want +got)\n%s", diff)
	}
}
