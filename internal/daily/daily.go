package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"time"

	"github.com/robalobadob/mastermind/internal/code"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Code returns the deterministic secret for a date: HMAC(salt, YYYY-MM-DD),
// one digest byte per peg, reduced onto the playable colors.
func Code(date time.Time, salt string) code.Code {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)

	var c code.Code
	for i := range c {
		c[i] = code.Color(int(sum[i])%code.NumColors + 1)
	}
	return c
}
