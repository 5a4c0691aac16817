// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's daily game
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each player gets one daily game per day (enforced by DB + in-memory session).
// Sessions are held in memory for active play and persisted to DB on win.
// The secret is derived from date + salt, so everyone plays the same code.
// Daily games do not count towards the regular statistics.

package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/code"
	"github.com/robalobadob/mastermind/internal/daily"
	"github.com/robalobadob/mastermind/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // active sessions keyed by owner|date
	mu       sync.Mutex               // guards sessions
}

// dailySession is an in-progress (or just finished) daily game.
type dailySession struct {
	game  *game.Game
	date  string
	start time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		sessions: make(map[string]*dailySession),
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewRes struct {
	GameID      string `json:"gameId"`
	Date        string `json:"date"`
	Played      bool   `json:"played"`
	MaxAttempts int    `json:"maxAttempts"`
	Attempt     int    `json:"attempt"`
}

// handleNew creates or reuses a daily session for the current date.
//   - If the player already has a DB row for today → Played=true.
//   - Otherwise create/reuse an in-memory session and return its GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.srv.owner(w, r).Key()
	now := d.srv.now()
	date := daily.DateKey(now)

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err != nil {
		log.Warn().Err(err).Msg("daily already played")
	} else if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true, MaxAttempts: game.MaxAttempts})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	d.pruneLocked(date)
	sess, ok := d.sessions[key]
	if !ok {
		sess = &dailySession{
			game:  game.New(game.WithSecret(daily.Code(now, d.salt))),
			date:  date,
			start: now,
		}
		d.sessions[key] = sess
	}
	d.mu.Unlock()

	writeJSON(w, http.StatusOK, dailyNewRes{
		GameID:      sess.game.ID,
		Date:        date,
		Played:      sess.game.State() != game.StateInProgress,
		MaxAttempts: game.MaxAttempts,
		Attempt:     sess.game.Attempt(),
	})
}

// pruneLocked drops sessions from earlier days. Must hold d.mu.
func (d *dailyServer) pruneLocked(today string) {
	for k, sess := range d.sessions {
		if sess.date != today {
			delete(d.sessions, k)
		}
	}
}

// -----------------------------------------------------------------------------
// /daily/guess

type dailyGuessRes struct {
	Feedback game.Feedback `json:"feedback"`
	State    string        `json:"state"` // playing | won | lost | locked
	Guesses  int           `json:"guesses"`
	Secret   *code.Code    `json:"secret,omitempty"`
}

// handleGuess scores a guess against today's session. A finished session
// answers "locked"; a win is persisted to the leaderboard.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if !decode(w, r, &req, false) {
		return
	}
	uid := d.srv.owner(w, r).Key()
	date := daily.DateKey(d.srv.now())

	d.mu.Lock()
	sess, ok := d.sessions[uid+"|"+date]
	d.mu.Unlock()
	if !ok || sess.game.ID != req.GameID {
		writeError(w, http.StatusConflict, "no_session")
		return
	}
	g := sess.game
	if g.State() != game.StateInProgress {
		writeJSON(w, http.StatusOK, dailyGuessRes{State: "locked", Guesses: g.Attempt()})
		return
	}

	turn, err := g.SubmitGuess(r.Context(), *req.Attempt, req.Guess)
	if err != nil {
		writeGameError(w, err)
		return
	}
	res := dailyGuessRes{
		Feedback: turn.Feedback,
		State:    turn.State.String(),
		Guesses:  turn.Attempt + 1,
		Secret:   turn.Secret,
	}
	if turn.State == game.StateWon {
		secret, _ := g.Secret()
		if err := d.store.InsertResult(r.Context(), daily.Result{
			UserID:    uid,
			Date:      sess.date,
			Code:      secret.Letters(),
			Guesses:   res.Guesses,
			ElapsedMs: int(d.srv.now().Sub(sess.start).Milliseconds()),
		}); err != nil {
			log.Warn().Err(err).Str("owner", uid).Msg("insert daily result")
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
