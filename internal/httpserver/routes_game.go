// internal/httpserver/routes_game.go
//
// Game endpoints:
//   - POST /game/new      → start a game (optionally abandoning the previous one)
//   - POST /game/guess    → score a guess for the current attempt
//   - POST /game/reveal   → show the secret (ends a running game)
//   - POST /game/abandon  → walk away from a game
//   - GET  /game/{id}     → snapshot of a live game
//   - GET  /stats         → the caller's win/loss/incomplete counters
//
// Finished games are evicted from the live store once the response is
// written; later requests for them get 404.
// Statistics failures never fail a request. They are logged and returned
// as "notice" next to an otherwise normal response.

package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/code"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/history"
	"github.com/robalobadob/mastermind/internal/stats"
	"github.com/robalobadob/mastermind/internal/store"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Post("/game/guess", s.handleGuess)
	r.Post("/game/reveal", s.handleReveal)
	r.Post("/game/abandon", s.handleAbandon)
	r.Get("/game/{id}", s.handleGetGame)
	r.Get("/stats", s.handleStats)
}

type newGameReq struct {
	// Secret fixes the code; honored only in debug mode.
	Secret         *code.Code `json:"secret"`
	PreviousGameID string     `json:"previousGameId" validate:"omitempty,uuid"`
}

type newGameRes struct {
	GameID      string       `json:"gameId"`
	MaxAttempts int          `json:"maxAttempts"`
	Length      int          `json:"length"`
	Colors      []code.Color `json:"colors"`
	Notice      string       `json:"notice,omitempty"`
}

// handleNewGame creates a new in-memory game owned by the caller and inserts
// its history row. A still-running previous game is abandoned first.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if !decode(w, r, &req, true) {
		return
	}
	owner := s.owner(w, r)

	var res newGameRes
	if req.PreviousGameID != "" {
		if prev, err := s.store.Get(r.Context(), req.PreviousGameID); err == nil {
			res.Notice = s.endGame(r.Context(), prev, owner)
		}
	}

	opts := []game.Option{game.WithRecorder(s.stats.Player(owner.Key()))}
	if s.cfg.Debug && req.Secret != nil {
		opts = append(opts, game.WithSecret(*req.Secret))
	}
	g := game.New(opts...)
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	if err := s.history.Start(r.Context(), g.ID, owner); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}

	res.GameID = g.ID
	res.MaxAttempts = game.MaxAttempts
	res.Length = code.Length
	res.Colors = code.Colors()
	writeJSON(w, http.StatusOK, res)
}

type guessReq struct {
	GameID  string    `json:"gameId" validate:"required,uuid"`
	Attempt *int      `json:"attempt" validate:"required,min=0,max=9"`
	Guess   code.Code `json:"guess"`
}

type guessRes struct {
	Attempt  int           `json:"attempt"`
	Feedback game.Feedback `json:"feedback"`
	State    game.State    `json:"state"`
	Secret   *code.Code    `json:"secret,omitempty"`
	Notice   string        `json:"notice,omitempty"`
}

// handleGuess applies a guess to a live game and bumps the history row.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if !decode(w, r, &req, false) {
		return
	}
	g, ok := s.lookup(w, r, req.GameID)
	if !ok {
		return
	}
	turn, err := g.SubmitGuess(r.Context(), *req.Attempt, req.Guess)
	if err != nil {
		writeGameError(w, err)
		return
	}
	owner := s.owner(w, r)
	if err := s.history.Guessed(r.Context(), g.ID, owner, status(g)); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("update game row")
	}
	writeJSON(w, http.StatusOK, guessRes{
		Attempt:  turn.Attempt,
		Feedback: turn.Feedback,
		State:    turn.State,
		Secret:   turn.Secret,
		Notice:   notice(g.ID, turn.Notice),
	})
	if turn.State != game.StateInProgress {
		s.evict(r.Context(), g.ID)
	}
}

type gameIDReq struct {
	GameID string `json:"gameId" validate:"required,uuid"`
}

type endRes struct {
	State  game.State `json:"state"`
	Secret code.Code  `json:"secret"`
	Notice string     `json:"notice,omitempty"`
}

// handleReveal shows the secret. A running game is over afterwards.
func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	var req gameIDReq
	if !decode(w, r, &req, false) {
		return
	}
	g, ok := s.lookup(w, r, req.GameID)
	if !ok {
		return
	}
	secret, err := g.Reveal(r.Context())
	s.closeRow(r.Context(), g, s.owner(w, r))
	writeJSON(w, http.StatusOK, endRes{State: g.State(), Secret: secret, Notice: notice(g.ID, err)})
	s.evict(r.Context(), g.ID)
}

// handleAbandon ends the game and forgets it.
func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	var req gameIDReq
	if !decode(w, r, &req, false) {
		return
	}
	g, ok := s.lookup(w, r, req.GameID)
	if !ok {
		return
	}
	msg := s.endGame(r.Context(), g, s.owner(w, r))
	secret, _ := g.Secret()
	writeJSON(w, http.StatusOK, endRes{State: g.State(), Secret: secret, Notice: msg})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.lookup(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g.Snapshot())
}

type statsRes struct {
	stats.Counters
	Played int `json:"played"`
}

// handleStats returns the caller's counters. A malformed store is reported
// as an error body; it is never repaired here.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	c, err := s.stats.Player(s.owner(w, r).Key()).Counters(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("read stats")
		if errors.Is(err, stats.ErrMalformed) {
			writeError(w, http.StatusInternalServerError, "malformed_stats")
			return
		}
		writeError(w, http.StatusInternalServerError, "stats_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, statsRes{Counters: c, Played: c.Played()})
}

// ------------------------------ helpers ------------------------------------

func (s *Server) lookup(w http.ResponseWriter, r *http.Request, id string) (*game.Game, bool) {
	g, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
		} else {
			writeError(w, http.StatusInternalServerError, "load_failed")
		}
		return nil, false
	}
	return g, true
}

// endGame abandons g, closes its history row and drops it from the store.
// It returns the statistics notice, if any.
func (s *Server) endGame(ctx context.Context, g *game.Game, owner history.Owner) string {
	err := g.Abandon(ctx)
	s.closeRow(ctx, g, owner)
	s.evict(ctx, g.ID)
	return notice(g.ID, err)
}

// evict drops a finished game from the live store; its row stays in history.
func (s *Server) evict(ctx context.Context, id string) {
	if err := s.store.Delete(ctx, id); err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("delete game")
	}
}

func (s *Server) closeRow(ctx context.Context, g *game.Game, owner history.Owner) {
	if err := s.history.Finish(ctx, g.ID, owner, status(g)); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("close game row")
	}
}

// status is the history status for g: playing, won, lost, incomplete or
// abandoned (ended before any guess).
func status(g *game.Game) string {
	switch st := g.State(); st {
	case game.StateInProgress, game.StateWon:
		return st.String()
	}
	switch g.Outcome() {
	case stats.Loss:
		return "lost"
	case stats.Incomplete:
		return "incomplete"
	}
	return "abandoned"
}

// notice logs a statistics failure and turns it into response text.
func notice(gameID string, err error) string {
	if err == nil {
		return ""
	}
	log.Warn().Err(err).Str("gameId", gameID).Msg("statistics not updated")
	if errors.Is(err, stats.ErrMalformed) {
		return "statistics store is malformed; counters not updated"
	}
	return "statistics not updated: " + err.Error()
}

// writeGameError maps engine rejections onto HTTP statuses.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusConflict, "game_over")
	case errors.Is(err, game.ErrOutOfTurn):
		writeError(w, http.StatusConflict, "out_of_turn")
	case errors.Is(err, game.ErrIncompleteGuess):
		writeError(w, http.StatusUnprocessableEntity, "incomplete_guess")
	case errors.Is(err, game.ErrInvalidColor):
		writeError(w, http.StatusUnprocessableEntity, "invalid_color")
	default:
		log.Error().Err(err).Msg("guess")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}
