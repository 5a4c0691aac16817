// internal/httpserver/server.go
//
// HTTP server wiring for the Mastermind backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): /game/*, GET /stats.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + history endpoints: /auth/*, /games/mine.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Guests are identified by a signed cookie; their games and counters
//     are kept under "anon:<id>" until they sign up or log in.
//   - History writes are best effort: failures are logged, never returned.

package httpserver

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/auth"
	"github.com/robalobadob/mastermind/internal/config"
	"github.com/robalobadob/mastermind/internal/history"
	"github.com/robalobadob/mastermind/internal/stats"
	"github.com/robalobadob/mastermind/internal/store"
)

// Server bundles the router, live games and the persistent collaborators.
type Server struct {
	r       *chi.Mux
	cfg     *config.Config
	store   store.Store
	db      *sql.DB
	auth    *auth.Service
	history *history.Store
	stats   stats.Provider
	daily   *dailyServer
	now     func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
// db must already be migrated (sqlitedb.Open).
func New(cfg *config.Config, st store.Store, db *sql.DB, sp stats.Provider) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		cfg:   cfg,
		store: st,
		db:    db,
		auth: auth.New(db, auth.Config{
			JWTSecret:  cfg.JWTSecret,
			TTL:        cfg.TokenTTL(),
			CookieName: cfg.CookieName,
			CookieKey:  []byte(cfg.CookieKey),
			Secure:     cfg.Production,
		}),
		history: history.NewStore(db),
		stats:   sp,
		now:     time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(cfg.ClientOrigin))          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"mastermind","endpoints":["/health","POST /game/new","POST /game/guess","POST /game/reveal","POST /game/abandon","GET /game/{id}","GET /stats","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Game endpoints, optional auth (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.auth.Optional)
		s.mountGame(r)
		s.mountDaily(r)
	})

	// Accounts
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("listening")
	return http.ListenAndServe(addr, s.r)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// owner resolves who is playing: the signed-in user, else the guest cookie.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) history.Owner {
	if me := auth.FromContext(r.Context()); me != nil {
		return history.Owner{UserID: me.ID}
	}
	return history.Owner{AnonID: s.auth.AnonID(w, r)}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger writes one debug line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("reqId", chimw.GetReqID(r.Context())).
			Msg("http")
	})
}
