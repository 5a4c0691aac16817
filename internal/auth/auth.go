// internal/auth/auth.go
//
// Accounts, tokens and the guest cookie.
// Responsibilities:
//   - Users table CRUD with bcrypt password hashes.
//   - HS256 JWT signing/parsing, delivered as cookie or bearer header.
//   - Optional / required auth middleware that puts the Identity in context.
//   - A signed anonymous-id cookie so guests keep their own counters.

package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
)

const anonCookieName = "mastermind_anon"

// Config holds the settings New needs.
type Config struct {
	JWTSecret  string
	TTL        time.Duration // token lifetime
	CookieName string        // auth token cookie
	CookieKey  []byte        // HMAC key for the guest cookie
	Secure     bool          // production: Secure + SameSite=None cookies
}

// Service bundles the users table and token settings.
type Service struct {
	db         *sql.DB
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	sc         *securecookie.SecureCookie
}

// New constructs a Service. Empty settings fall back to development
// defaults.
func New(db *sql.DB, cfg Config) *Service {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev_secret_change_me"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 14 * 24 * time.Hour
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "mastermind_token"
	}
	if len(cfg.CookieKey) == 0 {
		cfg.CookieKey = securecookie.GenerateRandomKey(32)
	}
	sc := securecookie.New(cfg.CookieKey, nil)
	sc.MaxAge(int((180 * 24 * time.Hour).Seconds()))
	return &Service{
		db:         db,
		secret:     []byte(cfg.JWTSecret),
		ttl:        cfg.TTL,
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
		sc:         sc,
	}
}

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is placed into request context by the middleware.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ------------------------------- users -------------------------------------

// CreateUser validates input, checks uniqueness, hashes the password and
// inserts the user.
func (s *Service) CreateUser(ctx context.Context, username, pw string) (*User, error) {
	username = normalizeUsername(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	_ = s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if exists == 1 {
		return nil, ErrUsernameTaken
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           GenID(),
		Username:     username,
		PasswordHash: string(h),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339)); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate checks a username/password pair.
func (s *Service) Authenticate(ctx context.Context, username, pw string) (*User, error) {
	u, err := s.findUser(ctx, `lower(username)=lower(?)`, normalizeUsername(username))
	if err != nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pw)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// FindByID loads a user or returns ErrUserNotFound.
func (s *Service) FindByID(ctx context.Context, id string) (*User, error) {
	return s.findUser(ctx, `id=?`, id)
}

func (s *Service) findUser(ctx context.Context, where string, arg any) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE `+where, arg)
	var (
		u       User
		created string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

// normalizeUsername trims whitespace.
func normalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3–24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 72 {
		return errors.New("password must be 8–72 chars")
	}
	return nil
}

// ------------------------------ JWT & cookies ------------------------------

// Sign creates an HS256 JWT carrying id and username.
func (s *Service) Sign(u *User) (string, time.Time, error) {
	exp := time.Now().Add(s.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       u.ID,
		"username": u.Username,
		"exp":      exp.Unix(),
		"iat":      time.Now().Unix(),
	})
	ss, err := t.SignedString(s.secret)
	return ss, exp, err
}

// Parse verifies a token and returns its identity.
func (s *Service) Parse(token string) (*Identity, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return nil, ErrInvalidToken
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{ID: id, Username: username}, nil
}

func (s *Service) sameSite() http.SameSite {
	if s.secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// SetCookie writes the auth token cookie.
func (s *Service) SetCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: s.sameSite(),
		Expires:  exp,
	})
}

// ClearCookie deletes the auth token cookie.
func (s *Service) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: s.sameSite(),
		MaxAge:   -1,
	})
}

// token extracts a bearer token from the Authorization header or the auth
// cookie.
func (s *Service) token(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cookieName); err == nil {
		return c.Value
	}
	return ""
}

// AnonID returns the guest id from the signed cookie, issuing a new one
// when the cookie is missing or does not verify.
func (s *Service) AnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		var id string
		if err := s.sc.Decode(anonCookieName, c.Value, &id); err == nil && id != "" {
			return id
		}
	}
	id := GenID()
	encoded, err := s.sc.Encode(anonCookieName, id)
	if err != nil {
		return id
	}
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: s.sameSite(),
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// ---------------------------- middleware -----------------------------------

type ctxUserKey struct{}

// FromContext returns the authenticated identity, or nil for guests.
func FromContext(ctx context.Context) *Identity {
	me, _ := ctx.Value(ctxUserKey{}).(*Identity)
	return me
}

// identify resolves the request's token to a still-existing user.
func (s *Service) identify(r *http.Request) (*Identity, error) {
	tok := s.token(r)
	if tok == "" {
		return nil, ErrInvalidToken
	}
	me, err := s.Parse(tok)
	if err != nil {
		return nil, err
	}
	if _, err := s.FindByID(r.Context(), me.ID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return me, nil
}

// Optional decorates requests with the identity when a valid token is
// present. It never rejects; guests pass through.
func (s *Service) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if me, err := s.identify(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, me))
		}
		next.ServeHTTP(w, r)
	})
}

// Require rejects requests without a valid token.
func (s *Service) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token(r) == "" {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		me, err := s.identify(r)
		if err != nil {
			http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, me)))
	})
}

// GenID creates a 22-char URL-safe, crypto-random identifier (no padding).
func GenID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
