package mockserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/aquao/goAquao/internal/rate"
	"github.com/aquao/goAquao/jwt"
)

// AnonymousName is the principal reported for sessions that never authenticated.
const AnonymousName = "anonymousUser"

// Config configures the fake API.
type Config struct {
	SessionName string
	Verifier    *jwt.Verifier
	SessionTTL  time.Duration
	Logger      *slog.Logger

	// MaxAuthFailures rejected tokens per client address within AuthCooldown turn
	// further authorization requests into 429 responses. Zero disables the limit.
	MaxAuthFailures int
	AuthCooldown    time.Duration
}

// Call is one request observed by the server.
type Call struct {
	Method string
	Path   string
	Cookie string
}

// Server serves the three AquaO endpoints used by the client.
type Server struct {
	cfg   Config
	store   *Store
	limiter *rate.Limiter
	mux     *http.ServeMux

	mu       sync.Mutex
	calls    []Call
	failures map[string]int
}

// New returns a Server keeping its sessions in rdb.
func New(cfg Config, rdb redis.UniversalClient) *Server {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		store:    NewStore(rdb, "aquao:sess"),
		limiter:  rate.New(rdb, rate.Config{MaxFailures: cfg.MaxAuthFailures, Cooldown: cfg.AuthCooldown}),
		mux:      http.NewServeMux(),
		failures: make(map[string]int),
	}
	s.mux.HandleFunc("GET /api/whoami", s.handleWhoAmI)
	s.mux.HandleFunc("GET /api/public/client/aquao-authorization/{token}", s.handleAuthorization)
	s.mux.HandleFunc("GET /api/logout", s.handleLogout)
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if strings.HasPrefix(path, "/api/public/client/aquao-authorization/") {
			path = "/api/public/client/aquao-authorization/{token}"
		}

		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: path, Cookie: r.Header.Get("Cookie")})
		status, fail := s.failures[path]
		s.mu.Unlock()

		if fail {
			http.Error(w, http.StatusText(status), status)
			return
		}
		s.mux.ServeHTTP(w, r)
	})
}

// Store exposes the session store.
func (s *Server) Store() *Store {
	return s.store
}

// FailPath makes every request to path answer with status. Authorization requests
// are matched as "/api/public/client/aquao-authorization/{token}".
func (s *Server) FailPath(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = status
}

// Calls returns the requests observed so far, in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	sess, err := s.currentSession(r)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if sess == nil {
		sess, err = s.newSession(r.Context(), w, "", "")
		if err != nil {
			s.serverError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":          sess.Name,
		"authenticated": sess.Authenticated,
	})
}

func (s *Server) handleAuthorization(w http.ResponseWriter, r *http.Request) {
	addr := clientAddr(r)
	if err := s.limiter.Check(r.Context(), addr); err != nil {
		if errors.Is(err, rate.ErrRateLimited) {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many attempts"})
			return
		}
		s.serverError(w, err)
		return
	}

	claims, err := s.cfg.Verifier.Parse(r.PathValue("token"))
	if err != nil {
		s.cfg.Logger.Warn("rejected token", slog.String("addr", addr), slog.Any("error", err))
		if err := s.limiter.RecordFailure(r.Context(), addr); err != nil {
			s.serverError(w, err)
			return
		}
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		return
	}
	if err := s.limiter.Reset(r.Context(), addr); err != nil {
		s.serverError(w, err)
		return
	}

	if old, err := s.currentSession(r); err == nil && old != nil {
		if err := s.store.Delete(r.Context(), old.ID); err != nil {
			s.serverError(w, err)
			return
		}
	}

	sess, err := s.newSession(r.Context(), w, claims.Subject, claims.Subject)
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"email":         sess.Email,
		"name":          sess.Name,
		"authenticated": true,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, err := s.currentSession(r)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if sess != nil {
		if err := s.store.Delete(r.Context(), sess.ID); err != nil {
			s.serverError(w, err)
			return
		}
	}

	anon, err := s.newSession(r.Context(), w, "", "")
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":          anon.Name,
		"authenticated": false,
	})
}

// currentSession returns nil without error when the request carries no live session.
func (s *Server) currentSession(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(s.cfg.SessionName)
	if err != nil {
		return nil, nil
	}
	sess, err := s.store.Get(r.Context(), cookie.Value)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil
	}
	return sess, err
}

func (s *Server) newSession(ctx context.Context, w http.ResponseWriter, name, email string) (*Session, error) {
	sess := &Session{
		ID:            uuid.NewString(),
		Name:          name,
		Email:         email,
		Authenticated: name != "",
		CreatedAt:     time.Now().Unix(),
	}
	if sess.Name == "" {
		sess.Name = AnonymousName
	}
	if err := s.store.Save(ctx, sess, s.cfg.SessionTTL); err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.SessionName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.cfg.Logger.Error("mock server failure", slog.Any("error", err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
