// Package mockbackend is an in-process stand-in for the legal-saarthi HTTP
// backend. It implements the auth routes for real (bcrypt password hashes,
// HS256 tokens) and answers the feature routes with canned data, which is
// enough to drive the client end to end in tests and local development.
package mockbackend

import (
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Rajgupta764/legal-saarthi/internal/logging"
)

const (
	DefaultSecret   = "dev-secret-key-change-in-production"
	DefaultTokenTTL = 24 * time.Hour
	APIPrefix       = "/api"
)

type account struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash []byte
	CreatedAt    time.Time
	Active       bool
}

// Server holds the user store and token settings.
type Server struct {
	log      logging.Logger
	tokenTTL time.Duration
	now      func() time.Time
	latency  time.Duration

	mu       sync.RWMutex
	secret   []byte
	accounts map[string]*account

	requests atomic.Int64
}

type Option func(*Server)

func WithSecret(secret string) Option {
	return func(s *Server) {
		if secret != "" {
			s.secret = []byte(secret)
		}
	}
}

func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) {
		s.tokenTTL = d
	}
}

func WithLogger(l logging.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithClock replaces time.Now for token issuing and verification.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithLatency delays every response, for exercising client timeouts.
func WithLatency(d time.Duration) Option {
	return func(s *Server) {
		s.latency = d
	}
}

func New(opts ...Option) *Server {
	s := &Server{
		log:      logging.Discard(),
		tokenTTL: DefaultTokenTTL,
		now:      time.Now,
		secret:   []byte(DefaultSecret),
		accounts: make(map[string]*account),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router with every route mounted under /api.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.countRequests)
	if s.latency > 0 {
		r.Use(s.delay)
	}

	r.Route(APIPrefix, func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/verify-token", s.handleVerifyToken)
		r.Get("/auth/user", s.handleCurrentUser)

		r.Post("/analyze-document", s.handleAnalyzeDocument)
		r.Post("/classify-issue", s.handleClassifyIssue)
		r.Post("/match-schemes", s.handleMatchSchemes)
		r.Post("/find-legal-aid", s.handleFindLegalAid)
		r.Post("/generate-draft", s.handleGenerateDraft)

		r.Route("/chatbot", func(r chi.Router) {
			r.Get("/start", s.handleChatStart)
			r.Post("/message", s.handleChatMessage)
			r.Post("/get-suggestion", s.handleChatSuggestion)
			r.Post("/generate-document", s.handleChatDocument)
		})

		r.Route("/legal-education", func(r chi.Router) {
			r.Get("/all-topics", s.handleAllTopics)
			r.Get("/topic/{topic}", s.handleTopic)
			r.Post("/search", s.handleSearchTopics)
			r.Get("/fear-removal-mode", s.handleFearRemovalMode)
			r.Get("/common-questions", s.handleCommonQuestions)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{Error: "Endpoint not found", Message: "यह पेज उपलब्ध नहीं है"})
	})
	return r
}

// Requests returns how many requests the server has received.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// RotateSecret invalidates every token issued so far.
func (s *Server) RotateSecret(secret string) {
	s.mu.Lock()
	s.secret = []byte(secret)
	s.mu.Unlock()
}

// SetActive enables or disables an account. It reports whether the account exists.
func (s *Server) SetActive(email string, active bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[normalizeEmail(email)]
	if ok {
		a.Active = active
	}
	return ok
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(s.latency):
		case <-r.Context().Done():
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Rural Legal Saathi API is running",
		"version": "1.0.0",
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
