// Package services contains the application services of the legal-saarthi
// client: the session store, which owns authentication state, and the
// feature service wrapping the backend's assistance endpoints.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Rajgupta764/legal-saarthi/internal/client/client"
	"github.com/Rajgupta764/legal-saarthi/internal/client/models"
	"github.com/Rajgupta764/legal-saarthi/internal/client/repositories/metadata"
	"github.com/Rajgupta764/legal-saarthi/internal/common"
	"github.com/Rajgupta764/legal-saarthi/internal/logging"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// State is a snapshot of the session for rendering.
type State struct {
	User          *models.User
	Authenticated bool
	Loading       bool
}

// Result is what Login and Signup report to the UI. Exactly one of Message
// and Error is set.
type Result struct {
	Success bool
	Message string
	Error   string
}

// SessionStore is the single owner of the client's authentication state.
//
// Durable storage holds the token and the profile between runs; in memory
// the store keeps the profile and whether the session is authenticated.
// Methods are safe for concurrent use. The mutex is never held across a
// network call, so a 401 handler may call back into the store.
type SessionStore struct {
	api     client.Client
	storage metadata.Repository
	log     logging.Logger

	bootOnce sync.Once

	mu            sync.RWMutex
	user          *models.User
	authenticated bool
	loading       bool

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

// NewSessionStore returns a store in the Loading state. Call Bootstrap once
// to restore a persisted session.
func NewSessionStore(api client.Client, storage metadata.Repository, log logging.Logger) *SessionStore {
	if log == nil {
		log = logging.Discard()
	}
	return &SessionStore{
		api:     api,
		storage: storage,
		log:     log.With("component", "session"),
		loading: true,
		subs:    make(map[int]func(State)),
	}
}

// Bootstrap restores the persisted session. Only the first call does any
// work; later calls return immediately. A token is trusted only after the
// backend confirms it.
func (s *SessionStore) Bootstrap(ctx context.Context) {
	s.bootOnce.Do(func() {
		s.bootstrap(ctx)
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		s.notify()
	})
}

func (s *SessionStore) bootstrap(ctx context.Context) {
	token, err := s.storage.Get(ctx, common.AuthTokenKey)
	if err != nil {
		s.discardPersistedSession(ctx, "read token", err)
		return
	}
	raw, err := s.storage.Get(ctx, common.UserDataKey)
	if err != nil {
		s.discardPersistedSession(ctx, "read profile", err)
		return
	}

	switch {
	case len(token) == 0 && len(raw) == 0:
		return
	case len(token) == 0 || len(raw) == 0:
		s.discardPersistedSession(ctx, "orphaned session key", nil)
		return
	}

	resp, err := s.api.Post(ctx, common.VerifyTokenPath, nil)
	if err != nil {
		s.discardPersistedSession(ctx, "token verification failed", err)
		return
	}
	env, err := client.DecodeEnvelope(resp.Body)
	if err != nil {
		s.discardPersistedSession(ctx, "token verification failed", err)
		return
	}
	if err := env.Err(); err != nil {
		s.discardPersistedSession(ctx, "token rejected", err)
		return
	}

	user, err := models.ParseUser(raw)
	if err != nil {
		s.discardPersistedSession(ctx, "stored profile unreadable", err)
		return
	}

	s.mu.Lock()
	s.user = user
	s.authenticated = true
	s.mu.Unlock()
	s.log.Info(ctx, "session restored", "user", user.DisplayName())
}

// discardPersistedSession is the only failure branch of Bootstrap: the
// stored session is dropped and the user starts unauthenticated.
func (s *SessionStore) discardPersistedSession(ctx context.Context, reason string, cause error) {
	args := []any{"reason", reason}
	if cause != nil {
		args = append(args, "error", cause)
	}
	s.log.Info(ctx, "discarding persisted session", args...)

	if err := s.storage.DeleteMany(ctx, common.AuthTokenKey, common.UserDataKey); err != nil {
		s.log.Warn(ctx, "failed to clear persisted session", "error", err)
	}

	s.mu.Lock()
	s.user = nil
	s.authenticated = false
	s.mu.Unlock()
}

type authMessages struct {
	action  string
	success string
	failed  string
	errored string
}

var (
	loginMessages  = authMessages{action: "login", success: MsgLoginSuccess, failed: MsgLoginFailed, errored: MsgLoginError}
	signupMessages = authMessages{action: "signup", success: MsgSignupSuccess, failed: MsgSignupFailed, errored: MsgSignupError}
)

// Login authenticates with email and password. Failures are reported in the
// Result, never as an error.
func (s *SessionStore) Login(ctx context.Context, email, password string) Result {
	resp, err := s.api.Post(ctx, common.LoginPath, models.Credentials{Email: email, Password: password})
	return s.establish(ctx, resp, err, loginMessages)
}

// Signup registers a new account; on success the user is logged in.
func (s *SessionStore) Signup(ctx context.Context, name, email, phone, password string) Result {
	resp, err := s.api.Post(ctx, common.SignupPath, models.Registration{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: password,
	})
	return s.establish(ctx, resp, err, signupMessages)
}

// authData keeps the profile raw so every field the backend sent is persisted.
type authData struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

func (s *SessionStore) establish(ctx context.Context, resp *client.Response, err error, msgs authMessages) Result {
	if err != nil {
		s.log.Info(ctx, msgs.action+" request failed", "error", err)
		return Result{Error: requestFailureMessage(err, msgs.errored)}
	}

	data, err := client.DecodeData[authData](resp)
	if err != nil {
		var le *client.LogicalError
		if errors.As(err, &le) {
			msg := le.Message
			if msg == "" {
				msg = msgs.failed
			}
			return Result{Error: msg}
		}
		s.log.Warn(ctx, msgs.action+" response unreadable", "error", err)
		return Result{Error: msgs.errored}
	}

	user, err := models.ParseUser(data.User)
	if data.Token == "" || err != nil {
		s.log.Warn(ctx, msgs.action+" response incomplete", "has_token", data.Token != "", "error", err)
		return Result{Error: msgs.errored}
	}

	if err := s.storage.SetMany(ctx, map[string][]byte{
		common.AuthTokenKey: []byte(data.Token),
		common.UserDataKey:  data.User,
	}); err != nil {
		s.log.Error(ctx, "failed to persist session", "error", err)
		return Result{Error: msgs.errored}
	}

	s.mu.Lock()
	s.user = user
	s.authenticated = true
	s.mu.Unlock()
	s.notify()

	s.log.Info(ctx, msgs.action+" succeeded", "user", user.DisplayName())
	return Result{Success: true, Message: msgs.success}
}

// requestFailureMessage prefers the backend's message, then the
// connectivity and timeout messages, then fallback.
func requestFailureMessage(err error, fallback string) string {
	var se *client.StatusError
	switch {
	case errors.As(err, &se) && se.Message != "":
		return se.Message
	case errors.Is(err, client.ErrTimeout):
		return MsgTimeout
	case errors.Is(err, client.ErrUnavailable):
		return MsgConnectivity
	default:
		return fallback
	}
}

// Logout forgets the session locally. It makes no network call and may be
// called any number of times.
func (s *SessionStore) Logout(ctx context.Context) error {
	err := s.storage.DeleteMany(ctx, common.AuthTokenKey, common.UserDataKey)

	s.mu.Lock()
	changed := s.authenticated || s.user != nil
	s.user = nil
	s.authenticated = false
	s.mu.Unlock()

	if changed {
		s.notify()
	}
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// UpdateUser replaces the profile in storage and then in memory. Profile
// fields the client does not model are kept in storage. The token and the
// authenticated flag are left alone.
func (s *SessionStore) UpdateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return models.ErrEmptyProfile
	}
	stored, err := s.storage.Get(ctx, common.UserDataKey)
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}
	raw, err := models.MergeProfile(stored, user)
	if err != nil {
		return err
	}
	return s.replaceUser(ctx, user, raw)
}

// replaceUser writes raw to storage and, only once that succeeded, swaps the
// in-memory profile.
func (s *SessionStore) replaceUser(ctx context.Context, user *models.User, raw []byte) error {
	if err := s.storage.Set(ctx, common.UserDataKey, raw); err != nil {
		return fmt.Errorf("failed to persist profile: %w", err)
	}

	s.mu.Lock()
	s.user = user.Clone()
	s.mu.Unlock()
	s.notify()
	return nil
}

// GetToken reads the token from durable storage; "" means there is none.
func (s *SessionStore) GetToken(ctx context.Context) (string, error) {
	b, err := s.storage.Get(ctx, common.AuthTokenKey)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *SessionStore) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		User:          s.user.Clone(),
		Authenticated: s.authenticated,
		Loading:       s.loading,
	}
}

// CurrentUser fetches the profile from the backend and stores the document
// exactly as the backend sent it.
func (s *SessionStore) CurrentUser(ctx context.Context) (*models.User, error) {
	if !s.State().Authenticated {
		return nil, ErrNotAuthenticated
	}

	resp, err := s.api.Get(ctx, common.CurrentUserPath)
	if err != nil {
		return nil, err
	}
	raw, err := client.DecodeData[json.RawMessage](resp)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, models.ErrEmptyProfile
	}
	user, err := models.ParseUser(raw)
	switch {
	case errors.Is(err, models.ErrEmptyProfile):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("%w: user: %v", client.ErrMalformedResponse, err)
	}

	// The session may have ended while the request was in flight.
	if !s.State().Authenticated {
		return nil, ErrNotAuthenticated
	}
	if err := s.replaceUser(ctx, user, raw); err != nil {
		return nil, err
	}
	return user.Clone(), nil
}

// Subscribe registers fn to receive the state after every transition.
// fn runs on the goroutine that caused the transition and must not block.
func (s *SessionStore) Subscribe(fn func(State)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *SessionStore) notify() {
	st := s.State()

	s.subMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
