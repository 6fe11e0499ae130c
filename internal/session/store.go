package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the sentinel behind every InvalidTokenError.
var ErrInvalidToken = errors.New("invalid token received from server")

// InvalidTokenError is returned when a token does not have the three
// dot-separated segments of a JWT.
type InvalidTokenError struct {
	Segments int
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("%s: expected 3 segments, got %d", ErrInvalidToken, e.Segments)
}

func (e *InvalidTokenError) Unwrap() error { return ErrInvalidToken }

// ValidateTokenShape checks the structural JWT shape only. Signatures are
// verified by the backend services, never here.
func ValidateTokenShape(token string) error {
	if token == "" {
		return &InvalidTokenError{Segments: 0}
	}
	segments := len(strings.Split(token, "."))
	if segments != 3 {
		return &InvalidTokenError{Segments: segments}
	}
	return nil
}

// Session is the client-held proof of authentication
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Store is the local credential cache shared by the workflows. There is no
// server-side session: expiry only surfaces as a 401 on a later call.
type Store struct {
	mu          sync.RWMutex
	current     Session
	persister   Persister
	logger      *slog.Logger
	subscribers []func(authenticated bool)
}

// Option configures a Store
type Option func(*Store)

// WithPersister keeps the session in durable storage between runs.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

// WithLogger sets the logger for persistence problems that do not fail the
// call.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token returns the current bearer token, if any.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token, s.current.Token != ""
}

// Username returns the username stored at login, or "".
func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Username
}

// Authenticated reports whether a token is held.
func (s *Store) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// Current returns a copy of the session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set stores a new session after validating the token shape. On error the
// previous state is left untouched.
func (s *Store) Set(token, username string) error {
	if err := ValidateTokenShape(token); err != nil {
		return err
	}

	next := Session{Token: token, Username: username}
	s.mu.Lock()
	if s.persister != nil {
		if err := s.persister.Save(next); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to persist session: %w", err)
		}
	}
	s.current = next
	subscribers := s.subscribers
	s.mu.Unlock()

	notify(subscribers, true)
	return nil
}

// Clear removes token and username together and notifies subscribers before
// returning.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.current = Session{}
	var err error
	if s.persister != nil {
		err = s.persister.Delete()
	}
	subscribers := s.subscribers
	s.mu.Unlock()

	notify(subscribers, false)
	if err != nil {
		return fmt.Errorf("failed to remove persisted session: %w", err)
	}
	return nil
}

// Restore loads a persisted session. Unreadable content or a malformed
// stored token is logged and discarded, and the store stays empty.
func (s *Store) Restore() error {
	if s.persister == nil {
		return nil
	}
	saved, err := s.persister.Load()
	if errors.Is(err, ErrCorruptSession) {
		s.logger.Warn("discarding unreadable session", "error", err)
		s.discard()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if saved == nil {
		return nil
	}
	if err := ValidateTokenShape(saved.Token); err != nil {
		s.logger.Warn("discarding stored session", "username", saved.Username, "error", err)
		s.discard()
		return nil
	}

	s.mu.Lock()
	s.current = *saved
	subscribers := s.subscribers
	s.mu.Unlock()

	notify(subscribers, true)
	return nil
}

func (s *Store) discard() {
	if err := s.persister.Delete(); err != nil {
		s.logger.Warn("failed to remove stored session", "error", err)
	}
}

// Subscribe registers fn to be called synchronously whenever the session is
// set or cleared.
func (s *Store) Subscribe(fn func(authenticated bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Claims decodes the token payload without verifying it. It is for display
// only and returns false for tokens that are not decodable JWTs.
func (s *Store) Claims() (jwt.MapClaims, bool) {
	token, ok := s.Token()
	if !ok {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

func notify(subscribers []func(bool), authenticated bool) {
	for _, fn := range subscribers {
		fn(authenticated)
	}
}
