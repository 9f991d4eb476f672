package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/policyqa/policyqa-backend/internal/model/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrMissingField       = errors.New("email and password are required")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// DefaultSessionTTL matches the 7-day cookie lifetime issued to browsers.
const DefaultSessionTTL = 7 * 24 * time.Hour

type user struct {
	email        string
	passwordHash []byte
	role         auth.Role
}

// Service owns the principal registry and the live session table. Sessions
// expire a fixed interval after issuance; tokens are opaque and only ever
// resolved against the server-side table.
type Service struct {
	mu       sync.RWMutex
	users    map[string]user
	sessions map[string]auth.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewService bootstraps an in-memory registry and session table.
func NewService(ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		users:    make(map[string]user),
		sessions: make(map[string]auth.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// ProvisionAdmin registers an admin account directly. Admin principals are
// never created through signup; this is the out-of-band path used at startup.
func (s *Service) ProvisionAdmin(email, password string) error {
	if email == "" || password == "" {
		return ErrMissingField
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; ok {
		return ErrEmailTaken
	}
	s.users[email] = user{email: email, passwordHash: hash, role: auth.RoleAdmin}
	return nil
}

// Signup registers a new parent principal and opens a session for it.
func (s *Service) Signup(_ context.Context, email, password string) (auth.Session, error) {
	if email == "" || password == "" {
		return auth.Session{}, ErrMissingField
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return auth.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[email]; ok {
		return auth.Session{}, ErrEmailTaken
	}

	s.users[email] = user{email: email, passwordHash: hash, role: auth.RoleParent}
	return s.openSessionLocked(auth.Principal{Email: email, Role: auth.RoleParent}), nil
}

// Login validates credentials and opens a new session. Unknown email and
// wrong password report the same error.
func (s *Service) Login(_ context.Context, email, password string) (auth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return auth.Session{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)) != nil {
		return auth.Session{}, ErrInvalidCredentials
	}

	return s.openSessionLocked(auth.Principal{Email: u.email, Role: u.role}), nil
}

// Resolve maps a token to its principal. Expired sessions are removed on
// first sight and report the same error as unknown tokens.
func (s *Service) Resolve(_ context.Context, token string) (auth.Principal, error) {
	if token == "" {
		return auth.Principal{}, ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return auth.Principal{}, ErrNotAuthenticated
	}
	if session.Expired(s.now()) {
		delete(s.sessions, token)
		return auth.Principal{}, ErrNotAuthenticated
	}

	return session.Principal, nil
}

// Logout invalidates the session. Logging out an unknown token is a no-op.
func (s *Service) Logout(_ context.Context, token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

func (s *Service) openSessionLocked(principal auth.Principal) auth.Session {
	session := auth.Session{
		Token:     uuid.NewString(),
		Principal: principal,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.sessions[session.Token] = session
	return session
}
