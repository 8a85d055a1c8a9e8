package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bookhaven/bookstore-api/internal/domains/users/domain"
	"github.com/bookhaven/bookstore-api/internal/domains/users/ports"
)

// DefaultSessionTTL applies when no TTL is configured.
const DefaultSessionTTL = 24 * time.Hour

// Service exposes user bounded context use cases.
type Service struct {
	repo       ports.Repository
	sessions   ports.SessionStore
	sessionTTL time.Duration
	now        func() time.Time
	newID      func() string
}

type Option func(*Service)

// WithSessionTTL overrides the session lifetime.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, sessions ports.SessionStore, opts ...Option) *Service {
	if sessions == nil {
		sessions = ports.NoopSessionStore
	}
	s := &Service{
		repo:       repo,
		sessions:   sessions,
		sessionTTL: DefaultSessionTTL,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register creates a customer account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	user, err := domain.NewUser(s.newID(), username, email, password, domain.RoleCustomer)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := s.repo.GetByUsername(ctx, user.Username); err == nil {
		return nil, mapError(ports.ErrUsernameTaken)
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Login verifies credentials and issues a fresh session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return "", mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", mapError(ports.ErrInvalidCredentials)
		}
		return "", err
	}
	if !user.CheckPassword(password) {
		return "", mapError(ports.ErrInvalidCredentials)
	}
	session := ports.Session{
		Token:     s.newID(),
		Username:  user.Username,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return "", err
	}
	return session.Token, nil
}

// Logout drops the caller's sessions.
func (s *Service) Logout(ctx context.Context, username string) {
	if strings.TrimSpace(username) == "" {
		return
	}
	_ = s.sessions.Delete(ctx, username)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Authenticate resolves a bearer token to a principal. The server-side session
// is the sole source of truth for the caller's role.
func (s *Service) Authenticate(ctx context.Context, token string) (*ports.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, mapError(ports.ErrInvalidSession)
	}
	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		return nil, mapError(err)
	}
	if session.Expired(s.now()) {
		return nil, mapError(ports.ErrInvalidSession)
	}
	user, err := s.repo.GetByUsername(ctx, session.Username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(ports.ErrInvalidSession)
		}
		return nil, err
	}
	return &ports.Principal{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

var _ ports.Service = (*Service)(nil)
