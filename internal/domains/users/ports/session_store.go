package ports

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidSession signals an unknown or expired token.
var ErrInvalidSession = errors.New("session is invalid or expired")

// Session binds a bearer token to a username with an expiry.
type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionStore abstracts session/token persistence.
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	FindByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, username string) error
	PurgeExpired(ctx context.Context) error
}

// NoopSessionStore is a safe default when callers do not need session persistence.
var NoopSessionStore SessionStore = noopSessionStore{}

type noopSessionStore struct{}

func (noopSessionStore) Save(_ context.Context, _ Session) error { return nil }
func (noopSessionStore) FindByToken(_ context.Context, _ string) (*Session, error) {
	return nil, ErrInvalidSession
}
func (noopSessionStore) Delete(_ context.Context, _ string) error { return nil }
func (noopSessionStore) PurgeExpired(_ context.Context) error     { return nil }
