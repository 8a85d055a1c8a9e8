package memory

import (
	"context"
	"sync"
	"time"

	"github.com/bookhaven/bookstore-api/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	mu      sync.RWMutex
	byToken map[string]ports.Session
	byUser  map[string][]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		byToken: map[string]ports.Session{},
		byUser:  map[string][]string{},
	}
}

func (s *SessionStore) Save(_ context.Context, session ports.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byToken[session.Token] = session
	s.byUser[session.Username] = append(s.byUser[session.Username], session.Token)
	return nil
}

func (s *SessionStore) FindByToken(_ context.Context, token string) (*ports.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.byToken[token]
	if !ok {
		return nil, ports.ErrInvalidSession
	}
	clone := session
	return &clone, nil
}

func (s *SessionStore) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, token := range s.byUser[username] {
		delete(s.byToken, token)
	}
	delete(s.byUser, username)
	return nil
}

func (s *SessionStore) PurgeExpired(_ context.Context) error {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.byToken {
		if session.Expired(now) {
			delete(s.byToken, token)
		}
	}
	return nil
}
