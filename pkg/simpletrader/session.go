package simpletrader

import (
	"sync"
	"time"

	"github.com/tendant/simple-trader/pkg/simpletrader/catalog"
)

// DefaultSessionTTL is how long a trade session stays open after it starts.
const DefaultSessionTTL = 5 * time.Minute

// sessionStore keeps one cart per user in memory.
type sessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*Session
}

func newSessionStore(ttl time.Duration, now func() time.Time) *sessionStore {
	return &sessionStore{
		ttl:      ttl,
		now:      now,
		sessions: make(map[string]*Session),
	}
}

// start replaces any existing session for userID.
func (s *sessionStore) start(userID string, mode catalog.Mode) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &Session{
		UserID:    userID,
		Mode:      mode,
		StartedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.sessions[userID] = sess
	return copySession(sess)
}

func (s *sessionStore) get(userID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.activeLocked(userID)
	if err != nil {
		return nil, err
	}
	return copySession(sess), nil
}

// update applies fn to the live session under the lock.
func (s *sessionStore) update(userID string, fn func(*Session) error) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.activeLocked(userID)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	return copySession(sess), nil
}

func (s *sessionStore) clear(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[userID]
	delete(s.sessions, userID)
	return ok
}

func (s *sessionStore) activeLocked(userID string) (*Session, error) {
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !s.now().Before(sess.ExpiresAt) {
		delete(s.sessions, userID)
		return nil, ErrSessionExpired
	}
	return sess, nil
}

func copySession(s *Session) *Session {
	c := *s
	c.Lines = copyLines(s.Lines)
	return &c
}
