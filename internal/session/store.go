package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrNotFound means the token was never issued or has already been purged.
	ErrNotFound = errors.New("session not found")
	// ErrExpired means the token was known but its lifetime has elapsed; the
	// record is purged on detection.
	ErrExpired = errors.New("session expired")
)

const DefaultTTL = 24 * time.Hour

type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Store holds live sessions in process memory. Sessions do not survive a
// restart and are purged lazily when a stale token is validated; there is no
// background sweep.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create issues an opaque token for userID with a fixed TTL. The lifetime is
// not refreshed on use, and nothing bounds the number of live sessions per
// user.
func (s *Store) Create(userID string) (*Session, error) {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &Session{
		Token:     fmt.Sprintf("session_%d_%s", now.UnixMilli(), hex.EncodeToString(suffix)),
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
	}
	s.sessions[sess.Token] = sess

	return sess, nil
}

// Validate resolves a token to its user ID. Unknown and expired tokens fail
// with distinct errors so callers can tell the two apart; an expired record
// is deleted before returning.
func (s *Store) Validate(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return "", ErrNotFound
	}

	if s.now().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return "", ErrExpired
	}

	return sess.UserID, nil
}

// Destroy removes a session. Unknown tokens are a no-op.
func (s *Store) Destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Exists reports whether a token is present, live or not.
func (s *Store) Exists(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[token]
	return ok
}
