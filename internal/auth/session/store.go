package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is the session lifetime when CAMPFIRE_SESSION_TTL is unset.
const DefaultTTL = 30 * 24 * time.Hour

// Config defines runtime configuration for the session store.
type Config struct {
	// TTL is the default session lifetime. Must be > 0.
	TTL time.Duration
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{TTL: DefaultTTL}
}

// Session is a single bearer session.
type Session struct {
	Token     string
	DID       string
	Handle    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store owns session tokens and their TTL-bound validity.
//
// All operations are local map operations guarded by one mutex; none of
// them block. Callers pass "now" explicitly so expiry behavior is
// deterministic under test.
type Store struct {
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]Session
}

// NewStore constructs a Store. It returns ErrConfig when cfg.TTL <= 0;
// a silently defaulted lifetime would hide a misconfigured deployment.
func NewStore(cfg Config) (*Store, error) {
	if cfg.TTL <= 0 {
		return nil, ErrConfig
	}
	return &Store{
		ttl:      cfg.TTL,
		sessions: make(map[string]Session),
	}, nil
}

// Create issues a new session for did/handle and returns it.
//
// The token is a random 128-bit identifier (hyphenated hex groups).
// Collisions are treated as impossible, not handled.
// ttlOverride <= 0 means "use the configured default".
func (s *Store) Create(now time.Time, did, handle string, ttlOverride time.Duration) Session {
	ttl := s.ttl
	if ttlOverride > 0 {
		ttl = ttlOverride
	}

	sess := Session{
		Token:     uuid.NewString(),
		DID:       did,
		Handle:    handle,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	return sess
}

// Get returns the session for token, if present and unexpired.
//
// Lazy expiry: a present-but-expired entry is deleted here and reported
// absent, so correctness never depends on the prune sweep cadence.
func (s *Store) Get(now time.Time, token string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	if expired(sess, now) {
		delete(s.sessions, token)
		return Session{}, false
	}
	return sess, true
}

// Delete removes a session (logout). Unknown tokens are a no-op.
func (s *Store) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Prune removes every expired session and returns how many were removed.
// It is idempotent and safe to run concurrently with normal traffic.
func (s *Store) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for token, sess := range s.sessions {
		if expired(sess, now) {
			delete(s.sessions, token)
			n++
		}
	}
	return n
}

// Len reports the number of live entries (expired-but-unswept included).
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// expired is the single expiry predicate shared by Get and Prune.
func expired(sess Session, now time.Time) bool {
	return !now.Before(sess.ExpiresAt)
}
