// Package session holds the bearer credential for the lifetime of a
// console session. One store is shared by every client that needs to
// authenticate, so a login in one place is visible everywhere.
package session

import "sync"

// Store is an in-memory token holder. The zero value is usable.
type Store struct {
	mu    sync.RWMutex
	token string
}

// NewStore creates a store seeded with an initial token, which may be empty.
func NewStore(token string) *Store {
	return &Store{token: token}
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken replaces the stored token, e.g. after a login.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear forgets the token.
func (s *Store) Clear() {
	s.SetToken("")
}

// Authenticated reports whether a token is present.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}
