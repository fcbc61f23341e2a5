package apiclient

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

type SessionState string

const (
	SessionStateInit          SessionState = "init"
	SessionStateAuthenticated SessionState = "authenticated"
	SessionStateRefreshing    SessionState = "refreshing"
	SessionStateExpired       SessionState = "expired"
)

// TokenStore holds the persisted access token. Implementations may back it
// with disk, keychain, or memory; the client only needs get/set/clear.
type TokenStore interface {
	AccessToken() string
	SetAccessToken(token string)
	Clear()
}

type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (m *MemoryTokenStore) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *MemoryTokenStore) SetAccessToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func (m *MemoryTokenStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
}

// RefreshFunc performs one refresh round trip and returns the new access
// token.
type RefreshFunc func(ctx context.Context) (string, error)

// Session owns the access token lifecycle: init -> authenticated ->
// refreshing -> authenticated | expired. Concurrent 401 handlers share a
// single in-flight refresh; whichever request trips the refresh first does
// the round trip and everyone waits on its result, so a burst of expired
// requests cannot rotate the credential more than once.
type Session struct {
	mu        sync.Mutex
	state     SessionState
	store     TokenStore
	refresh   RefreshFunc
	group     singleflight.Group
	onExpired func()
}

func NewSession(store TokenStore, refresh RefreshFunc, onExpired func()) *Session {
	return &Session{
		state:     SessionStateInit,
		store:     store,
		refresh:   refresh,
		onExpired: onExpired,
	}
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) AccessToken() string {
	return s.store.AccessToken()
}

// SetAuthenticated installs a token obtained out-of-band (login).
func (s *Session) SetAuthenticated(token string) {
	s.store.SetAccessToken(token)
	s.setState(SessionStateAuthenticated)
}

// Refresh obtains a new access token, coalescing concurrent callers into one
// underlying call. On failure the stored credentials are cleared, the session
// transitions to expired, and the onExpired hook fires (typically a redirect
// to the login entry point).
func (s *Session) Refresh(ctx context.Context) (string, error) {
	v, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		s.setState(SessionStateRefreshing)
		token, err := s.refresh(ctx)
		if err != nil {
			s.store.Clear()
			s.setState(SessionStateExpired)
			if s.onExpired != nil {
				s.onExpired()
			}
			return nil, err
		}
		s.store.SetAccessToken(token)
		s.setState(SessionStateAuthenticated)
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Expire clears credentials without a refresh attempt (logout).
func (s *Session) Expire() {
	s.store.Clear()
	s.setState(SessionStateExpired)
}
