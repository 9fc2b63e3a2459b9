package client

import (
	"context"
	"sync"
)

// SessionStatus is the auth store's session lifecycle state.
type SessionStatus int

const (
	// SessionUnchecked means no session check has started yet.
	SessionUnchecked SessionStatus = iota
	// SessionChecking means the initial session check is in flight.
	SessionChecking
	// SessionAuthenticated means a live session exists.
	SessionAuthenticated
	// SessionAnonymous means there is no live session.
	SessionAnonymous
)

func (s SessionStatus) String() string {
	switch s {
	case SessionUnchecked:
		return "unchecked"
	case SessionChecking:
		return "checking"
	case SessionAuthenticated:
		return "authenticated"
	case SessionAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// AuthStore tracks the current session and user identity for one API client.
// Stores are per-instance so independent sessions stay isolated; callers that
// need a shared session share the store, not a package global.
type AuthStore struct {
	api *Client

	mu        sync.RWMutex
	status    SessionStatus
	user      *User
	err       error
	checkOnce sync.Once
}

// NewAuthStore creates an AuthStore bound to the given API client.
func NewAuthStore(api *Client) *AuthStore {
	return &AuthStore{api: api, status: SessionUnchecked}
}

// Status returns the current session status. It is the sole guard predicate:
// route guards wait for a terminal state instead of inspecting user presence.
func (s *AuthStore) Status() SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// User returns the signed-in user, or nil outside SessionAuthenticated.
func (s *AuthStore) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Err returns the last recorded auth error, if any.
func (s *AuthStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// CheckSession resolves whether a session cookie is already live. The check
// runs at most once per store lifetime; concurrent callers block until the
// first check completes, so no caller ever observes SessionChecking after
// CheckSession returns. A 401 is a clean anonymous outcome, not an error.
func (s *AuthStore) CheckSession(ctx context.Context) SessionStatus {
	s.checkOnce.Do(func() {
		s.mu.Lock()
		s.status = SessionChecking
		s.mu.Unlock()

		user, err := s.api.GetProfile(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		switch {
		case err == nil:
			s.status = SessionAuthenticated
			s.user = user
			s.err = nil
		case IsUnauthorized(err):
			s.status = SessionAnonymous
			s.err = nil
		default:
			s.status = SessionAnonymous
			s.err = err
		}
	})
	return s.Status()
}

// Login authenticates and transitions to SessionAuthenticated on success.
// On failure the store becomes anonymous, the error is recorded, and it is
// also returned to the caller.
func (s *AuthStore) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := s.api.Login(ctx, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = SessionAnonymous
		s.user = nil
		s.err = err
		return nil, err
	}
	s.status = SessionAuthenticated
	s.user = user
	s.err = nil
	return user, nil
}

// Register creates an account and transitions like Login.
func (s *AuthStore) Register(ctx context.Context, username, email, password string) (*User, error) {
	user, err := s.api.Register(ctx, username, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = SessionAnonymous
		s.user = nil
		s.err = err
		return nil, err
	}
	s.status = SessionAuthenticated
	s.user = user
	s.err = nil
	return user, nil
}

// Logout ends the session. Local state is cleared even when the server call
// fails, so a dead backend can never pin a client in a signed-in state.
func (s *AuthStore) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = SessionAnonymous
	s.user = nil
	s.err = err
	return err
}

// UpdateUser applies profile edits and merges the result into the store.
func (s *AuthStore) UpdateUser(ctx context.Context, update ProfileUpdate) (*User, error) {
	user, err := s.api.UpdateProfile(ctx, update)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		return nil, err
	}
	s.user = user
	s.err = nil
	return user, nil
}
