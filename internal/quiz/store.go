package quiz

import "sync"

// SessionStore holds the active test session per user. A user has at most
// one session at a time; starting a new test replaces any abandoned one.
// The store is an explicit dependency of the handlers rather than a
// package-level map so request handling stays free of global mutable state.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session // keyed by user ID
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
	}
}

// Get returns the user's active session, or nil if none exists
func (st *SessionStore) Get(userID string) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[userID]
}

// Put stores the user's active session, replacing any previous one
func (st *SessionStore) Put(userID string, s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[userID] = s
}

// Delete removes the user's active session
func (st *SessionStore) Delete(userID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, userID)
}
