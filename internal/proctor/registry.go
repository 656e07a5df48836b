package proctor

import "sync"

// Registry holds the live proctor session per workflow instance. Sessions are
// process-local: dropping one (the asesi leaving the exam screen) resets the
// counter for the next entry, but a termination already persisted through the
// saved answers is not undone.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Session returns the session for the izin, creating an Idle one if absent.
func (r *Registry) Session(izinID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[izinID]
	if !ok {
		s = NewSession()
		r.sessions[izinID] = s
	}
	return s
}

// Drop discards the session for the izin.
func (r *Registry) Drop(izinID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, izinID)
}
