package service

import (
	"log"
	"sync"
	"time"
)

// SessionRegistry owns all active sessions. It is the only path to create or
// destroy a session, and its map operations are safe for concurrent use.
// Sessions idle longer than the TTL are evicted by the sweeper.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*ChatSession
	ttl      time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewSessionRegistry creates a registry evicting sessions idle longer than ttl
func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*ChatSession),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
}

// Put registers a session under its ID
func (r *SessionRegistry) Put(session *ChatSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
}

// Get looks up a session by ID
func (r *SessionRegistry) Get(id string) (*ChatSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	return session, ok
}

// Delete removes a session and reports whether it existed
func (r *SessionRegistry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len returns the number of active sessions
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// StartSweeper evicts expired sessions every interval until Close is called
func (r *SessionRegistry) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if evicted := r.Sweep(time.Now()); evicted > 0 {
					log.Printf("🧹 Evicted %d idle chat session(s)", evicted)
				}
			case <-r.done:
				return
			}
		}
	}()
}

// Sweep removes sessions idle past the TTL and returns how many were evicted
func (r *SessionRegistry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, session := range r.sessions {
		if now.Sub(session.LastActivity()) > r.ttl {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Close stops the sweeper
func (r *SessionRegistry) Close() {
	r.stopOnce.Do(func() { close(r.done) })
}
