package usecase

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"resume-builder/internal/model"
)

// ErrSessionNotFound is returned for an unknown or expired session id.
var ErrSessionNotFound = errors.New("session not found")

// Session is one editor page load: a document store with its bound views.
type Session struct {
	ID     string
	Store  *Store
	Binder *Binder

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Sessions keeps editor sessions in memory. Nothing survives a restart and
// a page reload always starts a new session from the default document.
type Sessions struct {
	ttl time.Duration
	log *logrus.Logger
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessions(ttl time.Duration, log *logrus.Logger) *Sessions {
	return &Sessions{ttl: ttl, log: log, now: time.Now, sessions: map[string]*Session{}}
}

// Create starts a session seeded with the default document. Sessions idle
// for longer than the ttl are dropped first.
func (r *Sessions) Create() *Session {
	now := r.now()
	store := NewStore(model.DefaultDocument())
	s := &Session{
		ID:       uuid.NewString(),
		Store:    store,
		Binder:   NewBinder(store),
		lastSeen: now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep(now)
	r.sessions[s.ID] = s
	r.log.WithFields(logrus.Fields{"session_id": s.ID, "active": len(r.sessions)}).Debug("session created")
	return s
}

// Get returns the session and marks it as used.
func (r *Sessions) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(r.now())
	return s, nil
}

func (r *Sessions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// sweep must be called with r.mu held.
func (r *Sessions) sweep(now time.Time) {
	if r.ttl <= 0 {
		return
	}
	for id, s := range r.sessions {
		if s.idleSince(now) > r.ttl {
			s.Binder.Close()
			delete(r.sessions, id)
			r.log.WithField("session_id", id).Debug("session expired")
		}
	}
}
