package cart

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore owns every live cart, keyed by session id. Carts start
// empty on first touch and are swept away after sitting idle for the
// configured TTL; nothing is persisted.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

type session struct {
	engine   *Engine
	lastSeen time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go s.sweep()
	return s
}

// NewSessionID mints an id for the session cookie.
func NewSessionID() string {
	return uuid.New().String()
}

// Session returns the cart for the id, creating an empty one on first use.
func (s *SessionStore) Session(id string) *Engine {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{engine: New()}
		s.sessions[id] = sess
	}
	sess.lastSeen = time.Now()
	return sess.engine
}

// Drop ends a session immediately.
func (s *SessionStore) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *SessionStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *SessionStore) sweep() {
	interval := s.ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, sess := range s.sessions {
				if now.Sub(sess.lastSeen) > s.ttl {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
