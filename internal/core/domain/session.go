package domain

import (
	"sync"
	"time"
)

// Session is the per-client identity holder. It is owned by the session
// resolver, created on first use and torn down on sign-out or idle expiry.
type Session struct {
	ID string

	mu          sync.Mutex
	state       SessionState
	identity    Identity
	accessToken string
	lastSeen    time.Time
	observers   map[int]chan Identity
	nextObs     int
	published   bool
	closed      bool
}

// NewSession returns an uninitialized session.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		state:     SessionUninitialized,
		lastSeen:  time.Now(),
		observers: make(map[int]chan Identity),
	}
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Identity() Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// SetAccessToken adopts a token supplied by the client or issued by the auth provider.
func (s *Session) SetAccessToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

// SwapAccessToken replaces previous with next and reports whether the session held previous.
func (s *Session) SwapAccessToken(previous, next string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accessToken == "" || s.accessToken != previous {
		return false
	}
	s.accessToken = next
	return true
}

// Touch records activity for idle sweeping.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// IdleSince reports whether the session has been inactive since before t.
func (s *Session) IdleSince(t time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(t)
}

// BeginResolve moves the session into the resolving state.
func (s *Session) BeginResolve() {
	s.mu.Lock()
	s.state = SessionResolving
	s.mu.Unlock()
}

// Settle leaves the resolving state without changing the identity, used when
// a resolution attempt failed and the prior identity stays authoritative.
func (s *Session) Settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity.IsAnonymous() {
		s.state = SessionAnonymous
	} else {
		s.state = SessionIdentified
	}
}

// Publish stores identity and settles the state. Observers are notified only
// on the first publish and when the identity differs from the previous one.
// Observers that are not keeping up miss intermediate identities, never the latest.
func (s *Session) Publish(identity Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := !s.published || !s.identity.Equal(identity)
	s.published = true
	s.identity = identity
	if identity.IsAnonymous() {
		s.state = SessionAnonymous
	} else {
		s.state = SessionIdentified
	}
	if !changed {
		return
	}

	for _, ch := range s.observers {
		select {
		case <-ch:
		default:
		}
		ch <- identity
	}
}

// Watch registers an observer. The returned cancel func must be called to release it.
// Watching a closed session yields a closed channel.
func (s *Session) Watch() (<-chan Identity, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		ch := make(chan Identity)
		close(ch)
		return ch, func() {}
	}

	id := s.nextObs
	s.nextObs++
	ch := make(chan Identity, 1)
	s.observers[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.observers[id]; ok {
			delete(s.observers, id)
			close(c)
		}
	}
}

// Close releases all observers. The session accepts no new observers afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, ch := range s.observers {
		delete(s.observers, id)
		close(ch)
	}
}
