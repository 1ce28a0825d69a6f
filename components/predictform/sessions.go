package predictform

import (
	"container/list"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-predictform/pkg/form"
)

func newSessionID() string {
	return uuid.NewString()
}

type session struct {
	id         string
	controller *form.Controller
	lastSeen   time.Time
	elem       *list.Element
}

// sessionStore keeps one controller per session id. Entries are ordered by
// last use, most recent at the front.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	order    *list.List
	ttl      time.Duration
	limit    int
	now      func() time.Time
	newID    func() string
	build    func() (*form.Controller, error)
}

func newSessionStore(opts Options, build func() (*form.Controller, error)) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
		order:    list.New(),
		ttl:      opts.SessionTTL,
		limit:    opts.MaxSessions,
		now:      opts.Now,
		newID:    opts.SessionID,
		build:    build,
	}
}

// acquire returns the live session for id, or a fresh one when id is unknown
// or expired. created reports whether a new session was started.
func (s *sessionStore) acquire(id string) (sess *session, created bool, err error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(now)

	if existing, ok := s.sessions[id]; ok && id != "" {
		existing.lastSeen = now
		s.order.MoveToFront(existing.elem)
		return existing, false, nil
	}

	controller, err := s.build()
	if err != nil {
		return nil, false, err
	}
	for s.order.Len() >= s.limit {
		s.removeLocked(s.order.Back().Value.(*session))
	}
	sess = &session{
		id:         s.newID(),
		controller: controller,
		lastSeen:   now,
	}
	sess.elem = s.order.PushFront(sess)
	s.sessions[sess.id] = sess
	return sess, true, nil
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweepLocked drops sessions idle for longer than the TTL, oldest first.
func (s *sessionStore) sweepLocked(now time.Time) {
	for elem := s.order.Back(); elem != nil; {
		sess := elem.Value.(*session)
		if now.Sub(sess.lastSeen) <= s.ttl {
			return
		}
		prev := elem.Prev()
		s.removeLocked(sess)
		elem = prev
	}
}

func (s *sessionStore) removeLocked(sess *session) {
	s.order.Remove(sess.elem)
	delete(s.sessions, sess.id)
	// Any submission still running for this session is superseded.
	sess.controller.Reset()
}
