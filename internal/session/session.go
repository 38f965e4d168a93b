package session

import (
	"context"
	"ctchen222/tictactoe/internal/engine"
	"log/slog"
	"sync"
	"time"
)

// subscriberBuffer is how many updates a subscriber may lag behind before
// it is dropped.
const subscriberBuffer = 16

type subscriber struct {
	ch   chan engine.Update
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.ch) })
}

// Session pairs one Engine with the clients watching it.
type Session struct {
	ID        string
	Engine    *engine.Engine
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
	subs     map[*subscriber]struct{}
	closed   bool
	lastSeq  uint64
	now      func() time.Time
}

func newSession(id string, now func() time.Time) *Session {
	t := now()
	return &Session{
		ID:        id,
		CreatedAt: t,
		lastSeen:  t,
		subs:      make(map[*subscriber]struct{}),
		now:       now,
	}
}

// OnUpdate fans u out to every subscriber. Updates older than one already
// forwarded are dropped, as are subscribers whose buffer is full.
func (s *Session) OnUpdate(ctx context.Context, u engine.Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.Seq <= s.lastSeq {
		slog.DebugContext(ctx, "Dropping out-of-order update", "session.id", s.ID, "update.seq", u.Seq, "update.last_seq", s.lastSeq)
		return
	}
	s.lastSeq = u.Seq
	s.lastSeen = s.now()
	for sub := range s.subs {
		select {
		case sub.ch <- u:
		default:
			delete(s.subs, sub)
			sub.close()
		}
	}
}

// Subscribe registers a watcher. The channel is closed when the returned
// cancel func is called, ctx ends, the subscriber falls behind or the
// session is closed.
func (s *Session) Subscribe(ctx context.Context) (<-chan engine.Update, func()) {
	sub := &subscriber{ch: make(chan engine.Update, subscriberBuffer)}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sub.close()
		return sub.ch, func() {}
	}
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	done := make(chan struct{})
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, sub)
			s.mu.Unlock()
			sub.close()
			close(done)
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()
	return sub.ch, cancel
}

// Subscribers reports how many watchers are attached.
func (s *Session) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Touch marks the session as used.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
}

// LastSeen is the time of the last request or update.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for sub := range s.subs {
		delete(s.subs, sub)
		sub.close()
	}
}
