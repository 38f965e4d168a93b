package session

import (
	"context"
	"ctchen222/tictactoe/internal/apperror"
	"ctchen222/tictactoe/internal/engine"
	"ctchen222/tictactoe/internal/game"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("session")

// Options configure the engines a Manager creates and how long idle
// sessions live.
type Options struct {
	Strategy      engine.Strategy
	History       engine.HistoryRecorder
	ComputerDelay time.Duration
	// TTL is how long a session may stay idle before Sweep removes it.
	// Zero keeps sessions forever.
	TTL time.Duration
	Now func() time.Time
}

// Manager owns every live session. Each session gets its own Engine.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
	cron     *cron.Cron
}

// NewManager creates an empty Manager.
func NewManager(opts Options) *Manager {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Create opens a session and starts its first game. Nothing is stored when
// the player configuration is rejected.
func (m *Manager) Create(ctx context.Context, p1, p2 game.PlayerConfig) (*Session, error) {
	ctx, span := tracer.Start(ctx, "Manager.Create")
	defer span.End()

	sess := newSession(uuid.NewString(), m.opts.Now)
	engineOpts := []engine.Option{
		engine.WithListener(sess),
		engine.WithComputerDelay(m.opts.ComputerDelay),
	}
	if m.opts.History != nil {
		engineOpts = append(engineOpts, engine.WithHistory(m.opts.History))
	}
	sess.Engine = engine.New(m.opts.Strategy, engineOpts...)
	span.SetAttributes(attribute.String("session.id", sess.ID))

	if _, err := sess.Engine.NewGame(ctx, p1, p2); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to start game")
		return nil, err
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	slog.InfoContext(ctx, "Session created", "session.id", sess.ID)
	return sess, nil
}

// Get returns the session with id and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}
	sess.Touch()
	return sess, nil
}

// Remove closes the session and forgets it. It reports whether the session
// existed.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		sess.close()
	}
	return ok
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep(ctx context.Context) int {
	if m.opts.TTL <= 0 {
		return 0
	}
	ctx, span := tracer.Start(ctx, "Manager.Sweep")
	defer span.End()

	cutoff := m.opts.Now().Add(-m.opts.TTL)

	m.mu.Lock()
	var expired []*Session
	for id, sess := range m.sessions {
		if sess.LastSeen().Before(cutoff) {
			expired = append(expired, sess)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, sess := range expired {
		sess.close()
		slog.InfoContext(ctx, "Session expired", "session.id", sess.ID)
	}
	span.SetAttributes(attribute.Int("session.expired", len(expired)))
	return len(expired)
}

// StartSweeper runs Sweep on the cron schedule spec, e.g. "@every 1m".
func (m *Manager) StartSweeper(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		ctx, span := tracer.Start(context.Background(), "Manager.cronSweep", trace.WithAttributes(
			attribute.String("cron.spec", spec),
		))
		defer span.End()
		m.Sweep(ctx)
	}); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}

	m.mu.Lock()
	m.cron = c
	m.mu.Unlock()

	c.Start()
	slog.Info("Session sweeper started", "cron.spec", spec, "session.ttl", m.opts.TTL)
	return nil
}

// Close stops the sweeper and closes every session.
func (m *Manager) Close() {
	m.mu.Lock()
	c := m.cron
	m.cron = nil
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	for _, sess := range sessions {
		sess.close()
	}
}
