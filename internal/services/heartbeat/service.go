package heartbeat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/nexus/internal/dependencies/clock"
	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/services/identity"
	"github.com/mcoot/nexus/internal/storage"
)

// Config holds configuration for the heartbeat
type Config struct {
	Interval time.Duration
}

// DefaultConfig returns default heartbeat configuration
func DefaultConfig() Config {
	return Config{
		Interval: 30 * time.Second,
	}
}

// IsOnline reports whether lastActive falls strictly inside window before now
func IsOnline(lastActive *time.Time, now time.Time, window time.Duration) bool {
	if lastActive == nil {
		return false
	}
	return lastActive.After(now.Add(-window))
}

// Service stamps session liveness into the directory while a session is open
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	logger   *slog.Logger
	interval time.Duration

	// lifecycle serializes Start and Stop
	lifecycle sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Ensure Service can follow session changes
var _ identity.Listener = (*Service)(nil)

// New creates a new heartbeat service
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	return &Service{
		storage:  storage,
		clock:    clock,
		logger:   logger,
		interval: cfg.Interval,
	}
}

// Beat stamps lastActive on the session and its directory entry.
// Nothing else is touched. Without a session it does nothing.
func (s *Service) Beat(ctx context.Context) error {
	now := s.clock.Now()
	return s.storage.Update(ctx, func(st *model.State) error {
		if st.Session == nil {
			return nil
		}
		st.Session.LastActive = &now
		if idx := st.FindByEmail(st.Session.Email); idx >= 0 {
			t := now
			st.Users[idx].LastActive = &t
		}
		return nil
	})
}

// Start beats once and then every interval until Stop. Starting again
// replaces the running loop.
func (s *Service) Start(ctx context.Context) {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.stop()

	if err := s.Beat(ctx); err != nil {
		s.logger.Warn("heartbeat failed", slog.String("error", err.Error()))
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	ticker := s.clock.NewTicker(s.interval)
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go s.run(loopCtx, ticker, done)
}

// Stop ends the loop and waits for it to exit
func (s *Service) Stop() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.stop()
}

func (s *Service) stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the loop is active
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Service) run(ctx context.Context, ticker clock.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if err := s.Beat(ctx); err != nil {
				s.logger.Warn("heartbeat failed", slog.String("error", err.Error()))
			}
		}
	}
}

// SessionStarted starts beating for the new session
func (s *Service) SessionStarted(ctx context.Context, _ model.User) {
	s.Start(ctx)
}

// SessionEnded stops beating
func (s *Service) SessionEnded(_ context.Context) {
	s.Stop()
}
