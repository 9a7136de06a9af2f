package admin

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/nexus/internal/dependencies/clock"
	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/services/heartbeat"
	"github.com/mcoot/nexus/internal/services/identity"
	"github.com/mcoot/nexus/internal/storage"
)

// Config holds configuration for the admin service
type Config struct {
	// OnlineWindow is how recent lastActive must be to count as online
	OnlineWindow time.Duration
	// RefreshInterval is the period of Watch updates
	RefreshInterval time.Duration
	// DefaultOfficialURL is returned until an admin sets one
	DefaultOfficialURL string
}

// DefaultConfig returns default admin configuration
func DefaultConfig() Config {
	return Config{
		OnlineWindow:       5 * time.Minute,
		RefreshInterval:    10 * time.Second,
		DefaultOfficialURL: "http://localhost:8080",
	}
}

// Service computes directory reports for the creator console
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	policy  identity.Policy
	cfg     Config
	logger  *slog.Logger
}

// New creates a new admin service
func New(storage storage.Storage, clock clock.Clock, policy identity.Policy, cfg Config, logger *slog.Logger) *Service {
	def := DefaultConfig()
	if cfg.OnlineWindow <= 0 {
		cfg.OnlineWindow = def.OnlineWindow
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = def.RefreshInterval
	}
	if cfg.DefaultOfficialURL == "" {
		cfg.DefaultOfficialURL = def.DefaultOfficialURL
	}
	return &Service{
		storage: storage,
		clock:   clock,
		policy:  policy,
		cfg:     cfg,
		logger:  logger,
	}
}

// ComputeStats derives the directory report as of now
func ComputeStats(st *model.State, now time.Time, window time.Duration) model.Stats {
	stats := model.Stats{
		TotalVisits: st.TotalVisits,
		TotalUsers:  len(st.Users),
	}
	for i := range st.Users {
		if heartbeat.IsOnline(st.Users[i].LastActive, now, window) {
			stats.OnlineUsers++
		}
		if st.Users[i].IsElite() {
			stats.EliteUsers++
		}
	}
	stats.OfflineUsers = stats.TotalUsers - stats.OnlineUsers
	return stats
}

// SearchUsers filters users whose username or email contains query,
// case-insensitively, keeping registration order
func SearchUsers(users []model.User, query string) []model.User {
	q := strings.ToLower(query)
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if q == "" ||
			strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	return out
}

// Authorize checks the active session is privileged. Call it per request.
func (s *Service) Authorize(ctx context.Context) (*model.User, error) {
	st, err := s.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	if st.Session == nil {
		return nil, model.ErrNoSession
	}
	if !identity.IsPrivileged(s.policy, st.Session.Email) {
		return nil, model.ErrNotCreator
	}
	return st.Session, nil
}

// Stats returns the current report
func (s *Service) Stats(ctx context.Context) (model.Stats, error) {
	st, err := s.storage.Load(ctx)
	if err != nil {
		return model.Stats{}, err
	}
	return ComputeStats(st, s.clock.Now(), s.cfg.OnlineWindow), nil
}

// Users returns the directory filtered by query
func (s *Service) Users(ctx context.Context, query string) ([]model.User, error) {
	st, err := s.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	return SearchUsers(st.Users, query), nil
}

// IsOnline reports whether u counts as online now
func (s *Service) IsOnline(u model.User) bool {
	return heartbeat.IsOnline(u.LastActive, s.clock.Now(), s.cfg.OnlineWindow)
}

// RefreshInterval is the period between Watch emissions
func (s *Service) RefreshInterval() time.Duration {
	return s.cfg.RefreshInterval
}

// RecordVisit counts an app load. Only a profile holding a session
// counts; the result reports whether one did.
func (s *Service) RecordVisit(ctx context.Context) (bool, error) {
	counted := false
	err := s.storage.Update(ctx, func(st *model.State) error {
		if st.Session == nil {
			return nil
		}
		st.TotalVisits++
		counted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return counted, nil
}

// OfficialURL returns the share URL, falling back to the default
func (s *Service) OfficialURL(ctx context.Context) (string, error) {
	st, err := s.storage.Load(ctx)
	if err != nil {
		return "", err
	}
	if st.OfficialURL == "" {
		return s.cfg.DefaultOfficialURL, nil
	}
	return st.OfficialURL, nil
}

// SetOfficialURL stores the share URL. An empty value restores the default.
func (s *Service) SetOfficialURL(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	err := s.storage.Update(ctx, func(st *model.State) error {
		st.OfficialURL = url
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("official url updated", slog.String("url", url))
	return nil
}

// Watch emits the report immediately and then every refresh interval
// until ctx is done or emit returns an error. Authorization is checked
// before each emission.
func (s *Service) Watch(ctx context.Context, emit func(model.Stats) error) error {
	ticker := s.clock.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		if _, err := s.Authorize(ctx); err != nil {
			return err
		}
		stats, err := s.Stats(ctx)
		if err != nil {
			return err
		}
		if err := emit(stats); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
		}
	}
}
