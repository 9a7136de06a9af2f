package identity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/nexus/internal/dependencies/clock"
	"github.com/mcoot/nexus/internal/dependencies/random"
	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/storage"
)

const (
	// CreatorHandle replaces the username of privileged accounts
	CreatorHandle = "the_creator"

	// DefaultUsername is used when registering without a username
	DefaultUsername = "NexusUser"

	// StartingCredits is the balance of a new basic account
	StartingCredits = 50

	idPrefix = "user_"
	idLength = 9
)

// Demo identity, never added to the directory
const (
	DemoID       model.UserID = "demo_123"
	DemoUsername              = "Invité Nexus"
	DemoEmail                 = "demo@nexus.ia"
	DemoCredits               = 99
)

// Listener is notified when a session starts or ends
type Listener interface {
	SessionStarted(ctx context.Context, user model.User)
	SessionEnded(ctx context.Context)
}

// Service resolves identities into the active session
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	policy  Policy
	logger  *slog.Logger

	// transition is held across a session write and its notification,
	// so listeners observe session changes in store order
	transition sync.Mutex

	mu        sync.RWMutex
	listeners []Listener
}

// New creates a new identity service
func New(storage storage.Storage, clock clock.Clock, random random.Random, policy Policy, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		policy:  policy,
		logger:  logger,
	}
}

// AddListener registers l for session notifications
func (s *Service) AddListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Policy returns the classification policy in use
func (s *Service) Policy() Policy {
	return s.policy
}

// Login opens a session for an existing email. The password is not checked.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, error) {
	s.transition.Lock()
	defer s.transition.Unlock()

	now := s.clock.Now()
	var user model.User
	err := s.storage.Update(ctx, func(st *model.State) error {
		idx := st.FindByEmail(email)
		if idx < 0 {
			return model.ErrUnknownIdentity
		}
		record := &st.Users[idx]
		if IsPrivileged(s.policy, record.Email) {
			applyCreatorOverride(record)
		}
		record.LastActive = &now
		st.Session = record.Clone()
		user = *record.Clone()
		return nil
	})
	if err != nil {
		s.logger.Info("login refused", slog.String("email", email), slog.String("reason", err.Error()))
		return nil, err
	}

	s.logger.Info("user logged in",
		slog.String("user_id", string(user.ID)),
		slog.String("tier", string(user.Tier)),
	)
	s.notifyStarted(ctx, user)
	return &user, nil
}

// Register appends a new record to the directory and makes it the session
func (s *Service) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if email == "" {
		return nil, model.ErrEmptyInput
	}

	now := s.clock.Now()
	id := model.UserID(idPrefix + s.random.String(idLength, random.Base36))

	s.transition.Lock()
	defer s.transition.Unlock()

	var user model.User
	err := s.storage.Update(ctx, func(st *model.State) error {
		if st.UsernameTaken(username) {
			return model.ErrDuplicateUsername
		}
		if st.FindByEmail(email) >= 0 {
			return model.ErrDuplicateEmail
		}

		user = model.User{
			ID:           id,
			Email:        email,
			LastActive:   &now,
			RegisteredAt: now,
		}
		if IsPrivileged(s.policy, email) {
			applyCreatorOverride(&user)
			user.Avatar = CreatorAvatar
		} else {
			user.Username = username
			if user.Username == "" {
				user.Username = DefaultUsername
			}
			user.Tier = model.TierBasic
			user.Credits = StartingCredits
			seed := username
			if seed == "" {
				seed = email
			}
			user.Avatar = AvatarFor(seed)
		}

		st.Users = append(st.Users, user)
		st.Session = user.Clone()
		return nil
	})
	if err != nil {
		s.logger.Info("registration refused", slog.String("email", email), slog.String("reason", err.Error()))
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("user_id", string(user.ID)),
		slog.String("tier", string(user.Tier)),
	)
	s.notifyStarted(ctx, user)
	return user.Clone(), nil
}

// EnterDemo opens a session for the shared demo identity
func (s *Service) EnterDemo(ctx context.Context) (*model.User, error) {
	now := s.clock.Now()
	user := model.User{
		ID:           DemoID,
		Username:     DemoUsername,
		Email:        DemoEmail,
		Tier:         model.TierBasic,
		Credits:      DemoCredits,
		Avatar:       AvatarFor("demo"),
		LastActive:   &now,
		RegisteredAt: now,
	}

	s.transition.Lock()
	defer s.transition.Unlock()

	err := s.storage.Update(ctx, func(st *model.State) error {
		st.Session = user.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("demo session started")
	s.notifyStarted(ctx, user)
	return &user, nil
}

// Logout clears the session. The directory is untouched.
func (s *Service) Logout(ctx context.Context) error {
	s.transition.Lock()
	defer s.transition.Unlock()

	err := s.storage.Update(ctx, func(st *model.State) error {
		st.Session = nil
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("user logged out")
	s.notifyEnded(ctx)
	return nil
}

// Current returns the active session
func (s *Service) Current(ctx context.Context) (*model.User, error) {
	st, err := s.storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	if st.Session == nil {
		return nil, model.ErrNoSession
	}
	return st.Session, nil
}

// applyCreatorOverride forces the privileged entitlements onto a record
func applyCreatorOverride(u *model.User) {
	u.Tier = model.TierElite
	u.Credits = model.UnlimitedCredits
	u.Username = CreatorHandle
}

func (s *Service) snapshotListeners() []Listener {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Listener, len(s.listeners))
	copy(out, s.listeners)
	return out
}

func (s *Service) notifyStarted(ctx context.Context, user model.User) {
	for _, l := range s.snapshotListeners() {
		l.SessionStarted(ctx, user)
	}
}

func (s *Service) notifyEnded(ctx context.Context) {
	for _, l := range s.snapshotListeners() {
		l.SessionEnded(ctx)
	}
}
