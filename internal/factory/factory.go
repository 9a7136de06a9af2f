package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/nexus/internal/config"
	"github.com/mcoot/nexus/internal/dependencies/clock"
	"github.com/mcoot/nexus/internal/dependencies/random"
	"github.com/mcoot/nexus/internal/generator"
	"github.com/mcoot/nexus/internal/services/admin"
	"github.com/mcoot/nexus/internal/services/billing"
	"github.com/mcoot/nexus/internal/services/heartbeat"
	"github.com/mcoot/nexus/internal/services/identity"
	"github.com/mcoot/nexus/internal/services/ledger"
	"github.com/mcoot/nexus/internal/services/settings"
	"github.com/mcoot/nexus/internal/services/studio"
	"github.com/mcoot/nexus/internal/storage"
	"github.com/mcoot/nexus/internal/storage/memory"
	redisstorage "github.com/mcoot/nexus/internal/storage/redis"
	"github.com/mcoot/nexus/internal/storage/sqlite"
)

// DefaultCreatorEmail is privileged when no allow-list is configured
const DefaultCreatorEmail = "creator@nexus.ia"

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock     clock.Clock
	Random    random.Random
	Generator generator.Generator

	// Services
	Identity  *identity.Service
	Ledger    *ledger.Service
	Heartbeat *heartbeat.Service
	Admin     *admin.Service
	Studio    *studio.Service
	Billing   *billing.Service
	Settings  *settings.Service

	Logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLiteConfig holds the database location (required if StorageType is "sqlite")
	SQLiteConfig *sqlite.Config
	// Gemini configures the generator (optional)
	// If nil, every generation fails and is refunded
	Gemini *generator.Config

	CreatorEmails    []string
	PaymentRecipient string
	Heartbeat        heartbeat.Config
	Admin            admin.Config
}

// ConfigFromEnv maps the process configuration onto the factory configuration
func ConfigFromEnv(c *config.Config, logger *slog.Logger) Config {
	cfg := Config{
		Logger:           logger,
		StorageType:      c.Storage.Type,
		RedisConfig:      &redisstorage.Config{URL: c.Storage.RedisURL},
		SQLiteConfig:     &sqlite.Config{Path: c.Storage.SQLitePath},
		CreatorEmails:    c.CreatorEmails,
		PaymentRecipient: c.PaymentRecipient,
		Heartbeat:        heartbeat.Config{Interval: c.HeartbeatInterval},
		Admin: admin.Config{
			OnlineWindow:       c.OnlineWindow,
			RefreshInterval:    c.AdminRefreshInterval,
			DefaultOfficialURL: c.PublicURL,
		},
	}
	if c.Gemini.APIKey != "" {
		gc := generator.DefaultConfig()
		gc.APIKey = c.Gemini.APIKey
		gc.TextModel = c.Gemini.TextModel
		gc.ImageModel = c.Gemini.ImageModel
		gc.SpeechModel = c.Gemini.SpeechModel
		cfg.Gemini = &gc
	}
	return cfg
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	var gen generator.Generator = generator.Unavailable{}
	if cfg.Gemini != nil {
		gemini, err := generator.NewGemini(ctx, *cfg.Gemini)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		gen = gemini
	} else {
		logger.Warn("no generative model configured; studio requests will fail")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, gen, cfg, logger), nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageMemory
	}

	switch storageType {
	case config.StorageMemory:
		return memory.New(), nil
	case config.StorageRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		rc := redisstorage.DefaultConfig()
		rc.URL = cfg.RedisConfig.URL
		if cfg.RedisConfig.UpdateRetries > 0 {
			rc.UpdateRetries = cfg.RedisConfig.UpdateRetries
		}
		store, err := redisstorage.New(rc)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageSQLite:
		if cfg.SQLiteConfig == nil {
			return nil, errors.New("SQLiteConfig required when StorageType is sqlite")
		}
		store, err := sqlite.New(*cfg.SQLiteConfig)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sqlite'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	gen generator.Generator,
	cfg Config,
	logger *slog.Logger,
) *App {
	creators := cfg.CreatorEmails
	if len(creators) == 0 {
		creators = []string{DefaultCreatorEmail}
	}
	policy := identity.NewAllowList(creators...)

	identityService := identity.New(store, clk, rnd, policy, logger)
	ledgerService := ledger.New(store, logger)
	heartbeatService := heartbeat.New(store, clk, cfg.Heartbeat, logger)
	adminService := admin.New(store, clk, policy, cfg.Admin, logger)
	studioService := studio.New(store, ledgerService, gen, clk, rnd, logger)
	billingService := billing.New(cfg.PaymentRecipient, adminService)
	settingsService := settings.New(store)

	identityService.AddListener(heartbeatService)

	return &App{
		Storage:   store,
		Clock:     clk,
		Random:    rnd,
		Generator: gen,
		Identity:  identityService,
		Ledger:    ledgerService,
		Heartbeat: heartbeatService,
		Admin:     adminService,
		Studio:    studioService,
		Billing:   billingService,
		Settings:  settingsService,
		Logger:    logger,
	}
}

// Boot runs the app-load sequence: a profile that already holds a session
// counts a visit and resumes its heartbeat.
func (a *App) Boot(ctx context.Context) error {
	resumed, err := a.Admin.RecordVisit(ctx)
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}

	if resumed {
		a.Logger.Info("session resumed")
		a.Heartbeat.Start(ctx)
	}
	return nil
}

// Close stops background work and releases storage
func (a *App) Close() error {
	a.Heartbeat.Stop()
	return a.Storage.Close()
}
