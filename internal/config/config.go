package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Config is the process configuration, read from the environment
type Config struct {
	Env  string `env:"NEXUS_ENV,default=dev"`
	Host string `env:"NEXUS_HOST,default=localhost"`
	Port string `env:"NEXUS_PORT,default=8080"`

	Storage struct {
		Type       string `env:"NEXUS_STORAGE,default=memory"`
		RedisURL   string `env:"NEXUS_REDIS_URL,default=redis://localhost:6379/0"`
		SQLitePath string `env:"NEXUS_SQLITE_PATH,default=nexus.db"`
	}

	Gemini struct {
		APIKey      string `env:"GEMINI_API_KEY"`
		TextModel   string `env:"NEXUS_TEXT_MODEL,default=gemini-3-flash-preview"`
		ImageModel  string `env:"NEXUS_IMAGE_MODEL,default=gemini-2.5-flash-image"`
		SpeechModel string `env:"NEXUS_SPEECH_MODEL,default=gemini-2.5-flash-preview-tts"`
	}

	// CreatorEmails is the privileged allow-list, comma separated
	CreatorEmails    []string `env:"NEXUS_CREATOR_EMAILS,default=creator@nexus.ia"`
	PublicURL        string   `env:"NEXUS_PUBLIC_URL,default=http://localhost:8080"`
	PaymentRecipient string   `env:"NEXUS_PAYMENT_RECIPIENT,default=billing@nexus.ia"`

	HeartbeatInterval    time.Duration `env:"NEXUS_HEARTBEAT_INTERVAL,default=30s"`
	AdminRefreshInterval time.Duration `env:"NEXUS_ADMIN_REFRESH_INTERVAL,default=10s"`
	OnlineWindow         time.Duration `env:"NEXUS_ONLINE_WINDOW,default=5m"`
}

// Load reads the configuration from the process environment
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.ProcessWith(ctx, cfg, l); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Type {
	case StorageMemory, StorageRedis, StorageSQLite:
	default:
		return fmt.Errorf("invalid storage type %q: must be memory, redis or sqlite", c.Storage.Type)
	}
	if c.HeartbeatInterval <= 0 || c.AdminRefreshInterval <= 0 || c.OnlineWindow <= 0 {
		return errors.New("intervals must be positive")
	}
	for i, email := range c.CreatorEmails {
		c.CreatorEmails[i] = strings.TrimSpace(email)
	}
	return nil
}

// Addr is the listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}
