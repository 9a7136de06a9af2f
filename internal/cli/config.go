package cli

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string        `env:"NEXUS_SERVER,default=http://localhost:8080"`
	Output    string        `env:"NEXUS_OUTPUT,default=text"`
	Timeout   time.Duration `env:"NEXUS_TIMEOUT,default=2m"`
	Verbose   bool
}

// DefaultConfig returns a Config populated from the environment
func DefaultConfig() *Config {
	return configFrom(envconfig.OsLookuper())
}

func configFrom(l envconfig.Lookuper) *Config {
	c := &Config{}
	if err := envconfig.ProcessWith(context.Background(), c, l); err != nil {
		// Unparseable values fall back to the built-in defaults
		return &Config{ServerURL: "http://localhost:8080", Output: "text", Timeout: 2 * time.Minute}
	}
	return c
}
