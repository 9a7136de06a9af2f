package redis

import (
	"fmt"

	"github.com/mcoot/nexus/internal/storage"
)

// Key prefix for all profile data
const keyPrefix = "nexus"

// stateKey returns the Redis key for a persisted value
func stateKey(name string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, name)
}

// stateKeys returns the Redis keys of every persisted value, in storage.Keys order
func stateKeys() []string {
	names := storage.Keys()
	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = stateKey(name)
	}
	return keys
}
