package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/storage"
)

// ErrTooMuchContention is returned when Update keeps losing optimistic races
var ErrTooMuchContention = errors.New("redis: update retries exhausted")

// Storage is a Redis-backed implementation of the storage interface.
// Each persisted value lives under its own key; Update uses WATCH/MULTI so
// concurrent writers retry instead of overwriting each other.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.UpdateRetries <= 0 {
		cfg.UpdateRetries = DefaultConfig().UpdateRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Load(ctx context.Context) (*model.State, error) {
	return s.read(ctx, s.client)
}

func (s *Storage) Update(ctx context.Context, fn func(state *model.State) error) error {
	keys := stateKeys()

	txf := func(tx *redis.Tx) error {
		state, err := s.read(ctx, tx)
		if err != nil {
			return err
		}

		if err := fn(state); err != nil {
			return err
		}

		values, err := storage.Encode(state)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, name := range storage.Keys() {
				v := values[name]
				if v == "" {
					pipe.Del(ctx, stateKey(name))
					continue
				}
				pipe.Set(ctx, stateKey(name), v, 0) // No TTL
			}
			return nil
		})
		return err
	}

	for i := 0; i < s.cfg.UpdateRetries; i++ {
		err := s.client.Watch(ctx, txf, keys...)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			// A watched key changed; re-read and try again
			continue
		}
		return err
	}
	return ErrTooMuchContention
}

// mgetter is satisfied by both *redis.Client and *redis.Tx
type mgetter interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

// read fetches all persisted values in a single MGET
func (s *Storage) read(ctx context.Context, c mgetter) (*model.State, error) {
	names := storage.Keys()
	raw, err := c.MGet(ctx, stateKeys()...).Result()
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(names))
	for i, val := range raw {
		if val == nil {
			continue // Key not set yet
		}
		str, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("redis: unexpected value type %T for %s", val, names[i])
		}
		values[names[i]] = str
	}

	return storage.Decode(values)
}
