package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps checkpoints as binary values in Redis. Suitable for
// sharing checkpoints between processes without a shared filesystem.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisConfig provides connection options for the Redis checkpoint store.
type RedisConfig struct {
	// ConnectionString is either a redis:// / rediss:// URL or a plain
	// host:port address.
	ConnectionString string
	Username         string
	Password         string
	Database         int

	// Prefix namespaces the checkpoint keys. Defaults to "vecsnap:ckpt:".
	Prefix string
}

func parseRedisOptions(cfg RedisConfig) (*redis.Options, error) {
	if strings.HasPrefix(cfg.ConnectionString, "redis://") ||
		strings.HasPrefix(cfg.ConnectionString, "rediss://") {
		opts, err := redis.ParseURL(cfg.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("invalid Redis URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     cfg.ConnectionString,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.Database,
	}, nil
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.ConnectionString == "" {
		return nil, fmt.Errorf("redis connection string is required")
	}
	opts, err := parseRedisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "vecsnap:ckpt:"
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) key(name string) string { return s.prefix + name }

// Save writes the checkpoint under name with no expiry.
func (s *RedisStore) Save(ctx context.Context, name string, ckpt *Checkpoint) error {
	if name == "" {
		return fmt.Errorf("checkpoint name is required")
	}
	data, err := Marshal(ckpt)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(name), data, 0).Err(); err != nil {
		return fmt.Errorf("saving checkpoint %q: %w", name, err)
	}
	return nil
}

// Load reads the checkpoint saved under name.
func (s *RedisStore) Load(ctx context.Context, name string) (*Checkpoint, error) {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("loading checkpoint %q: %w", name, err)
	}
	ckpt, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decoding checkpoint %q: %w", name, err)
	}
	return ckpt, nil
}

// Delete removes the checkpoint saved under name, if present.
func (s *RedisStore) Delete(ctx context.Context, name string) error {
	return s.client.Del(ctx, s.key(name)).Err()
}

// List scans for all checkpoint names under the store's prefix.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error { return s.client.Close() }
