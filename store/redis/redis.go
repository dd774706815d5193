// Package redis implements store.Store on Redis strings.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/evdnx/tachart/internal/logger"
	"github.com/evdnx/tachart/store"

	goredis "github.com/go-redis/redis/v8"
)

const (
	// DefaultNamespace keeps tachart keys apart from whatever else shares the
	// Redis database.
	DefaultNamespace = "tachart:"
	scanBatch        = 100
)

// Config configures the Redis store.
type Config struct {
	Addr      string // Redis address, e.g. "localhost:6379"
	Password  string
	DB        int
	Namespace string // prepended to every key; DefaultNamespace when empty
	Logger    *slog.Logger
}

// Store is a store.Store backed by Redis.
type Store struct {
	client *goredis.Client
	ns     string
	log    *slog.Logger
}

var _ store.Store = (*Store)(nil)

// New creates a Redis store and pings the server.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	log.Info("redis store connected", slog.String("addr", cfg.Addr), slog.String("namespace", ns))
	return &Store{client: client, ns: ns, log: log}, nil
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, s.ns+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.ns+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	n, err := s.client.Del(ctx, s.ns+key).Result()
	if err != nil {
		return fmt.Errorf("redis delete %q: %w", key, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Keys walks the keyspace with SCAN so large databases are never blocked by
// KEYS.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	match := escapeGlob(s.ns+prefix) + "*"
	seen := make(map[string]struct{})
	iter := s.client.Scan(ctx, 0, match, scanBatch).Iterator()
	for iter.Next(ctx) {
		seen[strings.TrimPrefix(iter.Val(), s.ns)] = struct{}{}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan %q: %w", prefix, err)
	}

	// SCAN may return a key more than once.
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// escapeGlob quotes the characters Redis MATCH patterns treat specially.
func escapeGlob(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\', '^':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
