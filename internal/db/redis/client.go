// Package redis is the blog document store for Redis and Valkey. Blogs live in
// hashes indexed by sets, and every write is a single MULTI/EXEC block.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/devhabit/devhabit/internal/db"
)

var _ db.Store = (*Store)(nil)

// readyPollInterval spaces the pings in WaitForReady.
const readyPollInterval = 100 * time.Millisecond

// Config holds connection parameters. Valkey speaks the same protocol, so one
// Config serves both drivers.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Store is a rueidis-backed db.Store.
type Store struct {
	client rueidis.Client
}

// NewStore dials the server. Client-side caching stays off: blogs are read as
// whole snapshots and never invalidated per key.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("redis: at least one address is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("redis: connect %v: %w", cfg.Addrs, err)
	}
	return &Store{client: client}, nil
}

// Ping round-trips a PING.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close releases every connection.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings right away and then every readyPollInterval until the
// server answers or timeout passes. The last ping error is kept in the result.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()

	for {
		lastErr := s.Ping(ctx)
		if lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("store not ready after %s: %w", timeout, errors.Join(ctx.Err(), lastErr))
		case <-ticker.C:
		}
	}
}
