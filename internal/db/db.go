package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
type Store interface {
	Pinger
	HashReader
	SetReader
	IndexedWriter
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashReader reads hashes.
type HashReader interface {
	// HGetAll returns all fields of key, or ErrKeyNotFound when the hash is absent.
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	// HGetAllMulti reads many hashes in one round-trip. The result is positional:
	// an absent hash yields an empty map at its index, never an error.
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// SetReader reads the sets used as secondary indexes.
type SetReader interface {
	// SMembers returns all members of key (empty for a missing key).
	SMembers(ctx context.Context, key string) ([]string, error)
}

// HashWrite replaces fields of one hash and moves Member between index sets.
type HashWrite struct {
	Key        string
	Fields     map[string]string
	Drop       []string // fields removed after Fields are written
	Member     string
	AddTo      []string // sets that gain Member
	RemoveFrom []string // sets that lose Member
}

// IndexedWriter applies a hash write together with its index updates atomically,
// so a hash is never visible without its index entries or the reverse.
type IndexedWriter interface {
	// WriteIndexed applies w and reports whether the hash existed beforehand.
	WriteIndexed(ctx context.Context, w HashWrite) (existed bool, err error)
	// DeleteIndexed removes member from sets and deletes key. It reports whether
	// key existed.
	DeleteIndexed(ctx context.Context, key, member string, sets ...string) (existed bool, err error)
}
