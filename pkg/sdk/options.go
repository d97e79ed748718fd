package devhabit

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

const (
	driverRedis  = "redis"
	driverValkey = "valkey"
	driverSQLite = "sqlite"
)

// DefaultKeyPrefix namespaces all Redis and Valkey keys.
const DefaultKeyPrefix = "devhabit:"

type clientConfig struct {
	driver   string // "redis", "valkey" or "sqlite"
	addrs    []string
	password string
	path     string

	keyPrefix string
	owner     string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverValkey
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithSQLite stores blogs in a local SQLite file, created on first use.
// Pass ":memory:" for a private in-memory database.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverSQLite
		c.path = path
	})
}

// WithKeyPrefix sets the Redis/Valkey key prefix. Default: "devhabit:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithOwner limits Search and Get to blogs authored by userID.
func WithOwner(userID string) Option {
	return optionFunc(func(c *clientConfig) {
		c.owner = userID
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
